package main

import "github.com/cleitonmarx/symbiont-mcp-chat/internal/app"

func main() {
	err := app.NewDirectoryApp().Run()
	if err != nil {
		panic(err)
	}
}
