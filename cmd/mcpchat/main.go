package main

import "github.com/cleitonmarx/symbiont-mcp-chat/internal/app"

func main() {
	err := app.NewChatBridgeApp().
		Introspect(&app.ReportLoggerIntrospector{}).
		Run()
	if err != nil {
		panic(err)
	}
}
