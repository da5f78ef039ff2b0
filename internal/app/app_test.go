package app

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewChatBridgeApp_Initializers(t *testing.T) {
	app := NewChatBridgeApp()
	require.NotNil(t, app, "NewChatBridgeApp should not return nil")
}

func TestNewDirectoryApp_Initializers(t *testing.T) {
	app := NewDirectoryApp()
	require.NotNil(t, app, "NewDirectoryApp should not return nil")
}
