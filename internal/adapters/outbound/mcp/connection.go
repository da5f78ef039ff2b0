// Package mcp connects chat sessions to MCP tool servers and adapts
// their tool surface to the domain interfaces.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cleitonmarx/symbiont-mcp-chat/internal/domain"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Connection wraps one live MCP client session as a domain.ToolConnection.
type Connection struct {
	session *mcpsdk.ClientSession
}

// NewConnection wraps an established client session.
func NewConnection(session *mcpsdk.ClientSession) *Connection {
	return &Connection{session: session}
}

// ListTools fetches the server's current tool list. Input schemas are
// serialized verbatim; a schema the server cannot express as JSON fails
// the listing.
func (c *Connection) ListTools(ctx context.Context) ([]domain.ToolDescriptor, error) {
	var descriptors []domain.ToolDescriptor
	for tool, err := range c.session.Tools(ctx, nil) {
		if err != nil {
			return nil, fmt.Errorf("listing tools: %w", err)
		}
		schema, err := json.Marshal(tool.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("serializing input schema for tool %s: %w", tool.Name, err)
		}
		descriptors = append(descriptors, domain.ToolDescriptor{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: schema,
		})
	}
	return descriptors, nil
}

// CallTool invokes a tool on the remote server. Server-reported tool
// failures come back as IsError results, not Go errors; only transport
// faults surface as errors.
func (c *Connection) CallTool(ctx context.Context, name string, args map[string]any) (domain.ToolCallOutput, error) {
	result, err := c.session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		return domain.ToolCallOutput{}, fmt.Errorf("calling tool %s: %w", name, err)
	}

	var texts []string
	for _, content := range result.Content {
		if text, ok := content.(*mcpsdk.TextContent); ok {
			texts = append(texts, text.Text)
		}
	}

	return domain.ToolCallOutput{
		Text:       strings.Join(texts, "\n"),
		Structured: result.StructuredContent,
		IsError:    result.IsError,
	}, nil
}

// Close terminates the underlying session.
func (c *Connection) Close() error {
	return c.session.Close()
}
