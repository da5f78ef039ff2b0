package tools

import (
	"sync"

	"github.com/cleitonmarx/symbiont-mcp-chat/internal/domain"
)

// ConnectionToolRegistry tracks the tools exposed by each live connection of
// one chat session. It performs no I/O; registration events originate from
// the connection lifecycle adapter.
type ConnectionToolRegistry struct {
	mu sync.Mutex
	// order holds connection IDs in first-registration order; Resolve and
	// AllTools iterate it so lookups stay deterministic.
	order []string
	tools map[string][]domain.ToolDescriptor
}

// NewConnectionToolRegistry creates an empty session-scoped registry.
func NewConnectionToolRegistry() *ConnectionToolRegistry {
	return &ConnectionToolRegistry{
		tools: make(map[string][]domain.ToolDescriptor),
	}
}

// Register replaces any existing tool list for connectionID with the given
// descriptors. Re-registration keeps the connection's original position in
// the resolution order.
func (r *ConnectionToolRegistry) Register(connectionID string, tools []domain.ToolDescriptor) {
	stored := make([]domain.ToolDescriptor, len(tools))
	for i, tool := range tools {
		tool.Connection = connectionID
		stored[i] = tool
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[connectionID]; !exists {
		r.order = append(r.order, connectionID)
	}
	r.tools[connectionID] = stored
}

// Unregister removes the connection's tools; no-op when absent.
func (r *ConnectionToolRegistry) Unregister(connectionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[connectionID]; !exists {
		return
	}
	delete(r.tools, connectionID)
	for i, id := range r.order {
		if id == connectionID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Resolve returns the first-registered connection whose tool list contains
// toolName. When two connections expose the same name the earlier
// registration silently wins; this mirrors the resolution contract callers
// rely on and is documented as a limitation rather than an error.
func (r *ConnectionToolRegistry) Resolve(toolName string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, connectionID := range r.order {
		for _, tool := range r.tools[connectionID] {
			if tool.Name == toolName {
				return connectionID, true
			}
		}
	}
	return "", false
}

// AllTools returns every registered tool as a flat list, connection
// registration order preserved.
func (r *ConnectionToolRegistry) AllTools() []domain.ToolDescriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []domain.ToolDescriptor
	for _, connectionID := range r.order {
		all = append(all, r.tools[connectionID]...)
	}
	return all
}
