package memory

import (
	"context"
	"testing"
	"time"

	"github.com/cleitonmarx/symbiont-mcp-chat/internal/domain"
	"github.com/cleitonmarx/symbiont-mcp-chat/internal/tools"
	"github.com/cleitonmarx/symbiont/depend"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore(t *testing.T) {
	store := NewSessionStore()
	session := domain.NewSession(uuid.New(), time.Now(), tools.NewConnectionToolRegistry())

	_, found := store.Get(session.ID)
	assert.False(t, found)

	store.Add(session)

	got, found := store.Get(session.ID)
	require.True(t, found)
	assert.Same(t, session, got)

	removed, found := store.Remove(session.ID)
	require.True(t, found)
	assert.Same(t, session, removed)

	_, found = store.Get(session.ID)
	assert.False(t, found)
	_, found = store.Remove(session.ID)
	assert.False(t, found)
}

func TestInitSessionStore_Initialize(t *testing.T) {
	i := InitSessionStore{}

	_, err := i.Initialize(context.Background())
	assert.NoError(t, err)

	r, err := depend.Resolve[domain.SessionRepository]()
	assert.NotNil(t, r)
	assert.NoError(t, err)
}
