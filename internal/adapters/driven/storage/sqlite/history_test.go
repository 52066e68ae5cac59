package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/core/ports/driven"
)

// setupTestStore creates a temporary history store for testing.
func setupTestStore(t *testing.T) *HistoryStore {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func TestHistoryStore_AppendAndRecent(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "s1", driven.Turn{Role: driven.RoleUser, Content: "question"}))
	require.NoError(t, store.Append(ctx, "s1", driven.Turn{Role: driven.RoleAssistant, Content: "answer"}))

	turns, err := store.Recent(ctx, "s1", 10)
	require.NoError(t, err)
	require.Len(t, turns, 2)

	// Oldest first.
	assert.Equal(t, driven.RoleUser, turns[0].Role)
	assert.Equal(t, "question", turns[0].Content)
	assert.Equal(t, driven.RoleAssistant, turns[1].Role)
	assert.Equal(t, "answer", turns[1].Content)
	assert.False(t, turns[0].CreatedAt.IsZero())
}

func TestHistoryStore_RecentLimit(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		require.NoError(t, store.Append(ctx, "s1", driven.Turn{
			Role:    driven.RoleUser,
			Content: fmt.Sprintf("turn %d", i),
		}))
	}

	turns, err := store.Recent(ctx, "s1", 10)
	require.NoError(t, err)
	require.Len(t, turns, 10)

	// The most recent 10 turns, still in chronological order.
	assert.Equal(t, "turn 5", turns[0].Content)
	assert.Equal(t, "turn 14", turns[9].Content)
}

func TestHistoryStore_SessionsIsolated(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "a", driven.Turn{Role: driven.RoleUser, Content: "from a"}))
	require.NoError(t, store.Append(ctx, "b", driven.Turn{Role: driven.RoleUser, Content: "from b"}))

	turns, err := store.Recent(ctx, "a", 10)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "from a", turns[0].Content)
}

func TestHistoryStore_EmptySession(t *testing.T) {
	store := setupTestStore(t)

	turns, err := store.Recent(context.Background(), "nobody", 10)
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestHistoryStore_NonPositiveLimit(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "s1", driven.Turn{Role: driven.RoleUser, Content: "x"}))

	turns, err := store.Recent(ctx, "s1", 0)
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestHistoryStore_ExplicitCreatedAtKept(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	at := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Append(ctx, "s1", driven.Turn{Role: driven.RoleUser, Content: "x", CreatedAt: at}))

	turns, err := store.Recent(ctx, "s1", 1)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.True(t, turns[0].CreatedAt.Equal(at), "got %v", turns[0].CreatedAt)
}

func TestHistoryStore_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "nested", "history.db")
	store, err := New(path)
	require.NoError(t, err)
	assert.NoError(t, store.Close())
}
