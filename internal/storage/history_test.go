package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(filepath.Join(t.TempDir(), "scout.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Migrate(context.Background()))
}

func TestSaveAndListSearches(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveSearch(ctx, "un laptop ieftin", 5))
	require.NoError(t, store.SaveSearch(ctx, "telefon sub 1000 lei", 12))

	records, err := store.RecentSearches(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first.
	assert.Equal(t, "telefon sub 1000 lei", records[0].Prompt)
	assert.Equal(t, 12, records[0].ProductCount)
	assert.Equal(t, "un laptop ieftin", records[1].Prompt)
	assert.False(t, records[0].CreatedAt.IsZero())
}

func TestSaveSearchRejectsEmptyPrompt(t *testing.T) {
	store := newTestStore(t)
	assert.Error(t, store.SaveSearch(context.Background(), "", 0))
}

func TestSearchHistoryPrunedToLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < historyLimit+10; i++ {
		require.NoError(t, store.SaveSearch(ctx, fmt.Sprintf("cautare %d", i), i))
	}

	records, err := store.RecentSearches(ctx, historyLimit*2)
	require.NoError(t, err)
	assert.Len(t, records, historyLimit)

	// The oldest entries were pruned.
	assert.Equal(t, fmt.Sprintf("cautare %d", historyLimit+9), records[0].Prompt)
	assert.Equal(t, "cautare 10", records[len(records)-1].Prompt)
}

func TestRecentSearchesDefaultLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveSearch(ctx, "o cautare", 1))

	records, err := store.RecentSearches(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
