package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docdash/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docdash/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })

	return store
}

func TestNewStore_ErrorHandling(t *testing.T) {
	_, err := NewStore("/invalid\x00path")
	assert.Error(t, err)
}

func TestNewStore_Success(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(tempDir, dbName), store.Path())
	assert.FileExists(t, store.Path())
}

func TestNewStore_DefaultDirectory(t *testing.T) {
	home := t.TempDir()
	t.Setenv(file.HomeEnv, home)

	store, err := NewStore("")
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(home, "data", dbName), store.Path())
}

func TestNewStore_DirectoryCreation(t *testing.T) {
	nestedDir := filepath.Join(t.TempDir(), "a", "b", "c")

	store, err := NewStore(nestedDir)
	require.NoError(t, err)
	defer store.Close()

	info, err := os.Stat(nestedDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewStore_Migrations(t *testing.T) {
	store := setupTestStore(t)

	var version int
	err := store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	var tableExists int
	err = store.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", "search_history",
	).Scan(&tableExists)
	require.NoError(t, err)
	assert.Equal(t, 1, tableExists)
}

func TestNewStore_ReopenSkipsAppliedMigrations(t *testing.T) {
	dir := t.TempDir()

	first, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.HistoryStore().Save(context.Background(), []string{"kept"}))
	require.NoError(t, first.Close())

	second, err := NewStore(dir)
	require.NoError(t, err)
	defer second.Close()

	var count int
	require.NoError(t, second.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)

	got, err := second.HistoryStore().Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"kept"}, got)
}

func TestHistoryStore_LoadEmpty(t *testing.T) {
	store := setupTestStore(t)

	got, err := store.HistoryStore().Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHistoryStore_SaveReplacesAndKeepsOrder(t *testing.T) {
	ctx := context.Background()
	history := setupTestStore(t).HistoryStore()

	require.NoError(t, history.Save(ctx, []string{"a", "b", "c"}))
	require.NoError(t, history.Save(ctx, []string{"c", "a"}))

	got, err := history.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, got)
}

func TestHistoryStore_Clear(t *testing.T) {
	ctx := context.Background()
	history := setupTestStore(t).HistoryStore()

	require.NoError(t, history.Save(ctx, []string{"a"}))
	require.NoError(t, history.Clear(ctx))

	got, err := history.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHistoryStore_ClosedDatabase(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	history := store.HistoryStore()
	require.NoError(t, store.Close())

	ctx := context.Background()
	_, err = history.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrHistoryUnavailable)
	assert.ErrorIs(t, history.Save(ctx, []string{"a"}), domain.ErrHistoryUnavailable)
	assert.ErrorIs(t, history.Clear(ctx), domain.ErrHistoryUnavailable)
}
