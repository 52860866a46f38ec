package credentials

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brojonat/compte/client"
)

func openMemory(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_TokenLifecycle(t *testing.T) {
	ctx := context.Background()
	store := openMemory(t)

	_, err := store.Token(ctx)
	assert.True(t, errors.Is(err, ErrNoToken))

	require.NoError(t, store.SetToken(ctx, "abc"))
	token, err := store.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	require.NoError(t, store.SetToken(ctx, "def"))
	token, err = store.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "def", token)

	require.NoError(t, store.Clear(ctx))
	_, err = store.Token(ctx)
	assert.True(t, errors.Is(err, client.ErrNoToken))

	// Clearing twice is fine.
	require.NoError(t, store.Clear(ctx))
}

func TestSQLiteStore_RejectsEmptyToken(t *testing.T) {
	store := openMemory(t)
	require.Error(t, store.SetToken(context.Background(), ""))
}

func TestSQLiteStore_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	store := openMemory(t)

	require.NoError(t, store.Set(ctx, "last_iban", "FR7612345"))
	require.NoError(t, store.SetToken(ctx, "abc"))
	require.NoError(t, store.Clear(ctx))

	value, ok, err := store.Get(ctx, "last_iban")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "FR7612345", value)

	_, ok, err = store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStore_PersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "storage.db")

	store, err := Open(path, nil)
	require.NoError(t, err)
	require.NoError(t, store.SetToken(ctx, "persisted"))
	require.NoError(t, store.Close())

	reopened, err := Open(path, nil)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, path, reopened.Path())
	token, err := reopened.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "persisted", token)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	var store Store = NewMemoryStore("")

	_, err := store.Token(ctx)
	assert.True(t, errors.Is(err, ErrNoToken))

	require.NoError(t, store.SetToken(ctx, "abc"))
	token, err := store.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	require.NoError(t, store.Clear(ctx))
	_, err = store.Token(ctx)
	assert.True(t, errors.Is(err, ErrNoToken))
	require.Error(t, store.SetToken(ctx, ""))
}

func TestStoresAreTokenSources(t *testing.T) {
	var _ client.TokenSource = (*SQLiteStore)(nil)
	var _ client.TokenSource = (*MemoryStore)(nil)
}
