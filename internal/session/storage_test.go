package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

// exerciseStorage runs the Storage contract against a backend
func exerciseStorage(t *testing.T, storage Storage) {
	t.Helper()
	ctx := context.Background()

	_, err := storage.Get(ctx, KeyCredential)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, storage.Set(ctx, KeyCredential, "tok-1"))
	require.NoError(t, storage.Set(ctx, KeyIdentity, `{"id":1,"role":"USER"}`))

	got, err := storage.Get(ctx, KeyCredential)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", got)

	require.NoError(t, storage.Set(ctx, KeyCredential, "tok-2"))
	got, err = storage.Get(ctx, KeyCredential)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", got)

	require.NoError(t, storage.Delete(ctx, KeyCredential))
	_, err = storage.Get(ctx, KeyCredential)
	assert.ErrorIs(t, err, ErrNotFound)

	// Other entries are untouched
	got, err = storage.Get(ctx, KeyIdentity)
	require.NoError(t, err)
	assert.Equal(t, `{"id":1,"role":"USER"}`, got)

	// Deleting a missing key is a no-op
	require.NoError(t, storage.Delete(ctx, KeyCredential))
	require.NoError(t, storage.Delete(ctx, KeyIdentity))
}

func TestMemoryStorage(t *testing.T) {
	exerciseStorage(t, NewMemoryStorage())
}

func TestMemoryStorage_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemoryStorage().Get(ctx, KeyCredential)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	storage, err := NewFileStorage(path)
	require.NoError(t, err)

	exerciseStorage(t, storage)

	// The file is removed once the last entry is deleted
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileStorage_Permissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	storage, err := NewFileStorage(path)
	require.NoError(t, err)

	require.NoError(t, storage.Set(context.Background(), KeyCredential, "tok-1"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStorage_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{oops"), 0600))

	storage, err := NewFileStorage(path)
	require.NoError(t, err)

	_, err = storage.Get(context.Background(), KeyCredential)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	// A store over a corrupt file starts signed out without failing
	store := NewStore(storage, zerolog.Nop())
	store.Initialize(context.Background())
	assert.False(t, store.State().Authenticated())
	assert.False(t, store.State().Loading)
}

func TestSQLiteStorage(t *testing.T) {
	storage, err := OpenSQLiteStorage(filepath.Join(t.TempDir(), "session.sqlite"), zerolog.Nop())
	require.NoError(t, err)
	defer storage.Close()

	exerciseStorage(t, storage)
}

func TestSQLiteStorage_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.sqlite")

	first, err := OpenSQLiteStorage(path, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, first.Set(context.Background(), KeyCredential, "tok-1"))
	require.NoError(t, first.Close())

	second, err := OpenSQLiteStorage(path, zerolog.Nop())
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Get(context.Background(), KeyCredential)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", got)
}

func TestKeyringStorage(t *testing.T) {
	keyring.MockInit()

	exerciseStorage(t, NewKeyringStorage("localhost:8080"))
}

func TestKeyringStorage_ScopesDoNotCollide(t *testing.T) {
	keyring.MockInit()
	ctx := context.Background()

	a := NewKeyringStorage("a.example.com")
	b := NewKeyringStorage("b.example.com")

	require.NoError(t, a.Set(ctx, KeyCredential, "tok-a"))

	_, err := b.Get(ctx, KeyCredential)
	assert.ErrorIs(t, err, ErrNotFound)
}
