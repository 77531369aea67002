package sessionstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/edutrack/core/portal"
)

func testStore(t *testing.T, store portal.Store) {
	_, err := store.Get(portal.KeyToken)
	assert.Equal(t, portal.ErrKeyNotFound, err)

	require.NoError(t, store.Set(portal.KeyToken, "abc"))
	require.NoError(t, store.Set(portal.KeyUser, `{"id":1}`))
	v, err := store.Get(portal.KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "abc", v)

	require.NoError(t, store.Remove(portal.KeyToken))
	require.NoError(t, store.Remove(portal.KeyToken), "removing a missing key")
	_, err = store.Get(portal.KeyToken)
	assert.Equal(t, portal.ErrKeyNotFound, err)

	v, err = store.Get(portal.KeyUser)
	require.NoError(t, err)
	assert.Equal(t, `{"id":1}`, v)
}

func TestMemStore(t *testing.T) {
	testStore(t, NewMemStore())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)
	testStore(t, store)

	// persisted across instances
	other, err := NewFileStore(path)
	require.NoError(t, err)
	v, err := other.Get(portal.KeyUser)
	require.NoError(t, err)
	assert.Equal(t, `{"id":1}`, v)

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), fi.Mode().Perm())

	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0600))
	_, err = other.Get(portal.KeyUser)
	assert.Error(t, err)
}
