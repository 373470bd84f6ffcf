package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"newsflow-backend/internal/storage"
)

func TestDiskStore_RoundTrip(t *testing.T) {
	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	key := "projects/abc/20240101_120000_draft.docx"
	data := []byte("article body")
	require.NoError(t, store.Put(key, data, "application/octet-stream"))

	got, err := store.Get(key)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	require.NoError(t, store.Delete(key))
	_, err = store.Get(key)
	assert.Error(t, err)
}

func TestDiskStore_OverwritesKey(t *testing.T) {
	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	key := "projects/abc/file.txt"
	require.NoError(t, store.Put(key, []byte("one"), "text/plain"))
	require.NoError(t, store.Put(key, []byte("two"), "text/plain"))

	got, err := store.Get(key)
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), got)
}

func TestDiskStore_RejectsTraversal(t *testing.T) {
	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"../escape", "projects/../../escape", ".."} {
		assert.Error(t, store.Put(key, []byte("x"), "text/plain"), "key %q", key)
		_, err := store.Get(key)
		assert.Error(t, err, "key %q", key)
	}
}
