package storage

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestSaveAndPath(t *testing.T) {
	store := newTestStore(t)

	name, err := store.Save(strings.NewReader("payload"), "exploit.tar.gz")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".gz"))
	assert.NotContains(t, name, "exploit")

	path, err := store.Path(name)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestSave_GeneratesDistinctNames(t *testing.T) {
	store := newTestStore(t)

	first, err := store.Save(strings.NewReader("a"), "same.txt")
	require.NoError(t, err)
	second, err := store.Save(strings.NewReader("b"), "same.txt")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestSave_SanitizesExtension(t *testing.T) {
	store := newTestStore(t)

	name, err := store.Save(strings.NewReader("x"), "evil.sh;rm -rf")
	require.NoError(t, err)
	assert.NotContains(t, name, ";")
	assert.NotContains(t, name, " ")

	// No usable extension at all.
	name, err = store.Save(strings.NewReader("x"), "noext")
	require.NoError(t, err)
	assert.NotContains(t, name, ".", "bare UUID expected for extensionless uploads")
}

func TestPath_RejectsTraversal(t *testing.T) {
	store := newTestStore(t)

	for _, name := range []string{"", "../etc/passwd", "a/../../b", "dir/file.txt"} {
		_, err := store.Path(name)
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)

	name, err := store.Save(strings.NewReader("payload"), "file.bin")
	require.NoError(t, err)

	require.NoError(t, store.Delete(name))

	path, err := store.Path(name)
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Deleting again is a no-op.
	assert.NoError(t, store.Delete(name))
}
