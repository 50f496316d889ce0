package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFilePreservesContents(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0644))

	require.NoError(t, CopyFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestRemoveAllDeletesTree(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	require.NoError(t, RemoveAll(filepath.Join(dir, "a")))

	_, err := os.Stat(nested)
	assert.True(t, os.IsNotExist(err))
}

func TestRemoveAllOnMissingPathSucceeds(t *testing.T) {
	assert.NoError(t, RemoveAll(filepath.Join(t.TempDir(), "does-not-exist")))
}
