package install

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinaryCopiesAndMakesExecutable(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "app")
	require.NoError(t, os.WriteFile(src, []byte("binary-contents"), 0644))

	installDir := filepath.Join(root, "bin")
	dest, err := Binary(src, installDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(installDir, "app"), dest)

	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0111, "installed binary should be executable")

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "binary-contents", string(data))
}

func TestBinaryOverwritesExisting(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "app")
	require.NoError(t, os.WriteFile(src, []byte("v2"), 0644))

	installDir := filepath.Join(root, "bin")
	require.NoError(t, os.MkdirAll(installDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(installDir, "app"), []byte("v1"), 0644))

	dest, err := Binary(src, installDir)
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
}

func TestDefaultPathEndsInValetBin(t *testing.T) {
	assert.Contains(t, DefaultPath(), filepath.Join(".valet", "bin"))
}
