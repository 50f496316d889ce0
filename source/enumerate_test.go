package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valet/manifest"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("//"), 0644))
}

func TestEnumerateFindsSourcesRecursively(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "src", "main.cpp"))
	touch(t, filepath.Join(dir, "src", "sub", "helper.cc"))
	touch(t, filepath.Join(dir, "src", "ignore.h"))

	pkg := manifest.Package{Folder: dir}
	files, err := Enumerate(pkg)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestEnumerateStopsAtNestedPackage(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "src", "main.cpp"))
	nestedDir := filepath.Join(dir, "src", "vendored")
	touch(t, filepath.Join(nestedDir, "src", "inner.cpp"))
	require.NoError(t, os.WriteFile(filepath.Join(nestedDir, "valet.toml"), []byte("[package]\n"), 0644))

	pkg := manifest.Package{Folder: dir}
	files, err := Enumerate(pkg)
	require.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Contains(t, files[0], "main.cpp")
}

func TestEnumerateAllRecognizedExtensions(t *testing.T) {
	dir := t.TempDir()
	for _, ext := range []string{".c", ".cc", ".cpp", ".cxx", ".c++"} {
		touch(t, filepath.Join(dir, "src", "f"+ext))
	}
	pkg := manifest.Package{Folder: dir}
	files, err := Enumerate(pkg)
	require.NoError(t, err)
	assert.Len(t, files, 5)
}
