package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/assert"
)

func writeManifest(t *testing.T, dir, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestFileName), []byte(body), 0644))
}

func TestParseMinimalBin(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[package]
name = "hello"
version = "0.1"
std = "c++20"
type = "bin"
`)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0755))

	pkg, err := Parse(dir)
	require.NoError(t, err)
	assert.Equal(t, "hello=0.1", pkg.ID())
	assert.Equal(t, Application, pkg.Type)
	assert.Equal(t, "c++20", pkg.LanguageStd)
}

func TestParseMissingNameFails(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[package]
version = "0.1"
type = "bin"
`)
	_, err := Parse(dir)
	require.Error(t, err)
}

func TestParseInvalidTypeFails(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[package]
name = "hello"
version = "0.1"
type = "nonsense"
`)
	_, err := Parse(dir)
	require.Error(t, err)
}

func TestParseNonexistentIncludeFails(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[package]
name = "hello"
version = "0.1"
type = "bin"
includes = ["missing"]
`)
	_, err := Parse(dir)
	require.Error(t, err)
}

func TestParseLocalDependency(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[package]
name = "app"
version = "0.1"
type = "bin"

[dependencies]
core = { path = "../core" }
`)
	pkg, err := Parse(dir)
	require.NoError(t, err)
	require.Len(t, pkg.Dependencies, 1)
	assert.Equal(t, Local, pkg.Dependencies[0].Kind)
	assert.Equal(t, "../core", pkg.Dependencies[0].Path)
}

func TestParseDependenciesAreSortedByName(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[package]
name = "app"
version = "0.1"
type = "bin"

[dependencies]
zeta = { path = "../zeta" }
alpha = { path = "../alpha" }
mid = { path = "../mid" }
`)
	pkg, err := Parse(dir)
	require.NoError(t, err)
	require.Len(t, pkg.Dependencies, 3)
	assert.Equal(t, "../alpha", pkg.Dependencies[0].Path)
	assert.Equal(t, "../mid", pkg.Dependencies[1].Path)
	assert.Equal(t, "../zeta", pkg.Dependencies[2].Path)
}

func TestParseGitDependencyRequiresRevOrTag(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[package]
name = "app"
version = "0.1"
type = "bin"

[dependencies]
extlib = { git = "https://example/repo" }
`)
	_, err := Parse(dir)
	require.Error(t, err)
}

func TestParseGitDependencyWithRev(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[package]
name = "app"
version = "0.1"
type = "bin"

[dependencies]
extlib = { git = "https://example/repo", rev = "abc123" }
`)
	pkg, err := Parse(dir)
	require.NoError(t, err)
	require.Len(t, pkg.Dependencies, 1)
	assert.Equal(t, Git, pkg.Dependencies[0].Kind)
	assert.Equal(t, "abc123", pkg.Dependencies[0].Revision)
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, Exists(dir))
	writeManifest(t, dir, `[package]
name="a"
version="1"
type="bin"
`)
	assert.True(t, Exists(dir))
}
