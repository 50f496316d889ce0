package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valet/config"
	"valet/vlog"
)

func TestOutputFolderDefaultsToDebug(t *testing.T) {
	flagRelease = false
	assert.Equal(t, filepath.Join("/proj", "build", "debug"), outputFolder("/proj"))
}

func TestOutputFolderUsesReleaseWhenFlagSet(t *testing.T) {
	flagRelease = true
	defer func() { flagRelease = false }()
	assert.Equal(t, filepath.Join("/proj", "build", "release"), outputFolder("/proj"))
}

func writeManifest(t *testing.T, dir, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "valet.toml"), []byte(body), 0644))
}

// TestBuildPlanLogsCycle exercises the graph-cycle path end to end:
// two packages that depend on each other should surface a
// *graph.CycleError out of plan.Make, logged via logger.Cycle before
// buildPlan wraps and returns it.
func TestBuildPlanLogsCycle(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a")
	b := filepath.Join(root, "b")
	writeManifest(t, a, `
[package]
name = "a"
version = "0.1"
type = "lib"

[dependencies]
b = { path = "../b" }
`)
	writeManifest(t, b, `
[package]
name = "b"
version = "0.1"
type = "lib"

[dependencies]
a = { path = "../a" }
`)

	cfg := &config.Config{LogsPath: filepath.Join(root, "logs")}
	logger, err := vlog.NewLogger(cfg)
	require.NoError(t, err)
	defer logger.Close()

	_, err = buildPlan(a, filepath.Join(root, "build", "debug"), cfg, logger)
	assert.Error(t, err)
}
