package vlog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valet/config"
)

func newTestLogger(t *testing.T) *Logger {
	t.Helper()
	cfg := &config.Config{LogsPath: filepath.Join(t.TempDir(), "logs")}
	l, err := NewLogger(cfg)
	require.NoError(t, err)
	t.Cleanup(l.Close)
	return l
}

func TestNewLoggerCreatesAllFiles(t *testing.T) {
	l := newTestLogger(t)
	for _, name := range []string{
		"00_last_results.log", "01_compiled.log", "02_linked.log",
		"03_pruned.log", "04_failed.log", "05_debug.log",
	} {
		_, err := os.Stat(filepath.Join(l.cfg.LogsPath, name))
		assert.NoError(t, err, "expected %s to exist", name)
	}
}

func TestCompiledAppendsToResultsAndCompiledFiles(t *testing.T) {
	l := newTestLogger(t)
	l.Compiled("/src/main.cpp")

	results, err := os.ReadFile(filepath.Join(l.cfg.LogsPath, "00_last_results.log"))
	require.NoError(t, err)
	assert.Contains(t, string(results), "COMPILED: /src/main.cpp")

	compiled, err := os.ReadFile(filepath.Join(l.cfg.LogsPath, "01_compiled.log"))
	require.NoError(t, err)
	assert.Contains(t, string(compiled), "/src/main.cpp")
}

func TestFailedRecordsExitCode(t *testing.T) {
	l := newTestLogger(t)
	l.Failed("/build/app/main.cpp.o", 1)

	failed, err := os.ReadFile(filepath.Join(l.cfg.LogsPath, "04_failed.log"))
	require.NoError(t, err)
	assert.Contains(t, string(failed), "exit 1")
}

func TestDebugDoesNotPanicOnNoOpLogger(t *testing.T) {
	var logger LibraryLogger = NoOpLogger{}
	logger.Debug("nothing %d", 1)
	logger.Info("nothing %s", "here")
}
