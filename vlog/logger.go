package vlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"valet/config"
)

// Logger is the CLI's LibraryLogger: it mirrors Info, Warn and Error
// messages to stdout (Debug goes only to the debug file), writes every
// message to the debug file, and appends build results into
// per-category files under
// cfg.LogsPath, mirroring the teacher's multi-file Logger but with
// valet's own result categories (compiled/linked/pruned/failed/cycle)
// in place of the port-build ones (success/failure/ignored/skipped).
type Logger struct {
	cfg          *config.Config
	resultsFile  *os.File
	compiledFile *os.File
	linkedFile   *os.File
	prunedFile   *os.File
	failedFile   *os.File
	debugFile    *os.File
	mu           sync.Mutex
}

// NewLogger creates the log directory and opens every category file.
func NewLogger(cfg *config.Config) (*Logger, error) {
	if err := os.MkdirAll(cfg.LogsPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	l := &Logger{cfg: cfg}

	var err error
	if l.resultsFile, err = os.Create(filepath.Join(cfg.LogsPath, "00_last_results.log")); err != nil {
		return nil, err
	}
	if l.compiledFile, err = os.Create(filepath.Join(cfg.LogsPath, "01_compiled.log")); err != nil {
		return nil, err
	}
	if l.linkedFile, err = os.Create(filepath.Join(cfg.LogsPath, "02_linked.log")); err != nil {
		return nil, err
	}
	if l.prunedFile, err = os.Create(filepath.Join(cfg.LogsPath, "03_pruned.log")); err != nil {
		return nil, err
	}
	if l.failedFile, err = os.Create(filepath.Join(cfg.LogsPath, "04_failed.log")); err != nil {
		return nil, err
	}
	if l.debugFile, err = os.Create(filepath.Join(cfg.LogsPath, "05_debug.log")); err != nil {
		return nil, err
	}

	l.writeHeaders()
	return l, nil
}

// Close closes every open log file.
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, f := range []*os.File{l.resultsFile, l.compiledFile, l.linkedFile, l.prunedFile, l.failedFile, l.debugFile} {
		if f != nil {
			f.Close()
		}
	}
}

func (l *Logger) writeHeaders() {
	timestamp := time.Now().Format(time.RFC3339)
	fmt.Fprintf(l.resultsFile, "valet build log - %s\n%s\n\n", timestamp, strings.Repeat("=", 70))
	fmt.Fprintf(l.compiledFile, "Compiled sources - %s\n\n", timestamp)
	fmt.Fprintf(l.linkedFile, "Linked binaries - %s\n\n", timestamp)
	fmt.Fprintf(l.prunedFile, "Pruned (already up to date) - %s\n\n", timestamp)
	fmt.Fprintf(l.failedFile, "Failed commands - %s\n\n", timestamp)
	fmt.Fprintf(l.debugFile, "Debug log - %s\n\n", timestamp)
}

// Compiled records a successful compile of sourceFile.
func (l *Logger) Compiled(sourceFile string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ts := time.Now().Format("15:04:05")
	fmt.Fprintf(l.resultsFile, "[%s] COMPILED: %s\n", ts, sourceFile)
	fmt.Fprintf(l.compiledFile, "%s\n", sourceFile)
	l.resultsFile.Sync()
	l.compiledFile.Sync()
}

// Linked records a successful link of binaryPath.
func (l *Logger) Linked(binaryPath string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ts := time.Now().Format("15:04:05")
	fmt.Fprintf(l.resultsFile, "[%s] LINKED: %s\n", ts, binaryPath)
	fmt.Fprintf(l.linkedFile, "%s\n", binaryPath)
	l.resultsFile.Sync()
	l.linkedFile.Sync()
}

// Pruned records a command skipped by incremental optimization.
func (l *Logger) Pruned(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ts := time.Now().Format("15:04:05")
	fmt.Fprintf(l.resultsFile, "[%s] PRUNED: %s\n", ts, path)
	fmt.Fprintf(l.prunedFile, "%s\n", path)
	l.resultsFile.Sync()
	l.prunedFile.Sync()
}

// Failed records a command failure, with its exit code.
func (l *Logger) Failed(path string, exitCode int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ts := time.Now().Format("15:04:05")
	msg := fmt.Sprintf("[%s] FAILED: %s (exit %d)\n", ts, path, exitCode)
	l.resultsFile.WriteString(msg)
	fmt.Fprintf(l.failedFile, "%s (exit %d)\n", path, exitCode)
	l.resultsFile.Sync()
	l.failedFile.Sync()
}

// Cycle records a dependency cycle that aborted build planning.
func (l *Logger) Cycle(from, to string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ts := time.Now().Format("15:04:05")
	msg := fmt.Sprintf("[%s] CYCLE: %s -> %s\n", ts, from, to)
	l.resultsFile.WriteString(msg)
	l.resultsFile.Sync()
}

// Info implements LibraryLogger by writing to the debug file and
// echoing to stdout.
func (l *Logger) Info(format string, args ...any) {
	l.write("INFO", format, args...)
	fmt.Printf("[INFO] "+format+"\n", args...)
}

// Debug implements LibraryLogger; it is written only to the debug
// file, never echoed to stdout.
func (l *Logger) Debug(format string, args ...any) {
	l.write("DEBUG", format, args...)
}

// Warn implements LibraryLogger.
func (l *Logger) Warn(format string, args ...any) {
	l.write("WARN", format, args...)
	fmt.Printf("[WARN] "+format+"\n", args...)
}

// Error implements LibraryLogger.
func (l *Logger) Error(format string, args ...any) {
	l.write("ERROR", format, args...)
	fmt.Printf("[ERROR] "+format+"\n", args...)
}

func (l *Logger) write(level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ts := time.Now().Format("15:04:05")
	fmt.Fprintf(l.debugFile, "[%s] %s: "+format+"\n", append([]any{ts, level}, args...)...)
	l.debugFile.Sync()
}
