// Package vlog provides a minimal logging interface for valet's
// library packages, so they can report progress without depending on
// a specific log file layout or terminal.
package vlog

import "fmt"

// LibraryLogger is implemented by anything that can receive valet's
// progress and diagnostic messages: the CLI's multi-file Logger, a
// plain stdout logger for quick debugging, or NoOpLogger in tests.
type LibraryLogger interface {
	// Info logs informational progress (e.g. "Resolving dependencies...").
	Info(format string, args ...any)

	// Debug logs diagnostic detail; the CLI's Logger writes it only to
	// its debug file, never to stdout.
	Debug(format string, args ...any)

	// Warn logs a non-fatal issue.
	Warn(format string, args ...any)

	// Error logs a failure; execution may still continue.
	Error(format string, args ...any)
}

// ResultLogger is LibraryLogger plus the per-category build-result
// methods the CLI's multi-file Logger records: one compiled/linked/
// pruned/failed file alongside the rolling debug log. Executor and
// plan.Optimize depend on this wider interface so a real build's
// outcomes land in those files, not just its progress messages.
type ResultLogger interface {
	LibraryLogger

	// Compiled records a successful compile of sourceFile.
	Compiled(sourceFile string)

	// Linked records a successful link of binaryPath.
	Linked(binaryPath string)

	// Pruned records a command skipped by incremental optimization.
	Pruned(path string)

	// Failed records a command failure, with its exit code.
	Failed(path string, exitCode int)
}

// NoOpLogger discards everything. Used by library callers and tests
// that don't care about progress output.
type NoOpLogger struct{}

func (NoOpLogger) Info(format string, args ...any)  {}
func (NoOpLogger) Debug(format string, args ...any) {}
func (NoOpLogger) Warn(format string, args ...any)  {}
func (NoOpLogger) Error(format string, args ...any) {}
func (NoOpLogger) Compiled(sourceFile string)       {}
func (NoOpLogger) Linked(binaryPath string)         {}
func (NoOpLogger) Pruned(path string)               {}
func (NoOpLogger) Failed(path string, exitCode int) {}

// StdoutLogger prints every message to stdout with a severity prefix.
type StdoutLogger struct{}

func (StdoutLogger) Info(format string, args ...any) {
	fmt.Printf("[INFO] "+format+"\n", args...)
}

func (StdoutLogger) Debug(format string, args ...any) {
	fmt.Printf("[DEBUG] "+format+"\n", args...)
}

func (StdoutLogger) Warn(format string, args ...any) {
	fmt.Printf("[WARN] "+format+"\n", args...)
}

func (StdoutLogger) Error(format string, args ...any) {
	fmt.Printf("[ERROR] "+format+"\n", args...)
}

func (StdoutLogger) Compiled(sourceFile string) {
	fmt.Printf("[COMPILED] %s\n", sourceFile)
}

func (StdoutLogger) Linked(binaryPath string) {
	fmt.Printf("[LINKED] %s\n", binaryPath)
}

func (StdoutLogger) Pruned(path string) {
	fmt.Printf("[PRUNED] %s\n", path)
}

func (StdoutLogger) Failed(path string, exitCode int) {
	fmt.Printf("[FAILED] %s (exit %d)\n", path, exitCode)
}
