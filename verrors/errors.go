// Package verrors defines valet's error taxonomy: sentinel errors
// checkable with errors.Is, and wrapping struct types carrying the
// detail callers need, checkable with errors.As.
package verrors

import "fmt"

// Sentinel errors, one per spec-level error kind, checked with
// errors.Is against the Unwrap() result of the corresponding struct
// type below (IOError and FetchError match theirs through an Is
// method, since their Unwrap returns the underlying cause).
var (
	ErrManifest              = fmt.Errorf("manifest error")
	ErrCycle                 = fmt.Errorf("package graph contains a cycle")
	ErrUnresolvableDependency = fmt.Errorf("dependency could not be resolved")
	ErrMissingSourceFolder   = fmt.Errorf("package is missing its src folder")
	ErrUnsupportedLinkage    = fmt.Errorf("unsupported linkage")
	ErrCommandFailure        = fmt.Errorf("command exited with nonzero status")
	ErrIO                    = fmt.Errorf("io error")
	ErrFetch                 = fmt.Errorf("remote fetch failed")
)

// ManifestError reports a malformed or invalid valet.toml: a missing
// required field, an invalid type token, or an includes directory
// that doesn't exist.
type ManifestError struct {
	Path   string
	Detail string
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("manifest error in %s: %s", e.Path, e.Detail)
}

func (e *ManifestError) Unwrap() error { return ErrManifest }

// CycleError reports that the package dependency graph is not
// acyclic, naming one offending edge.
type CycleError struct {
	From string
	To   string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected in package graph: %s -> %s", e.From, e.To)
}

func (e *CycleError) Unwrap() error { return ErrCycle }

// UnresolvableDependency reports that a dependant package's
// dependency spec could not be resolved to a package: the local path
// doesn't exist, or the git fetch failed.
type UnresolvableDependency struct {
	DependantID string
	Spec        string
	Err         error
}

func (e *UnresolvableDependency) Error() string {
	return fmt.Sprintf("unresolvable dependency of %s: %s: %v", e.DependantID, e.Spec, e.Err)
}

func (e *UnresolvableDependency) Unwrap() error { return ErrUnresolvableDependency }

// MissingSourceFolder reports that a non-HeaderOnly package's folder
// lacks a src/ subdirectory.
type MissingSourceFolder struct {
	PackageID string
	Folder    string
}

func (e *MissingSourceFolder) Error() string {
	return fmt.Sprintf("package %s is missing %s/src", e.PackageID, e.Folder)
}

func (e *MissingSourceFolder) Unwrap() error { return ErrMissingSourceFolder }

// UnsupportedLinkage reports an attempt to link against a
// SharedLibrary dependency, which valet does not support.
type UnsupportedLinkage struct {
	PackageID    string
	DependencyID string
}

func (e *UnsupportedLinkage) Error() string {
	return fmt.Sprintf("package %s cannot link against shared library dependency %s: linking against a shared library is not supported", e.PackageID, e.DependencyID)
}

func (e *UnsupportedLinkage) Unwrap() error { return ErrUnsupportedLinkage }

// CommandFailure reports that a compiler or linker invocation exited
// with a nonzero status. It does not halt the build: all other queued
// compiles still run, and link commands still execute in order, but
// the overall build result is failure.
type CommandFailure struct {
	PackageID string
	Command   string
	ExitCode  int
}

func (e *CommandFailure) Error() string {
	return fmt.Sprintf("command for package %s exited %d: %s", e.PackageID, e.ExitCode, e.Command)
}

func (e *CommandFailure) Unwrap() error { return ErrCommandFailure }

// IOError reports a filesystem operation that failed (creating an
// output folder, enumerating a package's sources). The operation is
// not retried: the executor marks the affected command failed, and
// plan.Make returns the error. An unreadable mtime during pruning does
// not produce an IOError; plan.Optimize keeps that compile command.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io error during %s on %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Is reports whether target is ErrIO, so callers can check
// errors.Is(err, ErrIO) without losing the wrapped cause from Unwrap.
func (e *IOError) Is(target error) bool { return target == ErrIO }

// FetchError reports a git clone/fetch/checkout failure.
type FetchError struct {
	RemoteURL string
	Stage     string // "cache-dir", "clone", "fetch", "checkout", or "fixture-lookup"
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch error for %s at stage %s: %v", e.RemoteURL, e.Stage, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is reports whether target is ErrFetch.
func (e *FetchError) Is(target error) bool { return target == ErrFetch }
