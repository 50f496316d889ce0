// Package executor runs a Plan's compile and link commands: compiles
// are dispatched onto a worker pool and awaited to quiescence, then
// links run serially in the plan's topological order.
package executor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"valet/command"
	"valet/environment"
	"valet/plan"
	"valet/stats"
	"valet/verrors"
	"valet/vlog"
	"valet/workerpool"
)

// Executor owns the worker pool and process-execution backend used to
// run a Plan's commands.
//
// Grounded on original_source's BuildPlan::execute: enqueue every
// CompileCommand onto the thread pool, wait() for all of them, then
// run LinkCommands serially, with an atomic_bool success flag that is
// ANDed with each command's result rather than aborting on first
// failure — a broken package shouldn't prevent the rest of the build
// graph from being attempted. The Go version generalizes the
// hardcoded std::system() call into the swappable environment.Environment,
// following the teacher's build/build.go worker-loop shape.
type Executor struct {
	pool   *workerpool.Pool
	env    environment.Environment
	logger vlog.ResultLogger
}

// New returns an Executor with a worker pool of the given size.
func New(workers int, env environment.Environment, logger vlog.ResultLogger) *Executor {
	if logger == nil {
		logger = vlog.NoOpLogger{}
	}
	return &Executor{
		pool:   workerpool.New(workers),
		env:    env,
		logger: logger,
	}
}

// Execute runs p's compile commands concurrently, waits for them all,
// then runs the link commands serially in p's stored (topological)
// order. It never stops early on a command failure: every command in
// the plan is attempted, and the returned error (if any) joins every
// individual failure, so stats and logs reflect the whole run. st may
// be nil (a fresh BuildStats is used), or the same BuildStats already
// passed to plan.Optimize, so its pruned-command count carries
// through into the final totals.
func (e *Executor) Execute(ctx context.Context, p *plan.Plan, st *stats.BuildStats) (*stats.BuildStats, error) {
	if st == nil {
		st = stats.New()
	}
	start := time.Now()

	var mu sync.Mutex
	var errs []error
	markFailed := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		errs = append(errs, err)
	}

	total := len(p.CompileCommands)
	for i, cc := range p.CompileCommands {
		i, cc := i, cc
		e.pool.Enqueue(func() {
			e.runCompile(ctx, cc, i, total, st, markFailed)
		})
	}
	e.pool.Wait()

	for i, lc := range p.LinkCommands {
		e.runLink(ctx, lc, i, len(p.LinkCommands), st, markFailed)
	}

	st.TotalTimeS = time.Since(start).Seconds()
	st.Success = len(errs) == 0

	if len(errs) > 0 {
		return st, errors.Join(errs...)
	}
	return st, nil
}

func (e *Executor) runCompile(ctx context.Context, cc command.CompileCommand, idx, total int, st *stats.BuildStats, markFailed func(error)) {
	if err := os.MkdirAll(filepath.Dir(cc.ObjectFile), 0755); err != nil {
		markFailed(&verrors.IOError{Op: "mkdir", Path: filepath.Dir(cc.ObjectFile), Err: err})
		return
	}

	e.logger.Info("Compiling (%d/%d) %s", idx+1, total, cc.SourceFile)

	start := time.Now()
	result, err := e.env.Execute(ctx, &environment.ExecCommand{
		Command: "/bin/sh",
		Args:    []string{"-c", cc.String()},
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	})
	elapsed := time.Since(start)

	if err != nil {
		e.logger.Error("compile failed to run: %s: %v", cc.SourceFile, err)
		e.logger.Failed(cc.SourceFile, -1)
		markFailed(err)
		return
	}
	if result.ExitCode != 0 {
		e.logger.Error("compile failed: %s (exit %d)", cc.SourceFile, result.ExitCode)
		e.logger.Failed(cc.SourceFile, result.ExitCode)
		markFailed(&verrors.CommandFailure{PackageID: cc.Package.ID(), Command: cc.String(), ExitCode: result.ExitCode})
		return
	}

	st.RecordCompile(cc.SourceFile, elapsed)
	e.logger.Compiled(cc.SourceFile)
	e.logger.Debug("compiled %s in %s", cc.SourceFile, elapsed)
}

func (e *Executor) runLink(ctx context.Context, lc command.LinkCommand, idx, total int, st *stats.BuildStats, markFailed func(error)) {
	rendered, err := lc.String()
	if err != nil {
		e.logger.Error("cannot link %s: %v", lc.Package.ID(), err)
		markFailed(err)
		return
	}

	if err := os.MkdirAll(filepath.Dir(lc.BinaryPath), 0755); err != nil {
		markFailed(&verrors.IOError{Op: "mkdir", Path: filepath.Dir(lc.BinaryPath), Err: err})
		return
	}

	e.logger.Info("Linking (%d/%d) %s", idx+1, total, lc.BinaryPath)

	start := time.Now()
	result, err := e.env.Execute(ctx, &environment.ExecCommand{
		Command: "/bin/sh",
		Args:    []string{"-c", rendered},
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	})
	elapsed := time.Since(start)

	if err != nil {
		e.logger.Error("link failed to run: %s: %v", lc.BinaryPath, err)
		e.logger.Failed(lc.BinaryPath, -1)
		markFailed(err)
		return
	}
	if result.ExitCode != 0 {
		e.logger.Error("link failed: %s (exit %d)", lc.BinaryPath, result.ExitCode)
		e.logger.Failed(lc.BinaryPath, result.ExitCode)
		markFailed(&verrors.CommandFailure{PackageID: lc.Package.ID(), Command: rendered, ExitCode: result.ExitCode})
		return
	}

	st.RecordLink(lc.BinaryPath, elapsed)
	e.logger.Linked(lc.BinaryPath)
	e.logger.Debug("linked %s in %s", lc.BinaryPath, elapsed)
}
