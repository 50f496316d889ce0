package environment

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"valet/config"
	"valet/vlog"
)

// HostEnvironment runs commands directly on the current machine via
// os/exec, replacing the teacher's BSD chroot/jail backend — valet
// has no need for filesystem isolation, since it only ever shells out
// to a compiler/linker/archiver against the project's own tree.
type HostEnvironment struct {
	workerID int
	basePath string
}

func init() {
	Register("host", func() Environment { return &HostEnvironment{} })
}

// Setup creates the worker's scratch directory, used only for
// logging/debugging; the host backend does not chroot into it.
func (h *HostEnvironment) Setup(workerID int, cfg *config.Config, logger vlog.LibraryLogger) error {
	h.workerID = workerID
	h.basePath = filepath.Join(os.TempDir(), "valet-worker")
	if err := os.MkdirAll(h.basePath, 0755); err != nil {
		return &ErrSetupFailed{Op: "mkdir", Err: err}
	}
	return nil
}

// Execute runs cmd as a direct child process.
func (h *HostEnvironment) Execute(ctx context.Context, cmd *ExecCommand) (*ExecResult, error) {
	runCtx := ctx
	var cancel context.CancelFunc
	if cmd.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, cmd.Timeout)
		defer cancel()
	}

	c := exec.CommandContext(runCtx, cmd.Command, cmd.Args...)
	c.Dir = cmd.WorkDir
	c.Stdout = cmd.Stdout
	c.Stderr = cmd.Stderr

	if len(cmd.Env) > 0 {
		c.Env = os.Environ()
		for k, v := range cmd.Env {
			c.Env = append(c.Env, k+"="+v)
		}
	}

	start := time.Now()
	err := c.Run()
	duration := time.Since(start)

	if err == nil {
		return &ExecResult{ExitCode: 0, Duration: duration}, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExecResult{ExitCode: exitErr.ExitCode(), Duration: duration, Error: err}, nil
	}

	return &ExecResult{ExitCode: -1, Duration: duration, Error: err},
		&ErrExecutionFailed{Op: "exec", Command: cmd.Command, Err: err}
}

// Cleanup removes the worker's scratch directory.
func (h *HostEnvironment) Cleanup() error {
	if h.basePath == "" {
		return nil
	}
	return os.RemoveAll(h.basePath)
}

// GetBasePath returns the worker's scratch directory.
func (h *HostEnvironment) GetBasePath() string {
	return h.basePath
}
