package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"valet/environment"
	"valet/executor"
	"valet/plan"
	"valet/platform"
	"valet/stats"
	"valet/util"
)

var flagTargets []string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build a project, then run one or more of its executables",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringArrayVar(&flagTargets, "target", nil, "executable target to run (repeatable); default: all Application packages")
	runCmd.Flags().BoolVar(&flagRelease, "release", false, "build with optimizations instead of debug symbols")
	runCmd.Flags().BoolVar(&flagClean, "clean", false, "remove the release/debug build folder before planning")
}

// runRun implements original_source's --run: build the project, then
// execute one or more Application targets, forwarding any args given
// after `--` to each invocation.
//
// Grounded on original_source's build.hxx RunParams/run() and
// BuildPlan::get_executable_target_by_name.
func runRun(c *cobra.Command, args []string) error {
	forwarded := extraArgs(c, args)

	projectFolder, err := filepath.Abs(flagSource)
	if err != nil {
		return err
	}

	cfg, logger, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	defer logger.Close()

	buildRoot := outputFolder(projectFolder)

	if flagClean {
		if err := util.RemoveAll(buildRoot); err != nil {
			return fmt.Errorf("clean: %w", err)
		}
	}

	p, err := buildPlan(projectFolder, buildRoot, cfg, logger)
	if err != nil {
		return err
	}

	env, err := environment.New("host")
	if err != nil {
		return err
	}
	if err := env.Setup(0, cfg, logger); err != nil {
		return fmt.Errorf("environment setup: %w", err)
	}
	defer env.Cleanup()

	ctx := context.Background()

	st := stats.New()
	plan.Optimize(p, st, logger)
	ex := executor.New(cfg.EffectiveWorkers(), env, logger)
	if _, err := ex.Execute(ctx, p, st); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	targets := flagTargets
	if len(targets) == 0 {
		for name := range p.ExecutableTargets {
			targets = append(targets, name)
		}
	}
	if len(targets) == 0 {
		return fmt.Errorf("no Application targets in this project")
	}

	ext := platform.Current().ExecutableExt()
	for _, name := range targets {
		pkg, ok := p.ExecutableTarget(name)
		if !ok {
			return fmt.Errorf("no such executable target: %s", name)
		}
		binaryPath := filepath.Join(buildRoot, pkg.ID(), pkg.Name) + ext

		result, err := env.Execute(ctx, &environment.ExecCommand{
			Command: binaryPath,
			Args:    forwarded,
			WorkDir: projectFolder,
			Stdout:  os.Stdout,
			Stderr:  os.Stderr,
		})
		if err != nil {
			return fmt.Errorf("running %s: %w", name, err)
		}
		if result.ExitCode != 0 {
			return fmt.Errorf("%s exited with status %d", name, result.ExitCode)
		}
	}

	return nil
}

// extraArgs returns the args following `--` on the command line, the
// ones cobra leaves untouched for forwarding to the executed target.
func extraArgs(c *cobra.Command, args []string) []string {
	dash := c.ArgsLenAtDash()
	if dash < 0 {
		return nil
	}
	return args[dash:]
}
