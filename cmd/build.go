package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"valet/builddb"
	"valet/command"
	"valet/config"
	"valet/environment"
	"valet/executor"
	"valet/graph"
	"valet/plan"
	"valet/platform"
	"valet/resolver"
	"valet/stats"
	"valet/util"
	"valet/vlog"
)

var (
	flagRelease              bool
	flagClean                bool
	flagExportCompileCommands bool
	flagDryRun               bool
	flagStats                bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Resolve, plan, and build a project",
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().BoolVar(&flagRelease, "release", false, "build with optimizations instead of debug symbols")
	buildCmd.Flags().BoolVar(&flagClean, "clean", false, "remove the release/debug build folder before planning")
	buildCmd.Flags().BoolVar(&flagExportCompileCommands, "export-compile-commands", false, "write compile_commands.json")
	buildCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "plan the build but don't optimize or execute it")
	buildCmd.Flags().BoolVar(&flagStats, "stats", false, "print and persist build statistics")
}

// outputFolder returns <project>/build/<release|debug>, matching
// spec.md §6's on-disk layout.
func outputFolder(projectFolder string) string {
	variant := "debug"
	if flagRelease {
		variant = "release"
	}
	return filepath.Join(projectFolder, "build", variant)
}

// runBuild wires resolver -> plan -> (optimize) -> executor, following
// the teacher's cmd/build.go shape: load config+logger, open the
// build-history database, install a signal handler for cleanup, then
// run the pipeline and print a stats summary.
//
// Grounded on original_source's main.cxx build path and the teacher's
// cmd/build.go (config/logger setup, signal handling, buildDB open
// before the pipeline runs, stats printed at the end).
func runBuild(c *cobra.Command, args []string) error {
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
		fmt.Printf("Cleaning %s...\n", buildRoot)
		if err := util.RemoveAll(buildRoot); err != nil {
			return fmt.Errorf("clean: %w", err)
		}
	}

	dbPath := filepath.Join(buildRoot, ".valet-runs.db")
	if err := os.MkdirAll(buildRoot, 0755); err != nil {
		return err
	}
	runDB, err := builddb.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening run database: %w", err)
	}
	defer runDB.Close()

	run := builddb.NewRun(projectFolder)

	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		if _, ok := <-sigChan; ok {
			fmt.Fprintln(os.Stderr, "\nreceived signal, cancelling build...")
			cancel()
		}
	}()
	defer signal.Stop(sigChan)

	p, err := buildPlan(projectFolder, buildRoot, cfg, logger)
	if err != nil {
		return err
	}

	if flagExportCompileCommands {
		ccPath := filepath.Join(projectFolder, "compile_commands.json")
		if err := p.ExportCompileCommands(ccPath); err != nil {
			return fmt.Errorf("exporting compile_commands.json: %w", err)
		}
		fmt.Printf("Wrote %s\n", ccPath)
	}

	if flagDryRun {
		fmt.Printf("Dry run: %d compile commands, %d link commands\n", len(p.CompileCommands), len(p.LinkCommands))
		return nil
	}

	st := stats.New()
	plan.Optimize(p, st, logger)

	env, err := environment.New("host")
	if err != nil {
		return err
	}
	if err := env.Setup(0, cfg, logger); err != nil {
		return fmt.Errorf("environment setup: %w", err)
	}
	defer env.Cleanup()

	ex := executor.New(cfg.EffectiveWorkers(), env, logger)
	st, buildErr := ex.Execute(ctx, p, st)

	run.EndTime = time.Now()
	run.PackagesCompiled = st.PackagesCompiled
	run.PackagesLinked = st.PackagesLinked
	run.PackagesPruned = st.PackagesPruned
	run.CompilationTimeS = st.CompilationTimeS
	run.LinkTimeS = st.LinkTimeS
	run.TotalTimeS = st.TotalTimeS
	run.Success = st.Success
	if err := runDB.SaveRun(run); err != nil {
		logger.Warn("saving build run record: %v", err)
	}

	if flagStats {
		fmt.Print(st.String())
	}

	if buildErr != nil {
		return buildErr
	}
	return nil
}

// buildPlan resolves the project's dependency graph and synthesizes a
// build plan. A cycle surfaced by the graph's topological sort is
// logged via logger.Cycle before being wrapped and returned, matching
// the teacher's practice of logging the specific offending edge
// rather than just the generic resolution failure.
func buildPlan(projectFolder, buildRoot string, cfg *config.Config, logger *vlog.Logger) (*plan.Plan, error) {
	r := resolver.NewWithGaragePath(cfg.GaragePath)
	pkgGraph, err := r.Resolve(projectFolder)
	if err != nil {
		return nil, fmt.Errorf("resolving dependencies: %w", err)
	}

	opts := command.Options{
		Release:      flagRelease,
		OutputFolder: buildRoot,
		Family:       platform.Current(),
	}

	p, err := plan.Make(pkgGraph, opts)
	if err != nil {
		var cycleErr *graph.CycleError
		if errors.As(err, &cycleErr) {
			logger.Cycle(cycleErr.From, cycleErr.To)
		}
		return nil, fmt.Errorf("planning build: %w", err)
	}
	return p, nil
}
