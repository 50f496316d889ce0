// Package cmd implements valet's command-line surface: build, run,
// and install, wired together with cobra the way the teacher's cmd/
// package wires its own subcommands onto a root command.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"valet/config"
	"valet/platform"
	"valet/vlog"
)

var (
	flagSource  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "valet",
	Short: "valet builds package-oriented C/C++ projects",
	Long: `valet resolves a project's manifest tree into a dependency graph,
synthesizes compile and link commands, prunes what's already up to
date, and runs the rest on a bounded worker pool.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagSource, "source", ".", "project root folder")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "print extra diagnostics")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(installCmd)
}

// Execute runs the root command; main.go's sole responsibility is to
// call this and translate its error into a process exit code.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfigAndLogger centralizes the config+logger setup every
// subcommand needs, matching the teacher's cmd/build.go pattern of
// config.GetConfig() + log.NewLogger(cfg) at the top of each Run func.
func loadConfigAndLogger() (*config.Config, *vlog.Logger, error) {
	cfg, err := config.LoadConfig("")
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger, err := vlog.NewLogger(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("opening logger: %w", err)
	}

	if flagVerbose {
		fmt.Fprintln(os.Stderr, platform.Info().String())
	}

	return cfg, logger, nil
}
