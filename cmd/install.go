package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"valet/environment"
	"valet/executor"
	"valet/install"
	"valet/plan"
	"valet/platform"
	"valet/stats"
	"valet/util"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Build a release binary and install it",
	RunE:  runInstall,
}

// runInstall implements original_source's install_local_package: a
// release, clean build of the project's Application targets, followed
// by copying each resulting executable into ~/.valet/bin, overwriting
// any existing file of the same name.
//
// Grounded on original_source/src/core/src/install.cxx and the
// teacher's util.CopyFile (cp -p) used unchanged by install.Binary.
func runInstall(c *cobra.Command, args []string) error {
	projectFolder, err := filepath.Abs(flagSource)
	if err != nil {
		return err
	}

	cfg, logger, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	defer logger.Close()

	flagRelease = true
	buildRoot := outputFolder(projectFolder)

	if err := util.RemoveAll(buildRoot); err != nil {
		return fmt.Errorf("clean: %w", err)
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

	st := stats.New()
	plan.Optimize(p, st, logger)
	ex := executor.New(cfg.EffectiveWorkers(), env, logger)
	if _, err := ex.Execute(context.Background(), p, st); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	if len(p.ExecutableTargets) == 0 {
		return fmt.Errorf("no Application targets in this project to install")
	}

	installDir := install.DefaultPath()
	ext := platform.Current().ExecutableExt()

	for name, pkg := range p.ExecutableTargets {
		built := filepath.Join(buildRoot, pkg.ID(), pkg.Name) + ext
		dest, err := install.Binary(built, installDir)
		if err != nil {
			return fmt.Errorf("installing %s: %w", name, err)
		}
		fmt.Printf("Installed %s\n", dest)
	}

	return nil
}
