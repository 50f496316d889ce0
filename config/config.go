// Package config loads valet's user-level configuration: worker
// count, log directory, and the git dependency cache location.
//
// Unlike the teacher's hand-rolled INI scanner, config here is parsed
// with gopkg.in/ini.v1, since nothing about valet.ini's format
// justifies a bespoke parser.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"

	"valet/platform"
)

// Config holds valet's user-level settings, loaded once per CLI
// invocation and threaded through the build.
type Config struct {
	// MaxWorkers bounds the compile worker pool. Zero means "derive
	// from CPU count" (see platform.DefaultWorkers).
	MaxWorkers int

	// LogsPath is the directory vlog.Logger writes its per-category
	// log files into.
	LogsPath string

	// GaragePath overrides the git dependency cache root
	// (default ~/.valet/garage, see resolver.garageRoot).
	GaragePath string

	// Debug turns on verbose/debug-level logging.
	Debug bool
}

// DefaultConfigPath is where LoadConfig looks when no path is given
// explicitly: ~/.config/valet/valet.ini.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "valet", "valet.ini")
}

// LoadConfig reads configPath (or DefaultConfigPath() if empty) and
// returns a Config with defaults applied for anything unset. A
// missing config file is not an error: defaults are returned as-is,
// matching the teacher's "file is optional" posture.
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{
		MaxWorkers: 0,
		LogsPath:   defaultLogsPath(),
	}

	if configPath == "" {
		configPath = DefaultConfigPath()
	}
	if configPath == "" {
		return cfg, nil
	}

	if _, err := os.Stat(configPath); err != nil {
		return cfg, nil
	}

	file, err := ini.Load(configPath)
	if err != nil {
		return nil, err
	}

	section := file.Section("")
	if k := section.Key("max_workers"); k.String() != "" {
		cfg.MaxWorkers = k.MustInt(0)
	}
	if k := section.Key("logs_path"); k.String() != "" {
		cfg.LogsPath = k.String()
	}
	if k := section.Key("garage_path"); k.String() != "" {
		cfg.GaragePath = k.String()
	}
	cfg.Debug = section.Key("debug").MustBool(false)

	return cfg, nil
}

func defaultLogsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "valet", "logs")
	}
	return filepath.Join(home, ".valet", "logs")
}

// Validate checks for internally inconsistent settings.
func (c *Config) Validate() error {
	if c.MaxWorkers < 0 {
		return &InvalidConfigError{Field: "max_workers", Reason: "must be >= 0"}
	}
	return nil
}

// EffectiveWorkers returns MaxWorkers if set, else platform's
// CPU-derived default.
func (c *Config) EffectiveWorkers() int {
	if c.MaxWorkers > 0 {
		return c.MaxWorkers
	}
	return platform.DefaultWorkers()
}

// InvalidConfigError reports a malformed configuration value.
type InvalidConfigError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return "invalid config: " + e.Field + ": " + e.Reason
}
