// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and environment variables over those defaults.
// - Validation failures wrap ErrInvalidConfig; provider failures wrap ErrLoadConfig.
package config

import (
	"fmt"
	"strings"
)

// Service modes.
const (
	ModeLive     = "live"
	ModeSnapshot = "snapshot"
)

// DefaultEvalsRoot is where the benchmark tree lives relative to the working
// directory in a sibling checkout.
const DefaultEvalsRoot = "../inspect_evals/src/inspect_evals"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":3001".
	Addr string `koanf:"addr"`

	// Mode is live (rescan per request) or snapshot (serve a generated file).
	Mode string `koanf:"mode"`

	// EvalsRoot is the directory whose children are benchmark directories.
	EvalsRoot string `koanf:"evals_root"`

	// SnapshotPath is the generated snapshot file. Required in snapshot mode;
	// in live mode it is served at /evals.json when it exists.
	SnapshotPath string `koanf:"snapshot_path"`

	// ManifestName and NotesName are the per-benchmark file names.
	ManifestName string `koanf:"manifest_name"`
	NotesName    string `koanf:"notes_name"`

	// ReservedPrefix and ReservedDirs name directories that are never benchmarks.
	ReservedPrefix string   `koanf:"reserved_prefix"`
	ReservedDirs   []string `koanf:"reserved_dirs"`

	// ScanConcurrency bounds concurrent directory reads; 0 uses one per CPU.
	ScanConcurrency int `koanf:"scan_concurrency"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		Addr:           ":3001",
		Mode:           ModeLive,
		EvalsRoot:      DefaultEvalsRoot,
		SnapshotPath:   "",
		ManifestName:   "eval.yaml",
		NotesName:      "README.md",
		ReservedPrefix: "_",
		ReservedDirs:   []string{"utils"},
	}
}

// Validate checks the invariants Load enforces.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.Mode != ModeLive && c.Mode != ModeSnapshot:
		return fmt.Errorf("%w: mode must be %q or %q, got %q", ErrInvalidConfig, ModeLive, ModeSnapshot, c.Mode)
	case c.Mode == ModeSnapshot && strings.TrimSpace(c.SnapshotPath) == "":
		return fmt.Errorf("%w: snapshot mode requires snapshot_path", ErrInvalidConfig)
	case strings.TrimSpace(c.ManifestName) == "":
		return fmt.Errorf("%w: manifest_name must not be empty", ErrInvalidConfig)
	case c.ScanConcurrency < 0:
		return fmt.Errorf("%w: scan_concurrency must not be negative", ErrInvalidConfig)
	}
	return nil
}
