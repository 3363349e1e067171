// Package cli implements the evalhub command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okian/evalhub/internal/config"
	"github.com/okian/evalhub/pkg/logger"
)

var (
	flagConfig    string
	flagLogLevel  string
	flagLogFormat string
	flagRoot      string
	flagMode      string
	flagSnapshot  string
	flagAddr      string
)

// cfg is the configuration of the running command, set by setup.
var cfg *config.Config //nolint:gochecknoglobals // cobra commands share state through package vars

var rootCmd = &cobra.Command{
	Use:          "evalhub",
	Short:        "Browse evaluation benchmarks described by per-directory manifests",
	SilenceUsage: true,
	Long: `evalhub scans a directory whose children each describe one benchmark
(an eval.yaml manifest and an optional README.md) and lets you search it
from the terminal, serve it over HTTP with a browser UI, or publish a
static snapshot.`,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "YAML config file (default $"+config.EnvConfig+")")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&flagLogFormat, "log-format", "", "Log format: text or json")
	pf.StringVar(&flagRoot, "root", "", "Benchmark root directory (default $"+config.EnvLegacyRoot+" or "+config.DefaultEvalsRoot+")")
	pf.StringVar(&flagMode, "mode", "", "Data source: live (rescan per request) or snapshot")
	pf.StringVar(&flagSnapshot, "snapshot", "", "Snapshot file read in snapshot mode and served at /evals.json")
	pf.StringVar(&flagAddr, "addr", "", "HTTP listen address")
}

// Execute is called by main.go.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup initializes logging and loads the configuration: defaults, then the
// config file, then env vars, then flags.
func setup(cmd *cobra.Command, _ []string) error {
	logger.SetOutput(cmd.ErrOrStderr())
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	path := flagConfig
	if path == "" {
		path = os.Getenv(config.EnvConfig)
	}
	loaded, err := config.LoadFile(cmd.Context(), path, flagOverrides(cmd))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.SetFormat(loaded.LogFormat); err != nil {
		logger.Get().Warn(cmd.Context(), "invalid log_format; falling back to text", logger.String("log_format", loaded.LogFormat), logger.Error(err))
		_ = logger.SetFormat("text")
	}
	if err := logger.SetLevelString(loaded.LogLevel); err != nil {
		logger.Get().Warn(cmd.Context(), "invalid log_level; falling back to info", logger.String("log_level", loaded.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	cfg = loaded
	return nil
}

func flagOverrides(cmd *cobra.Command) func(*config.Config) {
	return func(c *config.Config) {
		f := cmd.Flags()
		if f.Changed("log-level") {
			c.LogLevel = flagLogLevel
		}
		if f.Changed("log-format") {
			c.LogFormat = flagLogFormat
		}
		if f.Changed("root") {
			c.EvalsRoot = flagRoot
		}
		if f.Changed("mode") {
			c.Mode = flagMode
		}
		if f.Changed("snapshot") {
			c.SnapshotPath = flagSnapshot
		}
		if f.Changed("addr") {
			c.Addr = flagAddr
		}
	}
}
