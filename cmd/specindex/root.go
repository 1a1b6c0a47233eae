package main

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dgallion1/specindex/internal/config"
	"github.com/spf13/cobra"
)

// app holds state shared by subcommands once the root command has loaded
// configuration.
type app struct {
	cfgFile string
	cfg     config.Config
	log     *slog.Logger
	stderr  io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{stderr: os.Stderr}

	root := &cobra.Command{
		Use:           "specindex",
		Short:         "Extract and validate the section structure of specification documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.cfgFile)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			a.cfg = cfg
			a.log = newLogger(a.stderr, cfg.LogLevel, cfg.LogFormat)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file, YAML or TOML (environment variables take precedence)")

	root.AddCommand(newRunCmd(a), newValidateCmd(a), newServeCmd(a))
	return root
}

func newLogger(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
