package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/praetor/internal/cli"
	"github.com/example/praetor/internal/config"
	"github.com/example/praetor/internal/version"
	"github.com/example/praetor/internal/wire"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "praetor",
		Short:   "Praetor - operations backend for the Praefectus agent roster",
		Version: version.String(),
		Long: `Praetor runs the agent registry, mission lifecycle and Mission Control chat.
Use "praetor serve" for the HTTP API; the other commands work against the same database.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[cli.SkipConfigAnnotation] != "" {
				return nil
			}
			path, err := cli.ConfigPath(cmd)
			if err != nil {
				return err
			}
			cfg, err := config.LoadWithDefaults(path)
			if err != nil {
				return err
			}
			setupLogging(cfg.Logging)
			wire.Configure(cfg)
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.praetor/config.yaml)")

	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.AgentsCmd())
	rootCmd.AddCommand(cli.MissionCmd())
	rootCmd.AddCommand(cli.ChatCmd())
	rootCmd.AddCommand(cli.EventsCmd())
	rootCmd.AddCommand(cli.ConfigCmd())
	rootCmd.AddCommand(cli.SeedCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogging(cfg config.LoggingConfig) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.Level))); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
