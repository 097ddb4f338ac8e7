package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/ahoin001/Soma-sub005/internal/cliconfig"
)

const longHelp = `somasync keeps locally captured Soma entries (food logs, water totals,
weight entries, goal changes) in sync with the backend.

Entries recorded while offline land in a durable on-device queue and
replay automatically once connectivity returns. Replay is at-least-once
and per-kind FIFO, so a goal set offline at 9:00 and again at 9:05
always lands in that order.`

const exampleUsage = `  somasync --auth-key <api-key>
  somasync --config $HOME/.soma/config.toml --once
  somasync status
  somasync purge`

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	logger := cliconfig.Logger()

	root := &cobra.Command{
		Use:     "somasync",
		Short:   "Sync locally captured Soma entries with the backend",
		Long:    longHelp,
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load config file first, then env, then flag overrides.
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			return cfg.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAgent(cmd.Context(), &cfg, cfgPath, logger)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "path to config file (default $HOME/.soma/config.toml)")
	pf.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "path to the pending-mutation database")
	pf.StringVar(&cfg.ServiceURL, "service-url", cfg.ServiceURL, "sync service base URL")
	pf.StringVar(&cfg.AuthKey, "auth-key", cfg.AuthKey, "API authentication key")
	pf.IntVar(&cfg.MaxRetries, "max-retries", cfg.MaxRetries, "per-mutation retry ceiling")
	pf.DurationVar(&cfg.OfflinePollInterval, "poll-interval", cfg.OfflinePollInterval, "queue depth poll interval while offline")
	pf.DurationVar(&cfg.ProbeInterval, "probe-interval", cfg.ProbeInterval, "connectivity probe interval")
	pf.DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "HTTP request timeout")
	root.Flags().BoolVar(&cfg.Once, "once", cfg.Once, "drain the queue once and exit")

	root.AddCommand(statusCmd(&cfg), listCmd(&cfg), processCmd(&cfg, logger), purgeCmd(&cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		logger.Error().Err(err).Msg("somasync failed")
		os.Exit(1)
	}
}
