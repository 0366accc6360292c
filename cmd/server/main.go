package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pairwire/relay-server/internal/app"
	"github.com/pairwire/relay-server/internal/config"
	"github.com/pairwire/relay-server/internal/log"
)

func main() {
	var (
		configPath string
		addr       string
		logLevel   string
	)

	rootCmd := &cobra.Command{
		Use:   "relay-server",
		Short: "Signaling relay for ephemeral two-party encrypted chat rooms",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := log.New(logLevel)

			cfg, path, err := config.Load(logger, configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			logger = log.New(cfg.LogLevel)
			logger.Info().Str("config", path).Str("addr", cfg.Addr).Msg("starting relay server")

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := app.New(&cfg, logger).Run(ctx); err != nil {
				return err
			}
			logger.Info().Msg("server stopped")
			return nil
		},
	}

	rootCmd.Flags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.Flags().StringVar(&addr, "addr", config.Default().Addr, "HTTP listen address")
	rootCmd.Flags().StringVar(&logLevel, "log-level", config.Default().LogLevel, "log level (debug, info, warn, error)")

	rootCmd.SilenceUsage = true
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
