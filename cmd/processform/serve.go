package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-processform/internal/server"
	"github.com/goliatone/go-processform/pkg/config"
	"github.com/goliatone/go-processform/pkg/orchestrator"
	"github.com/goliatone/go-processform/pkg/renderers/vanilla"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the page with live updates over HTTP",
	Long: `Serve the page and its assets. Each browser load gets its own session;
category changes, range input and slide buttons are replayed on the server
and the changed regions are sent back.

The config file is watched; log_level changes apply without a restart.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := settings.Get()
		addr := cfg.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		slides, err := loadSlides()
		if err != nil {
			return err
		}

		renderer, err := vanilla.New(
			vanilla.WithStylesheet(server.AssetsPrefix+vanilla.StylesheetName),
			vanilla.WithScript(server.AssetsPrefix+vanilla.RuntimeScriptName),
		)
		if err != nil {
			return err
		}
		orch := orchestrator.New(
			orchestrator.WithRegistry(reg),
			orchestrator.WithPageRenderer(renderer),
			orchestrator.WithLogger(logger),
		)

		settings.OnChange(func(next *config.Config) {
			if logLevel == "" {
				level.Set(next.Level())
			}
			logger.Info("config reloaded", "log_level", next.LogLevel)
		})
		settings.WatchConfig()

		srv, err := server.New(orch, server.Options{
			Addr:        addr,
			Title:       cfg.Title,
			Slides:      slides,
			SessionTTL:  cfg.SessionTTL,
			MaxSessions: cfg.MaxSessions,
			Logger:      logger,
		})
		if err != nil {
			return err
		}
		return srv.Start(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides addr in config)")
}
