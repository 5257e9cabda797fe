package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-processform/pkg/config"
	"github.com/goliatone/go-processform/pkg/orchestrator"
	"github.com/goliatone/go-processform/pkg/schema"
)

var (
	cfgFile  string
	logLevel string

	settings *config.Manager
	level    = new(slog.LevelVar)
	logger   = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
)

var rootCmd = &cobra.Command{
	Use:   "processform",
	Short: "Process category forms and slides rendered from a field schema",
	Long: `processform renders a category chooser whose selection regenerates a
set of input fields described by a field schema, together with a
wraparound slider.

Pages can be printed as HTML, served over HTTP with live updates, or
filled in from the terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		settings = cm
		level.Set(cm.Get().Level())
		if logLevel != "" {
			if err := level.UnmarshalText([]byte(logLevel)); err != nil {
				return fmt.Errorf("--log-level: %w", err)
			}
		}
		if file := cm.File(); file != "" {
			logger.Debug("config loaded", "file", file)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./processform.yaml or ~/.processform/processform.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "", "override log_level (debug, info, warn, error)",
	)

	rootCmd.AddCommand(categoriesCmd, renderCmd, pageCmd, promptCmd, slidesCmd, serveCmd, validateCmd, configCmd)
}

// loadRegistry returns the configured schema file, or the embedded default.
func loadRegistry() (*schema.Registry, error) {
	path := settings.Get().SchemaFile
	if path == "" {
		return schema.Default(), nil
	}
	reg, err := schema.LoadFile(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("schema loaded", "file", path, "categories", len(reg.IDs()))
	return reg, nil
}

// loadSlides returns the configured slides file, or the embedded deck.
func loadSlides() ([]orchestrator.Slide, error) {
	path := settings.Get().SlidesFile
	if path == "" {
		return orchestrator.DefaultSlides(), nil
	}
	return orchestrator.LoadSlidesFile(path)
}
