package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-processform/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a config file populated with defaults",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "processform.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := settings.Get()
		out := cmd.OutOrStdout()
		file := settings.File()
		if file == "" {
			file = "(defaults)"
		}
		fmt.Fprintf(out, "file:         %s\n", file)
		fmt.Fprintf(out, "addr:         %s\n", cfg.Addr)
		fmt.Fprintf(out, "title:        %s\n", cfg.Title)
		fmt.Fprintf(out, "schema_file:  %s\n", cfg.SchemaFile)
		fmt.Fprintf(out, "slides_file:  %s\n", cfg.SlidesFile)
		fmt.Fprintf(out, "log_level:    %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "session_ttl:  %s\n", cfg.SessionTTL)
		fmt.Fprintf(out, "max_sessions: %d\n", cfg.MaxSessions)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd, configShowCmd)
}
