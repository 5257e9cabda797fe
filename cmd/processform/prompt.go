package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-processform/pkg/renderers/tui"
)

var promptFormat string

var promptCmd = &cobra.Command{
	Use:   "prompt [category]",
	Short: "Fill in a category's fields from the terminal",
	Long: `Ask for each field of a category and print the answers.

Without an argument the category is chosen first. Numeric and range answers
are checked against the field bounds and asked again when out of range.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, ok := tui.ParseOutputFormat(promptFormat)
		if !ok {
			return fmt.Errorf("--format: unsupported value %q", promptFormat)
		}
		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		renderer, err := tui.New(
			tui.WithRegistry(reg),
			tui.WithOutputFormat(format),
		)
		if err != nil {
			return err
		}

		category := ""
		if len(args) == 1 {
			category = args[0]
		}
		output, err := renderer.Render(cmd.Context(), category)
		if errors.Is(err, tui.ErrAborted) {
			logger.Info("prompt aborted")
			return nil
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if _, err := out.Write(output); err != nil {
			return err
		}
		if format == tui.OutputFormatJSON || format == tui.OutputFormatFormURLEncoded {
			fmt.Fprintln(out)
		}
		return nil
	},
}

func init() {
	promptCmd.Flags().StringVarP(&promptFormat, "format", "f", string(tui.OutputFormatJSON), "output format: json, form or pretty")
}
