package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-processform/pkg/dom"
	"github.com/goliatone/go-processform/pkg/orchestrator"
	"github.com/goliatone/go-processform/pkg/schema"
)

var renderCmd = &cobra.Command{
	Use:   "render [category]",
	Short: "Print the regions generated for a category",
	Long: `Select a category on a fresh page and print the field and free-text
regions it controls.

Selecting "other" reveals the free-text region instead of fields; an empty
or unknown category leaves both regions hidden.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		orch := orchestrator.New(
			orchestrator.WithRegistry(reg),
			orchestrator.WithLogger(logger),
		)
		page, err := orch.Build(cmd.Context(), orchestrator.Request{})
		if err != nil {
			return err
		}

		category := ""
		if len(args) == 1 {
			category = args[0]
		}
		if category != "" && category != schema.OtherCategory && !reg.Has(category) {
			logger.Warn("category not in schema", "category", category, "known", reg.IDs())
		}

		form := page.Form()
		if _, err := page.Apply(orchestrator.Event{
			Target: form.Chooser().ID(),
			Type:   dom.EventChange,
			Value:  category,
		}); err != nil {
			return err
		}
		logger.Debug("rendered", "category", category, "controls", len(form.Controls()))

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, form.Fields().OuterHTML())
		fmt.Fprintln(out, form.Other().OuterHTML())
		return nil
	},
}
