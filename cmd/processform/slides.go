package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-processform/pkg/orchestrator"
	"github.com/goliatone/go-processform/pkg/renderers/tui"
)

var slidesCmd = &cobra.Command{
	Use:   "slides",
	Short: "Browse the slides in the terminal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		slides, err := loadSlides()
		if err != nil {
			return err
		}
		orch := orchestrator.New(orchestrator.WithLogger(logger))
		page, err := orch.Build(cmd.Context(), orchestrator.Request{Slides: slides})
		if err != nil {
			return err
		}
		if page.Slides() == nil {
			return errors.New("no slides to show")
		}
		return tui.RunSlideshow(cmd.Context(), page.Slides())
	},
}
