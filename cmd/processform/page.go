package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-processform/pkg/orchestrator"
	"github.com/goliatone/go-processform/pkg/renderers/vanilla"
)

var (
	pageOutput   string
	pageNoSlides bool
	pageInline   bool
)

var pageCmd = &cobra.Command{
	Use:   "page",
	Short: "Print a complete HTML page",
	Long: `Render the page shell with the category chooser, the hidden field and
free-text regions, and the configured slides.

With --inline-styles the embedded stylesheet is written into the page so the
output can be opened without the server.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRegistry()
		if err != nil {
			return err
		}

		var slides []orchestrator.Slide
		if !pageNoSlides {
			if slides, err = loadSlides(); err != nil {
				return err
			}
		}

		var renderOpts []vanilla.Option
		if pageInline {
			renderOpts = append(renderOpts, vanilla.WithDefaultStyles())
		}
		renderer, err := vanilla.New(renderOpts...)
		if err != nil {
			return err
		}

		orch := orchestrator.New(
			orchestrator.WithRegistry(reg),
			orchestrator.WithPageRenderer(renderer),
			orchestrator.WithLogger(logger),
		)
		output, err := orch.Generate(cmd.Context(), orchestrator.Request{
			Title:  settings.Get().Title,
			Slides: slides,
		})
		if err != nil {
			return err
		}

		if pageOutput == "" {
			_, err = cmd.OutOrStdout().Write(output)
			return err
		}
		if err := os.WriteFile(pageOutput, output, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", pageOutput, err)
		}
		logger.Info("page written", "file", pageOutput, "bytes", len(output))
		return nil
	},
}

func init() {
	pageCmd.Flags().StringVarP(&pageOutput, "output", "o", "", "write the page to a file instead of stdout")
	pageCmd.Flags().BoolVar(&pageNoSlides, "no-slides", false, "omit the slider")
	pageCmd.Flags().BoolVar(&pageInline, "inline-styles", false, "embed the default stylesheet in the page")
}
