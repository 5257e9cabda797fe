package main

import (
	"fmt"
	"io"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-processform/pkg/schema"
	"github.com/goliatone/go-processform/pkg/validation"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file...]",
	Short: "Check field registry files for problems",
	Long: `Validate each registry file (YAML, JSON or TOML) and list every problem
found. Without arguments the configured schema_file is checked, or the
embedded registry when none is configured.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		files := args
		if len(files) == 0 {
			if path := settings.Get().SchemaFile; path != "" {
				files = []string{path}
			}
		}

		out := cmd.OutOrStdout()
		if len(files) == 0 {
			raw, err := fs.ReadFile(schema.EmbeddedFS(), "process_fields.yaml")
			if err != nil {
				return err
			}
			result := validation.ValidateRegistry(schema.SourceFromFS("process_fields.yaml"), raw)
			return report(out, "(embedded)", result)
		}

		var failed int
		for _, path := range files {
			result, err := validation.ValidateRegistryFile(path)
			if err != nil {
				return err
			}
			if err := report(out, path, result); err != nil {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files invalid", failed, len(files))
		}
		return nil
	},
}

func report(out io.Writer, name string, result validation.SchemaValidationResult) error {
	if result.Valid {
		fmt.Fprintf(out, "%s: ok\n", name)
		return nil
	}
	for _, issue := range result.Issues {
		fmt.Fprintf(out, "%s: %s\n", name, issue)
	}
	return fmt.Errorf("%s: %d problems", name, len(result.Issues))
}
