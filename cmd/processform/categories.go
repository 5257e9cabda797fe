package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the categories and fields of the schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, c := range reg.Categories() {
			fmt.Fprintf(out, "%s\t%s\n", c.ID, c.DisplayTitle())
			for _, f := range c.Fields {
				line := fmt.Sprintf("  %s\t%s\t%s", f.Name, f.Kind, f.Label)
				if len(f.Options) > 0 {
					line += "\t[" + strings.Join(f.Options, ", ") + "]"
				}
				fmt.Fprintln(out, line)
			}
		}
		return nil
	},
}
