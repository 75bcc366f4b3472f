package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rubricctl",
		Short: "Generate LOMLOE evaluation rubrics from the command line",
		Long: `rubricctl drives the rubric generator without the web page.

Examples:
  rubricctl catalog                         # List stages, grades, subjects and competencies
  rubricctl catalog Primaria                # Only the Primaria grades and subjects
  rubricctl init-form form.yaml             # Write the example form
  rubricctl generate --form form.yaml --out rubrica.html`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newCatalogCmd(), newInitFormCmd(), newGenerateCmd())
	return root
}
