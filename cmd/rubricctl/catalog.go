package main

import (
	"fmt"
	"io"

	"rubricgen/catalog"

	"github.com/spf13/cobra"
)

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog [stage]",
		Short: "Print the curriculum catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stages := catalog.Stages()
			if len(args) == 1 {
				if !catalog.IsKnownStage(args[0]) {
					return fmt.Errorf("unknown stage %q", args[0])
				}
				stages = args[:1]
			}
			printCatalog(cmd.OutOrStdout(), stages)
			return nil
		},
	}
}

func printCatalog(w io.Writer, stages []string) {
	for _, stage := range stages {
		fmt.Fprintf(w, "%s\n", stage)
		fmt.Fprintf(w, "  Cursos:\n")
		for _, grade := range catalog.GradesFor(stage) {
			fmt.Fprintf(w, "    - %s\n", grade)
		}
		fmt.Fprintf(w, "  Materias:\n")
		for _, subject := range catalog.SubjectsFor(stage) {
			fmt.Fprintf(w, "    - %s\n", subject)
		}
	}
	fmt.Fprintf(w, "Competencias clave:\n")
	for _, c := range catalog.Competencies() {
		fmt.Fprintf(w, "  - %s\n", c)
	}
}
