package main

import (
	"errors"
	"fmt"
	"os"

	"rubricgen/models"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newInitFormCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init-form <file>",
		Short: "Write the example form as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists, use --force to overwrite", path)
				} else if !errors.Is(err, os.ErrNotExist) {
					return err
				}
			}

			if err := writeForm(path, models.DefaultForm()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote example form to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func writeForm(path string, form models.FormModel) error {
	data, err := yaml.Marshal(&form)
	if err != nil {
		return fmt.Errorf("encoding form: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func readForm(path string) (models.FormModel, error) {
	var form models.FormModel
	data, err := os.ReadFile(path)
	if err != nil {
		return form, fmt.Errorf("reading form: %w", err)
	}
	if err := yaml.Unmarshal(data, &form); err != nil {
		return form, fmt.Errorf("parsing form %s: %w", path, err)
	}
	return form, nil
}
