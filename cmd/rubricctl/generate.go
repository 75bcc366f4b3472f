package main

import (
	"context"
	"fmt"
	"os"

	"rubricgen/config"
	"rubricgen/logger"
	"rubricgen/render"
	"rubricgen/services"
	"rubricgen/services/gateway"
	"rubricgen/services/rubric"

	"github.com/spf13/cobra"
)

// newGenerator is a package-level variable to allow mocking in tests.
var newGenerator = gateway.NewGenerator

type generateOptions struct {
	formPath            string
	suggestCompetencies bool
	suggestItems        bool
	fetchCriteria       bool
	outPath             string
	printPath           string
	saveForm            string
	copy                bool
}

func newGenerateCmd() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a rubric from a YAML form",
		Long: `Generate a rubric from a YAML form.

Optional suggestion steps run before generation in this order: competencies,
evaluation items, curriculum criteria. The table is written to --out, or to
stdout when neither --out, --print-out nor --copy is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.formPath, "form", "f", "", "YAML form to generate from (required)")
	cmd.Flags().BoolVar(&opts.suggestCompetencies, "suggest-competencies", false, "replace the competencies with suggested ones")
	cmd.Flags().BoolVar(&opts.suggestItems, "suggest-items", false, "replace the evaluation items with suggested ones")
	cmd.Flags().BoolVar(&opts.fetchCriteria, "fetch-criteria", false, "replace the criteria with official curriculum criteria")
	cmd.Flags().StringVarP(&opts.outPath, "out", "o", "", "write the rubric table HTML to this file")
	cmd.Flags().StringVar(&opts.printPath, "print-out", "", "write the printable HTML document to this file")
	cmd.Flags().StringVar(&opts.saveForm, "save-form", "", "write the form, after suggestions, to this YAML file")
	cmd.Flags().BoolVar(&opts.copy, "copy", false, "copy the rubric table HTML to the clipboard")
	_ = cmd.MarkFlagRequired("form")

	return cmd
}

func runGenerate(cmd *cobra.Command, opts *generateOptions) error {
	form, err := readForm(opts.formPath)
	if err != nil {
		return err
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer log.Sync()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	generator, err := newGenerator(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing %s client: %w", cfg.Provider, err)
	}

	controller := services.NewFormController(
		rubric.NewService(gateway.New(generator, log), log),
		services.WithInitialForm(form),
		services.WithActionTimeout(cfg.ActionTimeout),
		services.WithLogger(log),
	)

	steps := []struct {
		enabled bool
		action  services.Action
	}{
		{opts.suggestCompetencies, services.ActionSuggestCompetencies},
		{opts.suggestItems, services.ActionSuggestItems},
		{opts.fetchCriteria, services.ActionFetchCriteria},
		{true, services.ActionGenerate},
	}
	for _, step := range steps {
		if !step.enabled {
			continue
		}
		if err := controller.Run(ctx, step.action); err != nil {
			return actionError(controller.Snapshot(), step.action, err)
		}
	}

	snap := controller.Snapshot()
	if opts.saveForm != "" {
		if err := writeForm(opts.saveForm, snap.Form); err != nil {
			return err
		}
	}
	return writeOutputs(cmd, opts, snap)
}

func actionError(snap services.Snapshot, action services.Action, err error) error {
	if snap.Status.Error != "" {
		return fmt.Errorf("%s: %s", action, snap.Status.Error)
	}
	return fmt.Errorf("%s: %w", action, err)
}

func writeOutputs(cmd *cobra.Command, opts *generateOptions, snap services.Snapshot) error {
	table, err := render.ExportHTML(snap.Result, snap.Form.Levels)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	wrote := false

	if opts.outPath != "" {
		if err := os.WriteFile(opts.outPath, []byte(table), 0o644); err != nil {
			return fmt.Errorf("writing table: %w", err)
		}
		fmt.Fprintf(out, "Wrote rubric table to %s\n", opts.outPath)
		wrote = true
	}

	if opts.printPath != "" {
		doc, err := render.RenderPrintDocument(snap.Result, snap.Form.Levels)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.printPath, []byte(doc), 0o644); err != nil {
			return fmt.Errorf("writing print document: %w", err)
		}
		fmt.Fprintf(out, "Wrote printable rubric to %s\n", opts.printPath)
		wrote = true
	}

	if opts.copy {
		if err := render.CopyToClipboard(table); err != nil {
			return err
		}
		fmt.Fprintln(out, "Copied rubric table to the clipboard")
		wrote = true
	}

	if !wrote {
		fmt.Fprintln(out, table)
	}
	return nil
}
