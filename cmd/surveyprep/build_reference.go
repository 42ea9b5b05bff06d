package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"surveyprep/internal/exporter"
	"surveyprep/internal/reference"
	"surveyprep/internal/validation"
)

func buildReferenceCmd(a *app) *cobra.Command {
	var workbook, sheet, output string

	cmd := &cobra.Command{
		Use:   "build-reference",
		Short: "Derive the missing-value reference table from the attribute workbook",
		Long: `Read the attribute values workbook and write the missing-value reference
table used by transform. The codes of every row whose meaning is "unknown"
become the attribute's sentinel list.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if sheet == "" {
				sheet = a.cfg.Input.WorkbookSheet
			}
			return a.runBuildReference(workbook, sheet, output)
		},
	}

	cmd.Flags().StringVar(&workbook, "workbook", "", "attribute values workbook (.xlsx)")
	cmd.Flags().StringVar(&sheet, "sheet", "", "worksheet name (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "missing-value reference CSV to write")
	_ = cmd.MarkFlagRequired("workbook")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func (a *app) runBuildReference(workbook, sheet, output string) error {
	v := validation.NewFileValidator(a.logger)
	if err := validation.ValidateAll(
		func() error { return v.ValidateExcelFile(workbook) },
		func() error { return v.ValidateOutputPath(output) },
	); err != nil {
		return err
	}

	opts := reference.DefaultWorkbookOptions()
	opts.Sheet = sheet

	rows, err := reference.BuildMissingValuesFromWorkbook(workbook, opts)
	if err != nil {
		return fmt.Errorf("failed to build reference: %w", err)
	}

	// the written table must load back
	mv, err := reference.NewMissingValues(rows)
	if err != nil {
		return fmt.Errorf("derived reference is not loadable: %w", err)
	}
	for _, c := range mv.Collisions() {
		a.logger.Warn("attribute has more than one unknown row",
			slog.String("attribute", c.Attribute),
			slog.Int("rows", c.Rows))
	}

	w := exporter.NewCSVWriter(exporter.WriteOptions{}, a.logger)
	if err := w.WriteMissingValuesFile(output, rows); err != nil {
		return err
	}

	a.logger.Info("Reference table written",
		slog.String("output", output),
		slog.Int("rows", len(rows)),
		slog.Int("attributes", mv.Len()))
	return nil
}
