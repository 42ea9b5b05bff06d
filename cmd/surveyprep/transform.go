package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"surveyprep/internal/dataprocessing"
	"surveyprep/internal/dataset"
	"surveyprep/internal/exporter"
	"surveyprep/internal/infrastructure"
	"surveyprep/internal/operations"
	"surveyprep/internal/reference"
	"surveyprep/internal/validation"
	"surveyprep/pkg/contracts/domain"
)

// transformFlags are the inputs of one transform run
type transformFlags struct {
	variant       string
	input         string
	missingValues string
	typeActions   string
	output        string
	report        string
	metricsFile   string
	progress      bool
	sparsity      float64
}

func transformCmd(a *app) *cobra.Command {
	f := &transformFlags{}

	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Clean a raw survey extract",
		Long: `Clean one survey extract with the missing-value reference and the
type-action table. The variant decides which extra columns the extract
carries: customer extracts lose their customer-only columns and labeled
extracts keep their label, unchanged, as the last column.

Use --output - to write the cleaned table to stdout.`,
		Example: `  surveyprep transform --variant general --input azdias.csv \
    --missing-values missing_values.csv --type-actions types.csv --output azdias_clean.csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("sparsity-threshold") {
				a.cfg.Pipeline.SparsityThreshold = f.sparsity
			}
			if f.report != "" {
				a.cfg.Output.ReportPath = f.report
			}
			if f.metricsFile != "" {
				a.cfg.Output.MetricsFile = f.metricsFile
			}
			if err := a.cfg.Validate(); err != nil {
				return fmt.Errorf("invalid flags: %w", err)
			}
			return a.runTransform(cmd.Context(), f, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&f.variant, "variant", "", "dataset variant (general, customer, labeled)")
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "raw survey extract")
	cmd.Flags().StringVar(&f.missingValues, "missing-values", "", "missing-value reference CSV")
	cmd.Flags().StringVar(&f.typeActions, "type-actions", "", "attribute type-action CSV")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "cleaned CSV to write, - for stdout")
	cmd.Flags().StringVar(&f.report, "report", "", "write the run report as JSON to this file")
	cmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "write run metrics in Prometheus textfile format")
	cmd.Flags().BoolVar(&f.progress, "progress", false, "show a progress bar on stderr")
	cmd.Flags().Float64Var(&f.sparsity, "sparsity-threshold", 0, "drop columns with a larger missing share (default from config)")
	for _, name := range []string{"variant", "input", "missing-values", "type-actions", "output"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func (a *app) runTransform(ctx context.Context, f *transformFlags, stdout, stderr io.Writer) error {
	variant, err := domain.ParseVariant(f.variant)
	if err != nil {
		return err
	}

	v := validation.NewFileValidator(a.logger)
	if err := validation.ValidateAll(
		func() error { return v.ValidateDelimitedFile(f.input) },
		func() error { return v.ValidateDelimitedFile(f.missingValues) },
		func() error { return v.ValidateDelimitedFile(f.typeActions) },
		func() error { return v.ValidateOutputPath(f.output) },
	); err != nil {
		return err
	}

	data, refs, err := a.loadInputs(f)
	if err != nil {
		return err
	}

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(a.cfg.Telemetry), a.logger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	tracer, err := operations.NewRunTracerFromProviders(providers)
	if err != nil {
		return err
	}

	opts := []operations.PipelineOption{
		operations.WithOptions(operations.OptionsFromConfig(a.cfg.Pipeline)),
		operations.WithLogger(a.logger),
		operations.WithTracer(tracer),
	}
	if f.progress {
		opts = append(opts, operations.WithProgressReporter(newStepProgress(stderr, a.logger)))
	}
	pipeline, err := operations.NewPipeline(opts...)
	if err != nil {
		return err
	}

	cleaned, report, err := pipeline.Transform(ctx, variant, data, refs)
	if err != nil {
		a.writeMetrics(providers)
		return fmt.Errorf("transform %s: %w", variant, err)
	}

	a.logger.Info("final cleaned dataset shape",
		slog.String("variant", variant.String()),
		slog.Int("rows", report.OutputShape.Rows),
		slog.Int("columns", report.OutputShape.Columns))

	w := exporter.NewCSVWriter(exporter.WriteOptions{Delimiter: a.cfg.OutputDelimiter()}, a.logger)
	if f.output == "-" {
		err = w.WriteDataset(stdout, cleaned)
	} else {
		err = w.WriteDatasetFile(f.output, cleaned)
	}
	if err != nil {
		return err
	}

	if path := a.cfg.Output.ReportPath; path != "" {
		if err := w.WriteReportFile(path, report); err != nil {
			return err
		}
	}
	a.writeMetrics(providers)
	return nil
}

// loadInputs reads the extract and both reference tables concurrently
func (a *app) loadInputs(f *transformFlags) (*dataset.Dataset, operations.References, error) {
	var (
		g    errgroup.Group
		data *dataset.Dataset
		refs operations.References
	)

	g.Go(func() error {
		var err error
		data, err = dataprocessing.ParseDatasetFile(f.input, dataprocessing.ParseOptions{Delimiter: a.cfg.InputDelimiter()})
		if err != nil {
			return fmt.Errorf("failed to read extract %s: %w", f.input, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		refs.MissingValues, err = reference.LoadMissingValuesFile(f.missingValues)
		if err != nil {
			return fmt.Errorf("failed to read missing-value reference %s: %w", f.missingValues, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		refs.TypeActions, err = reference.LoadTypeActionsFile(f.typeActions)
		if err != nil {
			return fmt.Errorf("failed to read type-action table %s: %w", f.typeActions, err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, operations.References{}, err
	}

	a.logger.Info("Inputs loaded",
		slog.Int("rows", data.NumRows()),
		slog.Int("columns", data.NumColumns()),
		slog.Int("missing_value_attributes", refs.MissingValues.Len()),
		slog.Int("type_action_attributes", refs.TypeActions.Len()))
	return data, refs, nil
}

// writeMetrics writes the metrics textfile when one is configured
func (a *app) writeMetrics(providers *infrastructure.OTelProviders) {
	path := a.cfg.Output.MetricsFile
	if path == "" {
		return
	}
	if err := providers.WriteMetricsTextfile(path); err != nil {
		a.logger.Warn("Failed to write metrics textfile", slog.String("error", err.Error()))
		return
	}
	a.logger.Info("Metrics written", slog.String("file_path", path))
}

// stepProgress drives a progress bar from step events. The bar is created on
// the first event, once the step count is known.
type stepProgress struct {
	w      io.Writer
	logger *slog.Logger
	bar    *progressbar.ProgressBar
}

func newStepProgress(w io.Writer, logger *slog.Logger) *stepProgress {
	return &stepProgress{w: w, logger: logger}
}

// ReportProgress advances the bar by one step
func (p *stepProgress) ReportProgress(e operations.StepEvent) {
	if p.bar == nil {
		p.bar = progressbar.NewOptions(e.Total,
			progressbar.OptionSetWriter(p.w),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(30),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionOnCompletion(func() {
				_, _ = fmt.Fprintln(p.w)
			}),
		)
	}
	p.bar.Describe(e.StepName)
	if err := p.bar.Set(e.Index); err != nil {
		p.logger.Warn("Failed to update progress bar", slog.String("error", err.Error()))
	}
}
