package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"surveyprep/pkg/contracts/domain"
)

// PipelineMetrics holds the instruments recorded by a transform run
type PipelineMetrics struct {
	RunsTotal         metric.Int64Counter
	RunDuration       metric.Float64Histogram
	StepDuration      metric.Float64Histogram
	RowsProcessed     metric.Int64Counter
	ColumnsDropped    metric.Int64Counter
	CellsImputed      metric.Int64Counter
	IndicatorsCreated metric.Int64Counter
	StepErrors        metric.Int64Counter
}

// CreatePipelineMetrics registers the pipeline instruments on meter
func CreatePipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	runsTotal, err := meter.Int64Counter(
		"surveyprep_runs",
		metric.WithDescription("Total number of transform runs"),
	)
	if err != nil {
		return nil, err
	}

	runDuration, err := meter.Float64Histogram(
		"surveyprep_run_duration",
		metric.WithDescription("Transform run duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	stepDuration, err := meter.Float64Histogram(
		"surveyprep_step_duration",
		metric.WithDescription("Pipeline step duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	rowsProcessed, err := meter.Int64Counter(
		"surveyprep_rows_processed",
		metric.WithDescription("Rows passed through the pipeline"),
	)
	if err != nil {
		return nil, err
	}

	columnsDropped, err := meter.Int64Counter(
		"surveyprep_columns_dropped",
		metric.WithDescription("Columns removed, by reason"),
	)
	if err != nil {
		return nil, err
	}

	cellsImputed, err := meter.Int64Counter(
		"surveyprep_cells_imputed",
		metric.WithDescription("Missing cells filled, by attribute class"),
	)
	if err != nil {
		return nil, err
	}

	indicatorsCreated, err := meter.Int64Counter(
		"surveyprep_indicator_columns",
		metric.WithDescription("Indicator columns created by categorical expansion"),
	)
	if err != nil {
		return nil, err
	}

	stepErrors, err := meter.Int64Counter(
		"surveyprep_step_errors",
		metric.WithDescription("Pipeline step failures"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		RunsTotal:         runsTotal,
		RunDuration:       runDuration,
		StepDuration:      stepDuration,
		RowsProcessed:     rowsProcessed,
		ColumnsDropped:    columnsDropped,
		CellsImputed:      cellsImputed,
		IndicatorsCreated: indicatorsCreated,
		StepErrors:        stepErrors,
	}, nil
}

// RecordStep records one step execution
func (m *PipelineMetrics) RecordStep(ctx context.Context, variant domain.Variant, stepID string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("variant", variant.String()),
		attribute.String("step", stepID),
		attribute.String("status", status(err)),
	)
	m.StepDuration.Record(ctx, duration.Seconds(), attrs)
	if err != nil {
		m.StepErrors.Add(ctx, 1, attrs)
	}
}

// RecordRun records a finished run. report may be nil when the run failed
// before producing one.
func (m *PipelineMetrics) RecordRun(ctx context.Context, variant domain.Variant, duration time.Duration, report *domain.TransformReport, err error) {
	if m == nil {
		return
	}
	va := attribute.String("variant", variant.String())
	m.RunsTotal.Add(ctx, 1, metric.WithAttributes(va, attribute.String("status", status(err))))
	m.RunDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(va))

	if err != nil || report == nil {
		return
	}

	m.RowsProcessed.Add(ctx, int64(report.InputShape.Rows), metric.WithAttributes(va))

	byReason := make(map[domain.DropReason]int64)
	for _, d := range report.Dropped {
		byReason[d.Reason]++
	}
	for reason, n := range byReason {
		m.ColumnsDropped.Add(ctx, n, metric.WithAttributes(va, attribute.String("reason", string(reason))))
	}

	for class, n := range report.Imputed {
		m.CellsImputed.Add(ctx, int64(n), metric.WithAttributes(va, attribute.String("class", string(class))))
	}

	var indicators int64
	for _, n := range report.Indicators {
		indicators += int64(n)
	}
	m.IndicatorsCreated.Add(ctx, indicators, metric.WithAttributes(va))
}

func status(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
