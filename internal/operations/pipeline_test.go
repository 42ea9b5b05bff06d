package operations_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyprep/internal/dataset"
	apperrors "surveyprep/internal/errors"
	"surveyprep/internal/infrastructure"
	"surveyprep/internal/operations"
	"surveyprep/internal/operations/testutil"
	sharedtest "surveyprep/internal/shared/testutil"
	"surveyprep/pkg/contracts/domain"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func surveyRefs(t *testing.T) operations.References {
	t.Helper()
	return operations.References{
		MissingValues: sharedtest.SurveyMissingValues(t),
		TypeActions:   sharedtest.SurveyTypeActions(t),
	}
}

func newPipeline(t *testing.T, opts ...operations.PipelineOption) *operations.Pipeline {
	t.Helper()
	p, err := operations.NewPipeline(append([]operations.PipelineOption{operations.WithLogger(quietLogger())}, opts...)...)
	require.NoError(t, err)
	return p
}

var leadingColumns = []string{
	"ALTERSKATEGORIE_GROB", "ANREDE_KZ", "CAMEO_DEUG_2015", "KBA05_BAUMAX", "KKK",
	"OST_WEST_KZ", "REGIOTYP", "RURAL_NEIGBORHOOD", "PLZ8_BAUMAX_BUSINESS",
}

func assertCloseSlice(t *testing.T, want, got []float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-9, "index %d", i)
	}
}

func TestPipelineTransformGeneral(t *testing.T) {
	input := sharedtest.SurveyDataset(t, domain.VariantGeneral)
	before := input.Clone()

	out, report, err := newPipeline(t).Transform(context.Background(), domain.VariantGeneral, input, surveyRefs(t))
	require.NoError(t, err)
	require.NotNil(t, out)
	require.NotNil(t, report)

	// the caller's table is untouched
	assert.Equal(t, before.Names(), input.Names())
	assert.Equal(t, before.MissingCount(), input.MissingCount())

	assert.Equal(t, sharedtest.SurveyRowCount, out.NumRows())
	assert.Equal(t, 26, out.NumColumns())
	assert.Equal(t, leadingColumns, out.Names()[:len(leadingColumns)])
	assert.Zero(t, out.MissingCount())

	assert.Equal(t, []string{"LNR"}, report.DroppedBy(domain.DropReasonUndocumented))
	assert.Equal(t, []string{"AGER_TYP"}, report.DroppedBy(domain.DropReasonSparse))
	assert.Equal(t, []string{"EINGEFUEGT_AM"}, report.DroppedBy(domain.DropReasonAction))
	assert.ElementsMatch(t, []string{"PRAEGENDE_JUGENDJAHRE", "WOHNLAGE", "PLZ8_BAUMAX"},
		report.DroppedBy(domain.DropReasonEngineered))
	assert.Empty(t, report.DroppedBy(domain.DropReasonVariant))

	assert.Equal(t, map[domain.AttributeClass]int{
		domain.ClassCategorical: 3,
		domain.ClassBinary:      3,
		domain.ClassNumeric:     4,
	}, report.Imputed)
	assert.Equal(t, map[string]int{
		"CJT_GESAMTTYP":      4,
		"MOVEMENT":           3,
		"GENERATION_DECADE":  5,
		"PLZ8_BAUMAX_FAMILY": 5,
	}, report.Indicators)

	assert.Equal(t, domain.Shape{Rows: 6, Columns: 14}, report.InputShape)
	assert.Equal(t, domain.Shape{Rows: 6, Columns: 26}, report.OutputShape)
	assert.False(t, report.CompletedAt.IsZero())
	assert.Len(t, report.Steps, 8, "variant and label steps are skipped")

	assertCloseSlice(t, []float64{0, 1, 1, 0, 1, 1}, sharedtest.ColumnFloats(t, out, "ANREDE_KZ"))
	assertCloseSlice(t, []float64{1.0 / 3, 0, 1.0 / 3, 2.0 / 3, 1, 1.0 / 3},
		sharedtest.ColumnFloats(t, out, "ALTERSKATEGORIE_GROB"))
	assertCloseSlice(t, []float64{2.0 / 6, 1, 1.0 / 6, 4.0 / 6, 3.0 / 6, 0},
		sharedtest.ColumnFloats(t, out, "REGIOTYP"))
}

func TestPipelineTransformCustomer(t *testing.T) {
	input := sharedtest.SurveyDataset(t, domain.VariantCustomer)

	out, report, err := newPipeline(t).Transform(context.Background(), domain.VariantCustomer, input, surveyRefs(t))
	require.NoError(t, err)

	assert.Equal(t, 26, out.NumColumns())
	for _, name := range []string{"CUSTOMER_GROUP", "ONLINE_PURCHASE", "PRODUCT_GROUP"} {
		assert.False(t, out.Has(name), name)
	}
	assert.Equal(t, []string{"CUSTOMER_GROUP", "ONLINE_PURCHASE", "PRODUCT_GROUP"},
		report.DroppedBy(domain.DropReasonVariant))

	// KKK and REGIOTYP keep their imputed raw values
	assertCloseSlice(t, []float64{2, 3, 3, 4, 1, 3}, sharedtest.ColumnFloats(t, out, "KKK"))
	assertCloseSlice(t, []float64{3, 7, 2, 5, 4, 1}, sharedtest.ColumnFloats(t, out, "REGIOTYP"))
	assert.NotContains(t, report.Scaled, "KKK")
	assert.NotContains(t, report.Scaled, "REGIOTYP")

	assertCloseSlice(t, []float64{0, 1, 1, 0, 1, 1}, sharedtest.ColumnFloats(t, out, "ANREDE_KZ"))
}

func TestPipelineTransformLabeled(t *testing.T) {
	input := sharedtest.SurveyDataset(t, domain.VariantLabeled)

	out, report, err := newPipeline(t).Transform(context.Background(), domain.VariantLabeled, input, surveyRefs(t))
	require.NoError(t, err)

	names := out.Names()
	require.Len(t, names, 27)
	assert.Equal(t, "RESPONSE", names[len(names)-1])
	assert.Equal(t, sharedtest.SurveyResponses, sharedtest.ColumnFloats(t, out, "RESPONSE"))
	assert.NotContains(t, report.Scaled, "RESPONSE")
	assert.Equal(t, domain.Shape{Rows: 6, Columns: 27}, report.OutputShape)
}

func TestPipelineMatchingColumnsAcrossVariants(t *testing.T) {
	p := newPipeline(t)
	refs := surveyRefs(t)

	general, _, err := p.Transform(context.Background(), domain.VariantGeneral,
		sharedtest.SurveyDataset(t, domain.VariantGeneral), refs)
	require.NoError(t, err)
	customer, _, err := p.Transform(context.Background(), domain.VariantCustomer,
		sharedtest.SurveyDataset(t, domain.VariantCustomer), refs)
	require.NoError(t, err)

	assert.Equal(t, general.Names(), customer.Names())
}

func TestPipelineRejectsBadInput(t *testing.T) {
	empty, err := dataset.NewBuilder([]string{"KKK"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		variant domain.Variant
		data    *dataset.Dataset
		refs    operations.References
		errType apperrors.ErrorType
		errText string
	}{
		{
			name:    "unknown variant",
			variant: domain.Variant("prospect"),
			data:    sharedtest.SurveyDataset(t, domain.VariantGeneral),
			refs:    surveyRefs(t),
			errType: apperrors.ErrTypeInvalidInput,
			errText: "unknown variant",
		},
		{
			name:    "nil dataset",
			variant: domain.VariantGeneral,
			refs:    surveyRefs(t),
			errType: apperrors.ErrTypeInvalidInput,
			errText: "dataset has no rows",
		},
		{
			name:    "empty dataset",
			variant: domain.VariantGeneral,
			data:    empty.Build(),
			refs:    surveyRefs(t),
			errType: apperrors.ErrTypeInvalidInput,
			errText: "dataset has no rows",
		},
		{
			name:    "missing references",
			variant: domain.VariantGeneral,
			data:    sharedtest.SurveyDataset(t, domain.VariantGeneral),
			errType: apperrors.ErrTypeInvalidInput,
			errText: "reference tables",
		},
		{
			name:    "customer extract without customer columns",
			variant: domain.VariantCustomer,
			data:    sharedtest.SurveyDataset(t, domain.VariantGeneral),
			refs:    surveyRefs(t),
			errType: apperrors.ErrTypeInvalidInput,
			errText: "customer-only columns",
		},
		{
			name:    "labeled extract without label",
			variant: domain.VariantLabeled,
			data:    sharedtest.SurveyDataset(t, domain.VariantGeneral),
			refs:    surveyRefs(t),
			errType: apperrors.ErrTypeInvalidInput,
			errText: "RESPONSE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, report, err := newPipeline(t).Transform(context.Background(), tt.variant, tt.data, tt.refs)
			require.Error(t, err)
			assert.Nil(t, out)
			assert.Nil(t, report)
			assert.True(t, apperrors.IsType(err, tt.errType), "got %v", err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

func TestPipelineFailingStep(t *testing.T) {
	cause := apperrors.NewInvalidInputError("binary column holds text")
	reporter := &testutil.MockReporter{}
	after := testutil.CreateSuccessfulStage("after", "After")

	p := newPipeline(t,
		operations.WithProgressReporter(reporter),
		operations.WithSteps(
			testutil.CreateSuccessfulStage("first", "First"),
			testutil.CreateFailingStage("broken", "Broken", cause),
			after,
		))

	out, report, err := p.Transform(context.Background(), domain.VariantGeneral,
		sharedtest.SurveyDataset(t, domain.VariantGeneral), surveyRefs(t))
	require.Error(t, err)
	assert.Nil(t, out)
	assert.Nil(t, report)

	testutil.AssertErrorType(t, err, operations.ErrorTypeExecution)
	assert.Equal(t, "broken", operations.FailedStep(err))
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Same(t, cause, appErr)

	assert.Zero(t, after.GetExecuteCalls(), "steps after a failure do not run")
	assert.Equal(t, []string{"first", "broken"}, reporter.StepIDs())
	events := reporter.Events()
	assert.Equal(t, operations.StepStatusFailed, events[1].Status)
	assert.Error(t, events[1].Err)
}

func TestPipelineValidationFailure(t *testing.T) {
	step := testutil.CreateValidationFailingStage("guarded", "Guarded", errors.New("not ready"))
	p := newPipeline(t, operations.WithSteps(step))

	_, _, err := p.Transform(context.Background(), domain.VariantGeneral,
		sharedtest.SurveyDataset(t, domain.VariantGeneral), surveyRefs(t))
	testutil.AssertErrorType(t, err, operations.ErrorTypeValidation)
	testutil.AssertErrorContains(t, err, "not ready")
	assert.Zero(t, step.GetExecuteCalls())
}

func TestPipelineCancellation(t *testing.T) {
	t.Run("cancelled before start", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, _, err := newPipeline(t).Transform(ctx, domain.VariantGeneral,
			sharedtest.SurveyDataset(t, domain.VariantGeneral), surveyRefs(t))
		testutil.AssertErrorType(t, err, operations.ErrorTypeCancellation)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("cancelled between steps", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		last := testutil.CreateSuccessfulStage("last", "Last")
		cancelling := testutil.NewStageBuilder("cancel", "Cancel").
			WithExecute(func(context.Context, *operations.RunState) error {
				cancel()
				return nil
			}).Build()

		p := newPipeline(t, operations.WithSteps(cancelling, last))
		_, _, err := p.Transform(ctx, domain.VariantGeneral,
			sharedtest.SurveyDataset(t, domain.VariantGeneral), surveyRefs(t))
		testutil.AssertErrorType(t, err, operations.ErrorTypeCancellation)
		assert.Equal(t, "last", operations.FailedStep(err))
		assert.Zero(t, last.GetExecuteCalls())
	})
}

func TestPipelineProgressEvents(t *testing.T) {
	reporter := &testutil.MockReporter{}
	p := newPipeline(t, operations.WithProgressReporter(reporter))

	_, _, err := p.Transform(context.Background(), domain.VariantGeneral,
		sharedtest.SurveyDataset(t, domain.VariantGeneral), surveyRefs(t))
	require.NoError(t, err)

	events := reporter.Events()
	require.Len(t, events, 10)
	assert.Equal(t, p.StepIDs(), reporter.StepIDs())
	for i, e := range events {
		assert.Equal(t, i+1, e.Index)
		assert.Equal(t, 10, e.Total)
		assert.NotEmpty(t, e.RunID)
	}
	assert.Equal(t, operations.StepStatusSkipped, events[0].Status)
	assert.Equal(t, operations.StepStatusSkipped, events[9].Status)
	assert.Equal(t, operations.StepStatusCompleted, events[8].Status)
	assert.Equal(t, 26, events[8].Columns)
}

func TestPipelineUsesContextRunID(t *testing.T) {
	ctx := infrastructure.WithRunID(context.Background(), "nightly-2026-10-15")

	_, report, err := newPipeline(t).Transform(ctx, domain.VariantGeneral,
		sharedtest.SurveyDataset(t, domain.VariantGeneral), surveyRefs(t))
	require.NoError(t, err)
	assert.Equal(t, "nightly-2026-10-15", report.RunID)
}

func TestNewPipelineErrors(t *testing.T) {
	_, err := operations.NewPipeline(operations.WithSteps(
		testutil.CreateSuccessfulStage("same", "A"),
		testutil.CreateSuccessfulStage("same", "B"),
	))
	assert.ErrorContains(t, err, "already registered")

	_, err = operations.NewPipeline(operations.WithSteps())
	assert.ErrorContains(t, err, "pipeline has no steps")
}

func TestPipelineTelemetry(t *testing.T) {
	var traces bytes.Buffer
	cfg := infrastructure.DefaultOTelConfig()
	cfg.EnableTracing = true
	cfg.TraceExporter = "stdout"
	cfg.TraceWriter = &traces

	providers, err := infrastructure.InitializeOTel(cfg, quietLogger())
	require.NoError(t, err)

	tracer, err := operations.NewRunTracerFromProviders(providers)
	require.NoError(t, err)

	p := newPipeline(t, operations.WithTracer(tracer))
	_, _, err = p.Transform(context.Background(), domain.VariantGeneral,
		sharedtest.SurveyDataset(t, domain.VariantGeneral), surveyRefs(t))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "surveyprep.prom")
	require.NoError(t, providers.WriteMetricsTextfile(path))
	require.NoError(t, providers.Shutdown(context.Background()))

	metrics, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `surveyprep_runs_total`)
	assert.Contains(t, string(metrics), `step="feature_engineering"`)
	assert.Contains(t, string(metrics), `reason="sparse"`)

	assert.Contains(t, traces.String(), "transform.general")
	assert.Contains(t, traces.String(), "step.impute")
}

func TestPipelineLogging(t *testing.T) {
	logger, handler := sharedtest.NewTestLogger(t)
	p := newPipeline(t, operations.WithLogger(logger))

	_, _, err := p.Transform(context.Background(), domain.VariantGeneral,
		sharedtest.SurveyDataset(t, domain.VariantGeneral), surveyRefs(t))
	require.NoError(t, err)

	sharedtest.AssertNoErrors(t, handler)
	sharedtest.AssertLogContains(t, handler, slog.LevelInfo, "run_complete")
	sharedtest.AssertLogAttr(t, handler, "component", "pipeline")

	collisions := handler.Find("listed more than once in missing-value reference")
	require.Len(t, collisions, 1)
	assert.Equal(t, slog.LevelWarn, collisions[0].Level)
	assert.Equal(t, operations.StepIDSentinels, collisions[0].Attr("step"))
	assert.Equal(t, "KKK", collisions[0].Attr("attribute"))

	for _, r := range handler.Find("stage_complete") {
		assert.NotEmpty(t, r.Attr("step"))
	}
}
