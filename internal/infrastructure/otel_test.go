package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyprep/internal/config"
	"surveyprep/pkg/contracts/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestOTelInitialization tests the default provider set
func TestOTelInitialization(t *testing.T) {
	providers, err := InitializeOTel(nil, discardLogger())
	require.NoError(t, err)
	require.NotNil(t, providers)

	assert.Nil(t, providers.TracerProvider, "tracing is off by default")
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.Registry)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, providers.Shutdown(ctx))
}

func TestOTelDisabled(t *testing.T) {
	cfg := DefaultOTelConfig()
	cfg.EnableMetrics = false

	providers, err := InitializeOTel(cfg, discardLogger())
	require.NoError(t, err)

	// noop instruments still work
	metrics, err := CreatePipelineMetrics(providers.Meter)
	require.NoError(t, err)
	metrics.RecordStep(context.Background(), domain.VariantGeneral, "impute", time.Millisecond, nil)

	_, span := providers.Tracer.Start(context.Background(), "noop")
	assert.False(t, span.IsRecording())
	span.End()

	err = providers.WriteMetricsTextfile(filepath.Join(t.TempDir(), "run.prom"))
	assert.Error(t, err)
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestStdoutTracing(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultOTelConfig()
	cfg.EnableTracing = true
	cfg.TraceExporter = "stdout"
	cfg.TraceWriter = &buf

	providers, err := InitializeOTel(cfg, discardLogger())
	require.NoError(t, err)
	require.NotNil(t, providers.TracerProvider)

	ctx, span := providers.Tracer.Start(context.Background(), "transform")
	assert.NotEmpty(t, TraceIDFromContext(ctx))
	RecordError(ctx, errors.New("boom"))
	span.End()

	require.NoError(t, providers.Shutdown(context.Background()))
	assert.Contains(t, buf.String(), `"Name": "transform"`)
	assert.Contains(t, buf.String(), "boom")
}

func TestUnsupportedTraceExporter(t *testing.T) {
	cfg := DefaultOTelConfig()
	cfg.EnableTracing = true
	cfg.TraceExporter = "jaeger"

	_, err := InitializeOTel(cfg, discardLogger())
	assert.Error(t, err)
}

func TestOTelConfigFrom(t *testing.T) {
	tests := []struct {
		name        string
		telemetry   config.TelemetryConfig
		wantTracing bool
		wantMetrics bool
	}{
		{
			name:        "defaults",
			telemetry:   config.Default().Telemetry,
			wantTracing: false,
			wantMetrics: true,
		},
		{
			name:        "stdout tracing",
			telemetry:   config.TelemetryConfig{Enabled: true, ServiceName: "svc", TraceExporter: "stdout"},
			wantTracing: true,
			wantMetrics: false,
		},
		{
			name:        "enabled without exporter",
			telemetry:   config.TelemetryConfig{Enabled: true, TraceExporter: "none", MetricsEnabled: true},
			wantTracing: false,
			wantMetrics: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := OTelConfigFrom(tt.telemetry)
			assert.Equal(t, tt.wantTracing, cfg.EnableTracing)
			assert.Equal(t, tt.wantMetrics, cfg.EnableMetrics)
			assert.NotEmpty(t, cfg.ServiceName)
		})
	}
}

func TestPipelineMetricsTextfile(t *testing.T) {
	providers, err := InitializeOTel(DefaultOTelConfig(), discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreatePipelineMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	report := domain.NewTransformReport(GenerateRunID(), domain.VariantGeneral, time.Now())
	report.InputShape = domain.Shape{Rows: 6, Columns: 14}
	report.AddDropped(domain.DropReasonUndocumented, "LNR")
	report.AddDropped(domain.DropReasonAction, "EINGEFUEGT_AM")
	report.Imputed[domain.ClassNumeric] = 4
	report.Indicators["MOVEMENT"] = 3

	metrics.RecordStep(ctx, domain.VariantGeneral, "impute", 5*time.Millisecond, nil)
	metrics.RecordStep(ctx, domain.VariantGeneral, "scale", time.Millisecond, errors.New("failed"))
	metrics.RecordRun(ctx, domain.VariantGeneral, 20*time.Millisecond, report, nil)

	path := filepath.Join(t.TempDir(), "run.prom")
	require.NoError(t, providers.WriteMetricsTextfile(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)

	assert.Contains(t, text, "surveyprep_runs_total")
	assert.Contains(t, text, "surveyprep_rows_processed_total")
	assert.Contains(t, text, `reason="undocumented"`)
	assert.Contains(t, text, `class="numeric"`)
	assert.Contains(t, text, "surveyprep_indicator_columns_total")
	assert.Contains(t, text, "surveyprep_step_errors_total")
	assert.Contains(t, text, `step="scale"`)
	assert.Contains(t, text, `variant="general"`)
}

func TestPipelineMetrics_NilSafe(t *testing.T) {
	var m *PipelineMetrics
	m.RecordStep(context.Background(), domain.VariantGeneral, "impute", time.Second, nil)
	m.RecordRun(context.Background(), domain.VariantGeneral, time.Second, nil, nil)
}
