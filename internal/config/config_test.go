package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "surveyprep.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "console", cfg.Logging.Output)
	assert.Equal(t, 0.30, cfg.Pipeline.SparsityThreshold)
	assert.Equal(t, "RESPONSE", cfg.Pipeline.LabelColumn)
	assert.Equal(t, "CAMEO_DEUG_2015", cfg.Pipeline.LegacyXAttribute)
	assert.Equal(t, []string{"CUSTOMER_GROUP", "ONLINE_PURCHASE", "PRODUCT_GROUP"}, cfg.Pipeline.CustomerColumns)
	assert.Equal(t, []string{"KKK", "REGIOTYP"}, cfg.Pipeline.CustomerUnscaled)
	assert.Equal(t, ';', cfg.InputDelimiter())
	assert.Equal(t, ',', cfg.OutputDelimiter())
	assert.False(t, cfg.Telemetry.Enabled)
	require.NoError(t, cfg.Validate())

	// defaults are not shared between calls
	cfg.Pipeline.CustomerUnscaled[0] = "changed"
	assert.Equal(t, "KKK", Default().Pipeline.CustomerUnscaled[0])
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		env         map[string]string
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults only",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, Default(), cfg)
			},
		},
		{
			name: "file overrides defaults",
			file: `
logging:
  level: debug
pipeline:
  sparsity_threshold: 0.25
  customer_unscaled: [KKK]
output:
  delimiter: ";"
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, 0.25, cfg.Pipeline.SparsityThreshold)
				assert.Equal(t, []string{"KKK"}, cfg.Pipeline.CustomerUnscaled)
				assert.Equal(t, ';', cfg.OutputDelimiter())
				assert.Equal(t, "RESPONSE", cfg.Pipeline.LabelColumn)
			},
		},
		{
			name: "env overrides file",
			file: "logging:\n  level: debug\n",
			env: map[string]string{
				"SURVEYPREP_LOGGING_LEVEL":               "warn",
				"SURVEYPREP_PIPELINE_SPARSITY_THRESHOLD": "0.5",
				"SURVEYPREP_PIPELINE_CUSTOMER_UNSCALED":  "KKK,REGIOTYP,ANZ_HAUSHALTE_AKTIV",
				"SURVEYPREP_TELEMETRY_ENABLED":           "true",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "warn", cfg.Logging.Level)
				assert.Equal(t, 0.5, cfg.Pipeline.SparsityThreshold)
				assert.Equal(t, []string{"KKK", "REGIOTYP", "ANZ_HAUSHALTE_AKTIV"}, cfg.Pipeline.CustomerUnscaled)
				assert.True(t, cfg.Telemetry.Enabled)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeConfig(t, tt.file)
			}

			cfg, err := Load(path)
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		env  map[string]string
	}{
		{name: "unknown key", file: "server:\n  port: 8080\n"},
		{name: "malformed yaml", file: "logging: [\n"},
		{name: "threshold out of range", file: "pipeline:\n  sparsity_threshold: 1.5\n"},
		{name: "bad log level", env: map[string]string{"SURVEYPREP_LOGGING_LEVEL": "loud"}},
		{name: "file output without path", file: "logging:\n  output: file\n  file_path: \"\"\n"},
		{name: "multi character delimiter", file: "input:\n  delimiter: \";;\"\n"},
		{name: "bad env number", env: map[string]string{"SURVEYPREP_PIPELINE_CATEGORICAL_FILL": "zero"}},
		{name: "unknown trace exporter", file: "telemetry:\n  trace_exporter: jaeger\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeConfig(t, tt.file)
			}

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
