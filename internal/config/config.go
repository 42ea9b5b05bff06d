package config

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Pipeline  PipelineConfig  `yaml:"pipeline" envconfig:"PIPELINE"`
	Input     InputConfig     `yaml:"input" envconfig:"INPUT"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json console"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
	// AddSource adds file:line to every record
	AddSource bool `yaml:"add_source" envconfig:"ADD_SOURCE"`
}

// PipelineConfig tunes the cleaning steps
type PipelineConfig struct {
	SparsityThreshold float64  `yaml:"sparsity_threshold" envconfig:"SPARSITY_THRESHOLD" validate:"gte=0,lte=1"`
	CategoricalFill   float64  `yaml:"categorical_fill" envconfig:"CATEGORICAL_FILL"`
	LabelColumn       string   `yaml:"label_column" envconfig:"LABEL_COLUMN" validate:"required"`
	LegacyXAttribute  string   `yaml:"legacy_x_attribute" envconfig:"LEGACY_X_ATTRIBUTE" validate:"required"`
	CustomerColumns   []string `yaml:"customer_columns" envconfig:"CUSTOMER_COLUMNS" validate:"dive,required"`
	CustomerUnscaled  []string `yaml:"customer_unscaled" envconfig:"CUSTOMER_UNSCALED" validate:"dive,required"`
}

// InputConfig describes the raw extract and the reference workbook
type InputConfig struct {
	Delimiter     string `yaml:"delimiter" envconfig:"DELIMITER" validate:"required"`
	WorkbookSheet string `yaml:"workbook_sheet" envconfig:"WORKBOOK_SHEET" validate:"required"`
}

// OutputConfig describes where results go
type OutputConfig struct {
	Delimiter   string `yaml:"delimiter" envconfig:"DELIMITER" validate:"required"`
	ReportPath  string `yaml:"report_path" envconfig:"REPORT_PATH"`
	MetricsFile string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// TelemetryConfig controls tracing and metrics
type TelemetryConfig struct {
	Enabled        bool   `yaml:"enabled" envconfig:"ENABLED"`
	ServiceName    string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	TraceExporter  string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	MetricsEnabled bool   `yaml:"metrics_enabled" envconfig:"METRICS_ENABLED"`
}

// Load builds the configuration from defaults, an optional YAML file and the
// SURVEYPREP_* environment, in that order. An empty path searches the
// default locations; a missing default file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	file := path
	if file == "" {
		file = findConfigFile()
	}
	if file != "" {
		if err := loadFromFile(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFromFile overlays the YAML document onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.UnmarshalStrict(data, cfg)
}

// findConfigFile returns the first existing default location, or ""
func findConfigFile() string {
	for _, location := range ConfigFileLocations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Validate checks struct tags and the single-character delimiters
func (c *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return err
	}
	for name, d := range map[string]string{"input.delimiter": c.Input.Delimiter, "output.delimiter": c.Output.Delimiter} {
		if utf8.RuneCountInString(d) != 1 {
			return fmt.Errorf("%s must be a single character, got %q", name, d)
		}
	}
	return nil
}

// InputDelimiter returns the raw extract separator as a rune
func (c *Config) InputDelimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.Input.Delimiter)
	return r
}

// OutputDelimiter returns the output separator as a rune
func (c *Config) OutputDelimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.Output.Delimiter)
	return r
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Pipeline: PipelineConfig{
			SparsityThreshold: DefaultSparsityThreshold,
			CategoricalFill:   0,
			LabelColumn:       DefaultLabelColumn,
			LegacyXAttribute:  DefaultLegacyXAttribute,
			CustomerColumns:   append([]string(nil), DefaultCustomerColumns...),
			CustomerUnscaled:  append([]string(nil), DefaultCustomerUnscaled...),
		},
		Input: InputConfig{
			Delimiter:     DefaultInputDelimiter,
			WorkbookSheet: DefaultWorkbookSheet,
		},
		Output: OutputConfig{
			Delimiter: DefaultOutputDelimiter,
		},
		Telemetry: TelemetryConfig{
			Enabled:        false,
			ServiceName:    AppName,
			TraceExporter:  "none",
			MetricsEnabled: true,
		},
	}
}
