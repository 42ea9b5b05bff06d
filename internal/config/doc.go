// Package config provides layered configuration for surveyprep.
//
// Values are resolved in this order, later layers winning:
//
//  1. Default()
//  2. a YAML file (surveyprep.yaml or configs/surveyprep.yaml, or an explicit path)
//  3. SURVEYPREP_* environment variables
//
// Command line flags are applied on top by the CLI. The result is checked with
// validator struct tags.
//
// Example environment overrides:
//
//	SURVEYPREP_LOGGING_LEVEL=debug
//	SURVEYPREP_PIPELINE_SPARSITY_THRESHOLD=0.25
//	SURVEYPREP_PIPELINE_CUSTOMER_UNSCALED=KKK,REGIOTYP
//	SURVEYPREP_TELEMETRY_ENABLED=true
package config
