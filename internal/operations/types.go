package operations

import (
	"surveyprep/internal/config"
	"surveyprep/internal/dataprocessing"
	"surveyprep/internal/reference"
)

// Step identifiers, in execution order
const (
	StepIDVariantAdjust = "variant_adjust"
	StepIDSentinels     = "sentinel_substitution"
	StepIDLegacyX       = "legacy_x_fix"
	StepIDSparsity      = "sparsity_filter"
	StepIDActionDrop    = "action_drop"
	StepIDEngineering   = "feature_engineering"
	StepIDImpute        = "impute"
	StepIDExpand        = "expand"
	StepIDScale         = "scale"
	StepIDReattachLabel = "reattach_label"
)

// Step names
const (
	StepNameVariantAdjust = "Variant Adjustment"
	StepNameSentinels     = "Sentinel Substitution"
	StepNameLegacyX       = "Legacy X Fix"
	StepNameSparsity      = "Sparsity Filter"
	StepNameActionDrop    = "Action Drop"
	StepNameEngineering   = "Feature Engineering"
	StepNameImpute        = "Imputation"
	StepNameExpand        = "Categorical Expansion"
	StepNameScale         = "Min-Max Scaling"
	StepNameReattachLabel = "Label Reattachment"
)

// References bundles the two rule tables a run is driven by
type References struct {
	MissingValues *reference.MissingValues
	TypeActions   *reference.TypeActions
}

// Options tunes a pipeline
type Options struct {
	SparsityThreshold float64
	CategoricalFill   float64
	LabelColumn       string
	LegacyXAttribute  string
	// CustomerColumns must be present in, and are removed from, the customer extract
	CustomerColumns []string
	// CustomerUnscaled keep their imputed raw values in the customer extract
	CustomerUnscaled []string
	// Recodings drive feature engineering
	Recodings []dataprocessing.Recoding
}

// DefaultOptions returns the options of the default configuration
func DefaultOptions() Options {
	return OptionsFromConfig(config.Default().Pipeline)
}

// OptionsFromConfig maps the pipeline section of the application config
func OptionsFromConfig(cfg config.PipelineConfig) Options {
	return Options{
		SparsityThreshold: cfg.SparsityThreshold,
		CategoricalFill:   cfg.CategoricalFill,
		LabelColumn:       cfg.LabelColumn,
		LegacyXAttribute:  cfg.LegacyXAttribute,
		CustomerColumns:   append([]string(nil), cfg.CustomerColumns...),
		CustomerUnscaled:  append([]string(nil), cfg.CustomerUnscaled...),
		Recodings:         dataprocessing.LegacyRecodings,
	}
}
