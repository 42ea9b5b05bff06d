package operations

import (
	"context"
	"fmt"
	"log/slog"

	"surveyprep/internal/dataprocessing"
	apperrors "surveyprep/internal/errors"
	"surveyprep/pkg/contracts/domain"
)

// ConditionalStep is implemented by steps that only apply to some runs.
// A step whose CanRun reports false is marked skipped.
type ConditionalStep interface {
	CanRun(state *RunState) bool
}

// DefaultSteps returns the transform steps in execution order
func DefaultSteps(logger *slog.Logger) []Step {
	return []Step{
		NewVariantAdjustStage(logger),
		NewSentinelStage(logger),
		NewLegacyXStage(logger),
		NewSparsityStage(logger),
		NewActionDropStage(logger),
		NewEngineeringStage(logger),
		NewImputeStage(logger),
		NewExpandStage(logger),
		NewScaleStage(logger),
		NewReattachLabelStage(logger),
	}
}

func stepLogger(logger *slog.Logger, id string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With(slog.String("step", id))
}

// VariantAdjustStage removes the columns particular to a dataset variant:
// the customer-only columns, or the label of a labeled extract
type VariantAdjustStage struct {
	BaseStage
	logger *slog.Logger
}

// NewVariantAdjustStage creates the variant adjustment step
func NewVariantAdjustStage(logger *slog.Logger) *VariantAdjustStage {
	return &VariantAdjustStage{
		BaseStage: NewBaseStage(StepIDVariantAdjust, StepNameVariantAdjust),
		logger:    stepLogger(logger, StepIDVariantAdjust),
	}
}

// CanRun is false for the general population variant
func (s *VariantAdjustStage) CanRun(state *RunState) bool {
	return state.Variant != domain.VariantGeneral
}

// Execute drops the variant's extra columns
func (s *VariantAdjustStage) Execute(ctx context.Context, state *RunState) error {
	switch state.Variant {
	case domain.VariantCustomer:
		var missing []string
		for _, name := range state.Opts.CustomerColumns {
			if !state.Data.Has(name) {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			return apperrors.NewInvalidInputError("customer extract lacks its customer-only columns").
				WithContext("columns", missing)
		}
		dropped := state.Data.Drop(state.Opts.CustomerColumns...)
		state.Report.AddDropped(domain.DropReasonVariant, dropped...)
		s.logger.InfoContext(ctx, "customer columns dropped", slog.Any("columns", dropped))

	case domain.VariantLabeled:
		label, ok := state.Data.Extract(state.Opts.LabelColumn)
		if !ok {
			return apperrors.NewInvalidInputError(fmt.Sprintf("labeled extract has no %s column", state.Opts.LabelColumn)).
				WithContext("column", state.Opts.LabelColumn)
		}
		state.Label = label
		s.logger.InfoContext(ctx, "label column set aside", slog.String("column", label.Name()))
	}
	return nil
}

// SentinelStage drops undocumented columns and blanks sentinel codes
type SentinelStage struct {
	BaseStage
	logger *slog.Logger
}

// NewSentinelStage creates the sentinel substitution step
func NewSentinelStage(logger *slog.Logger) *SentinelStage {
	return &SentinelStage{
		BaseStage: NewBaseStage(StepIDSentinels, StepNameSentinels),
		logger:    stepLogger(logger, StepIDSentinels),
	}
}

// Validate requires the missing-value reference
func (s *SentinelStage) Validate(state *RunState) error {
	if err := s.BaseStage.Validate(state); err != nil {
		return err
	}
	if state.Refs.MissingValues == nil {
		return NewValidationError(s.ID(), "missing-value reference not loaded", nil)
	}
	return nil
}

// Execute substitutes sentinels
func (s *SentinelStage) Execute(ctx context.Context, state *RunState) error {
	refs := state.Refs.MissingValues

	state.Report.Collisions = refs.Collisions()
	for _, c := range state.Report.Collisions {
		s.logger.WarnContext(ctx, "attribute listed more than once in missing-value reference",
			slog.String("attribute", c.Attribute),
			slog.Int("rows", c.Rows),
			slog.Any("used", c.Used),
			slog.Any("ignored", c.Ignored))
	}

	res := dataprocessing.SubstituteSentinels(state.Data, refs)
	state.Report.AddDropped(domain.DropReasonUndocumented, res.Undocumented...)
	if len(res.Undocumented) > 0 {
		s.logger.InfoContext(ctx, "undocumented columns dropped",
			slog.Int("count", len(res.Undocumented)),
			slog.Any("columns", res.Undocumented))
	}

	cells := 0
	for _, n := range res.Substituted {
		cells += n
	}
	s.logger.DebugContext(ctx, "sentinel cells blanked",
		slog.Int("cells", cells),
		slog.Int("columns", len(res.Substituted)))
	return nil
}

// LegacyXStage resolves the literal "X" unknown code
type LegacyXStage struct {
	BaseStage
	logger *slog.Logger
}

// NewLegacyXStage creates the legacy X fix step
func NewLegacyXStage(logger *slog.Logger) *LegacyXStage {
	return &LegacyXStage{
		BaseStage: NewBaseStage(StepIDLegacyX, StepNameLegacyX),
		logger:    stepLogger(logger, StepIDLegacyX),
	}
}

// Execute fixes the legacy attribute if it is present
func (s *LegacyXStage) Execute(ctx context.Context, state *RunState) error {
	attr := state.Opts.LegacyXAttribute
	fixed, err := dataprocessing.FixLegacyX(state.Data, attr)
	if err != nil {
		return err
	}
	if !fixed {
		s.logger.InfoContext(ctx, "legacy attribute not present, nothing to fix", slog.String("attribute", attr))
	}
	return nil
}

// SparsityStage drops columns with too many gaps
type SparsityStage struct {
	BaseStage
	logger *slog.Logger
}

// NewSparsityStage creates the sparsity filter step
func NewSparsityStage(logger *slog.Logger) *SparsityStage {
	return &SparsityStage{
		BaseStage: NewBaseStage(StepIDSparsity, StepNameSparsity),
		logger:    stepLogger(logger, StepIDSparsity),
	}
}

// Execute drops sparse columns
func (s *SparsityStage) Execute(ctx context.Context, state *RunState) error {
	dropped := dataprocessing.DropSparseColumns(state.Data, state.Opts.SparsityThreshold)
	state.Report.Dropped = append(state.Report.Dropped, dropped...)
	for _, d := range dropped {
		s.logger.InfoContext(ctx, "sparse column dropped",
			slog.String("column", d.Name),
			slog.Float64("missing_ratio", d.MissingRatio))
	}
	return nil
}

// ActionDropStage drops the columns the type-action table flags
type ActionDropStage struct {
	BaseStage
	logger *slog.Logger
}

// NewActionDropStage creates the action drop step
func NewActionDropStage(logger *slog.Logger) *ActionDropStage {
	return &ActionDropStage{
		BaseStage: NewBaseStage(StepIDActionDrop, StepNameActionDrop),
		logger:    stepLogger(logger, StepIDActionDrop),
	}
}

// Validate requires the type-action table
func (s *ActionDropStage) Validate(state *RunState) error {
	if err := s.BaseStage.Validate(state); err != nil {
		return err
	}
	if state.Refs.TypeActions == nil {
		return NewValidationError(s.ID(), "type-action table not loaded", nil)
	}
	return nil
}

// Execute drops flagged columns
func (s *ActionDropStage) Execute(ctx context.Context, state *RunState) error {
	if dups := state.Refs.TypeActions.Duplicates(); len(dups) > 0 {
		s.logger.WarnContext(ctx, "attributes listed more than once in type-action table, first row used",
			slog.Any("attributes", dups))
	}

	dropped := dataprocessing.DropByAction(state.Data, state.Refs.TypeActions)
	state.Report.AddDropped(domain.DropReasonAction, dropped...)
	s.logger.DebugContext(ctx, "flagged columns dropped", slog.Any("columns", dropped))
	return nil
}

// EngineeringStage recodes the legacy attributes and then classifies the
// working columns for the remaining steps
type EngineeringStage struct {
	BaseStage
	logger *slog.Logger
}

// NewEngineeringStage creates the feature engineering step
func NewEngineeringStage(logger *slog.Logger) *EngineeringStage {
	return &EngineeringStage{
		BaseStage: NewBaseStage(StepIDEngineering, StepNameEngineering),
		logger:    stepLogger(logger, StepIDEngineering),
	}
}

// Validate requires the type-action table
func (s *EngineeringStage) Validate(state *RunState) error {
	if err := s.BaseStage.Validate(state); err != nil {
		return err
	}
	if state.Refs.TypeActions == nil {
		return NewValidationError(s.ID(), "type-action table not loaded", nil)
	}
	return nil
}

// Execute applies the recodings and computes the attribute sets
func (s *EngineeringStage) Execute(ctx context.Context, state *RunState) error {
	res, err := dataprocessing.EngineerFeatures(state.Data, state.Opts.Recodings)
	if err != nil {
		return err
	}
	state.Report.AddDropped(domain.DropReasonEngineered, res.Retired...)
	s.logger.InfoContext(ctx, "legacy attributes recoded",
		slog.Any("added", res.Added),
		slog.Any("recoded", res.Recoded),
		slog.Any("retired", res.Retired))

	sets := dataprocessing.ClassifyAttributes(state.Data, state.Refs.TypeActions,
		dataprocessing.EngineeredCategorical, dataprocessing.EngineeredBinary)
	state.Sets = &sets

	if len(sets.Unclassified) > 0 {
		s.logger.WarnContext(ctx, "columns missing from type-action table treated as numeric",
			slog.Any("columns", sets.Unclassified))
	}
	s.logger.DebugContext(ctx, "attribute sets computed",
		slog.Int("categorical", len(sets.Categorical)),
		slog.Int("binary", len(sets.Binary)),
		slog.Int("numeric", len(sets.Numeric)))
	return nil
}

// setsRequired is the Validate of the steps that consume the attribute sets
func setsRequired(b *BaseStage, state *RunState) error {
	if err := b.Validate(state); err != nil {
		return err
	}
	if state.Sets == nil {
		return NewValidationError(b.ID(), "attribute sets not computed", nil)
	}
	return nil
}

// ImputeStage fills the remaining gaps
type ImputeStage struct {
	BaseStage
	logger *slog.Logger
}

// NewImputeStage creates the imputation step
func NewImputeStage(logger *slog.Logger) *ImputeStage {
	return &ImputeStage{
		BaseStage: NewBaseStage(StepIDImpute, StepNameImpute),
		logger:    stepLogger(logger, StepIDImpute),
	}
}

// Validate requires the attribute sets
func (s *ImputeStage) Validate(state *RunState) error {
	return setsRequired(&s.BaseStage, state)
}

// Execute imputes per attribute class
func (s *ImputeStage) Execute(ctx context.Context, state *RunState) error {
	res, err := dataprocessing.Impute(state.Data, *state.Sets, state.Opts.CategoricalFill)
	if err != nil {
		return err
	}
	for class, n := range res.Filled {
		state.Report.Imputed[class] += n
	}
	s.logger.InfoContext(ctx, "missing cells imputed",
		slog.Int("categorical", res.Filled[domain.ClassCategorical]),
		slog.Int("binary", res.Filled[domain.ClassBinary]),
		slog.Int("numeric", res.Filled[domain.ClassNumeric]))
	return nil
}

// ExpandStage one-hot encodes the categorical class
type ExpandStage struct {
	BaseStage
	logger *slog.Logger
}

// NewExpandStage creates the categorical expansion step
func NewExpandStage(logger *slog.Logger) *ExpandStage {
	return &ExpandStage{
		BaseStage: NewBaseStage(StepIDExpand, StepNameExpand),
		logger:    stepLogger(logger, StepIDExpand),
	}
}

// Validate requires the attribute sets
func (s *ExpandStage) Validate(state *RunState) error {
	return setsRequired(&s.BaseStage, state)
}

// Execute replaces categorical columns with indicators
func (s *ExpandStage) Execute(ctx context.Context, state *RunState) error {
	counts, err := dataprocessing.ExpandCategorical(state.Data, state.Sets.Categorical)
	if err != nil {
		return err
	}

	total := 0
	for _, name := range state.Sets.Categorical {
		n, ok := counts[name]
		if !ok {
			continue
		}
		state.Report.Indicators[name] = n
		state.Report.AddDropped(domain.DropReasonExpanded, name)
		total += n
	}
	s.logger.InfoContext(ctx, "categorical columns expanded",
		slog.Int("columns", len(counts)),
		slog.Int("indicators", total))
	return nil
}

// ScaleStage rescales the numeric and declared binary columns onto [0,1]
type ScaleStage struct {
	BaseStage
	logger *slog.Logger
}

// NewScaleStage creates the min-max scaling step
func NewScaleStage(logger *slog.Logger) *ScaleStage {
	return &ScaleStage{
		BaseStage: NewBaseStage(StepIDScale, StepNameScale),
		logger:    stepLogger(logger, StepIDScale),
	}
}

// Validate requires the attribute sets
func (s *ScaleStage) Validate(state *RunState) error {
	return setsRequired(&s.BaseStage, state)
}

// Execute scales the target columns
func (s *ScaleStage) Execute(ctx context.Context, state *RunState) error {
	var exclude []string
	if state.Variant == domain.VariantCustomer {
		exclude = state.Opts.CustomerUnscaled
	}

	scaled, err := dataprocessing.MinMaxScale(state.Data, state.Sets.ScaleTargets(exclude))
	if err != nil {
		return err
	}
	state.Report.Scaled = append(state.Report.Scaled, scaled...)
	s.logger.InfoContext(ctx, "columns scaled",
		slog.Int("columns", len(scaled)),
		slog.Any("unscaled", exclude))
	return nil
}

// ReattachLabelStage appends the label of a labeled extract, unchanged
type ReattachLabelStage struct {
	BaseStage
	logger *slog.Logger
}

// NewReattachLabelStage creates the label reattachment step
func NewReattachLabelStage(logger *slog.Logger) *ReattachLabelStage {
	return &ReattachLabelStage{
		BaseStage: NewBaseStage(StepIDReattachLabel, StepNameReattachLabel),
		logger:    stepLogger(logger, StepIDReattachLabel),
	}
}

// CanRun is true only for the labeled variant
func (s *ReattachLabelStage) CanRun(state *RunState) bool {
	return state.Variant == domain.VariantLabeled
}

// Validate requires the extracted label
func (s *ReattachLabelStage) Validate(state *RunState) error {
	if err := s.BaseStage.Validate(state); err != nil {
		return err
	}
	if state.Label == nil {
		return NewValidationError(s.ID(), "no label column was set aside", nil)
	}
	return nil
}

// Execute appends the label as the last column
func (s *ReattachLabelStage) Execute(ctx context.Context, state *RunState) error {
	if err := state.Data.Append(state.Label); err != nil {
		return apperrors.NewInvalidInputError(fmt.Sprintf("cannot reattach label: %v", err)).
			WithContext("column", state.Label.Name())
	}
	s.logger.DebugContext(ctx, "label column reattached", slog.String("column", state.Label.Name()))
	return nil
}
