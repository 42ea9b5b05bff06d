// Package operations runs the survey transform: an ordered list of steps that
// turn a raw extract into a model-ready table.
//
// Core Components:
//
// Pipeline: The orchestrator. It clones the caller's dataset, threads a
// RunState through the registered steps in order and returns the cleaned
// table with a TransformReport. A failed or cancelled run returns no table.
//
// Step: A single unit of work. Steps that only apply to some dataset
// variants also implement ConditionalStep and are marked skipped otherwise.
//
// Registry: Holds the steps of a pipeline in registration order.
//
// State: RunState and StepState track the run and each step, including
// timings and errors. Progress events are delivered to a ProgressReporter.
//
// The default steps, in order:
//
//	variant_adjust         drop customer-only columns, or set the label aside
//	sentinel_substitution  drop undocumented columns, blank sentinel codes
//	legacy_x_fix           resolve the literal "X" code
//	sparsity_filter        drop columns with too many gaps
//	action_drop            drop columns the type-action table flags
//	feature_engineering    recode legacy attributes, classify columns
//	impute                 fill gaps per attribute class
//	expand                 one-hot encode categorical columns
//	scale                  min-max scale numeric and binary columns
//	reattach_label         append the label of a labeled extract
//
// Example usage:
//
//	p, err := operations.NewPipeline(
//		operations.WithOptions(operations.OptionsFromConfig(cfg.Pipeline)),
//		operations.WithTracer(tracer),
//	)
//	if err != nil {
//		return err
//	}
//	out, report, err := p.Transform(ctx, domain.VariantGeneral, data, refs)
package operations
