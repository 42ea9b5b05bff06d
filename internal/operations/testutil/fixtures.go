package testutil

import (
	"context"
	"time"

	"surveyprep/internal/operations"
)

// CreateSuccessfulStage creates a step that always succeeds
func CreateSuccessfulStage(id, name string) *MockStage {
	return &MockStage{
		IDValue:   id,
		NameValue: name,
	}
}

// CreateFailingStage creates a step whose Execute returns err
func CreateFailingStage(id, name string, err error) *MockStage {
	return &MockStage{
		IDValue:   id,
		NameValue: name,
		ExecuteFunc: func(ctx context.Context, state *operations.RunState) error {
			return err
		},
	}
}

// CreateValidationFailingStage creates a step whose Validate returns err
func CreateValidationFailingStage(id, name string, err error) *MockStage {
	return &MockStage{
		IDValue:   id,
		NameValue: name,
		ValidateFunc: func(state *operations.RunState) error {
			return err
		},
	}
}

// CreateSlowStage creates a step that sleeps, honouring cancellation
func CreateSlowStage(id, name string, d time.Duration) *MockStage {
	return &MockStage{
		IDValue:   id,
		NameValue: name,
		ExecuteFunc: func(ctx context.Context, state *operations.RunState) error {
			select {
			case <-time.After(d):
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	}
}

// StageBuilder builds mock steps fluently
type StageBuilder struct {
	stage *MockStage
}

// NewStageBuilder starts a mock step
func NewStageBuilder(id, name string) *StageBuilder {
	return &StageBuilder{stage: &MockStage{IDValue: id, NameValue: name}}
}

// WithExecute sets the Execute behaviour
func (b *StageBuilder) WithExecute(fn func(context.Context, *operations.RunState) error) *StageBuilder {
	b.stage.ExecuteFunc = fn
	return b
}

// WithValidate sets the Validate behaviour
func (b *StageBuilder) WithValidate(fn func(*operations.RunState) error) *StageBuilder {
	b.stage.ValidateFunc = fn
	return b
}

// Build returns the step
func (b *StageBuilder) Build() *MockStage {
	return b.stage
}
