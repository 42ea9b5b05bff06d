package operations

import (
	"sync"
	"time"

	"surveyprep/internal/dataprocessing"
	"surveyprep/internal/dataset"
	"surveyprep/pkg/contracts/domain"
)

// RunStatus represents the overall run status
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// RunState is the working state threaded through the steps of one run.
// Steps run sequentially; the mutex guards the status fields read by
// progress reporters.
type RunState struct {
	mu sync.RWMutex

	ID        string
	Variant   domain.Variant
	Status    RunStatus
	StartTime time.Time
	EndTime   *time.Time

	// Data is the working table, owned by the run
	Data *dataset.Dataset
	Refs References
	Opts Options

	// Label is the extracted label column of a labeled run
	Label *dataset.Column
	// Sets is computed after feature engineering
	Sets *dataprocessing.AttributeSets

	Report *domain.TransformReport
	Steps  map[string]*StepState
	Error  error
}

// NewRunState creates a pending run over data
func NewRunState(id string, variant domain.Variant, data *dataset.Dataset, refs References, opts Options) *RunState {
	now := time.Now()
	return &RunState{
		ID:        id,
		Variant:   variant,
		Status:    RunStatusPending,
		StartTime: now,
		Data:      data,
		Refs:      refs,
		Opts:      opts,
		Report:    domain.NewTransformReport(id, variant, now),
		Steps:     make(map[string]*StepState),
	}
}

// Start marks the run as running
func (s *RunState) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status = RunStatusRunning
}

// Complete marks the run as completed
func (s *RunState) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.Status = RunStatusCompleted
}

// Fail marks the run as failed
func (s *RunState) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.Status = RunStatusFailed
	s.Error = err
}

// Cancel marks the run as cancelled
func (s *RunState) Cancel(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.Status = RunStatusCancelled
	s.Error = err
}

// GetStatus returns the run status
func (s *RunState) GetStatus() RunStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Status
}

// GetStep returns the state of a specific Step
func (s *RunState) GetStep(id string) *StepState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Steps[id]
}

// SetStep records the state of a specific Step
func (s *RunState) SetStep(id string, state *StepState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Steps[id] = state
}

// Duration returns the duration of the run
func (s *RunState) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.EndTime != nil {
		return s.EndTime.Sub(s.StartTime)
	}
	return time.Since(s.StartTime)
}

// FailedSteps returns the steps that failed
func (s *RunState) FailedSteps() []*StepState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var failed []*StepState
	for _, step := range s.Steps {
		if step.GetStatus() == StepStatusFailed {
			failed = append(failed, step)
		}
	}
	return failed
}
