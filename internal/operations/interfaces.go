package operations

import "time"

// StepEvent describes a step boundary of a run
type StepEvent struct {
	RunID    string
	StepID   string
	StepName string
	// Index is the 1-based position of the step; Total the number of steps
	Index  int
	Total  int
	Status StepStatus
	// Columns is the working column count after the step
	Columns  int
	Duration time.Duration
	Err      error
}

// ProgressReporter receives step events. Reporters are called synchronously
// from the run goroutine and must not block.
type ProgressReporter interface {
	ReportProgress(event StepEvent)
}

// ProgressFunc adapts a function to ProgressReporter
type ProgressFunc func(StepEvent)

// ReportProgress calls f(event)
func (f ProgressFunc) ReportProgress(event StepEvent) {
	f(event)
}
