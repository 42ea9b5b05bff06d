package domain

import (
	"time"
)

// DropReason tells why a column left the working table
type DropReason string

const (
	DropReasonVariant      DropReason = "variant"
	DropReasonUndocumented DropReason = "undocumented"
	DropReasonSparse       DropReason = "sparse"
	DropReasonAction       DropReason = "action"
	DropReasonEngineered   DropReason = "engineered"
	DropReasonExpanded     DropReason = "expanded"
)

// DroppedColumn records a column removed during a run
type DroppedColumn struct {
	Name   string     `json:"name" validate:"required"`
	Reason DropReason `json:"reason" validate:"required"`
	// MissingRatio is only set for sparse drops
	MissingRatio float64 `json:"missing_ratio,omitempty"`
}

// ReferenceCollision records an attribute that appears more than once in the
// missing-value reference. The first row is the one in effect.
type ReferenceCollision struct {
	Attribute string   `json:"attribute"`
	Rows      int      `json:"rows"`
	Used      []string `json:"used"`
	Ignored   []string `json:"ignored"`
}

// Shape is a rows x columns pair
type Shape struct {
	Rows    int `json:"rows" validate:"gte=0"`
	Columns int `json:"columns" validate:"gte=0"`
}

// StepTiming records how long a pipeline step took
type StepTiming struct {
	Step     string        `json:"step"`
	Duration time.Duration `json:"duration_ns"`
	Columns  int           `json:"columns_after"`
}

// TransformReport summarizes one transform run
type TransformReport struct {
	RunID       string    `json:"run_id" validate:"required"`
	Variant     Variant   `json:"variant" validate:"required,oneof=general customer labeled"`
	StartedAt   time.Time `json:"started_at" validate:"required"`
	CompletedAt time.Time `json:"completed_at"`
	InputShape  Shape     `json:"input_shape"`
	OutputShape Shape     `json:"output_shape"`

	Dropped    []DroppedColumn      `json:"dropped" validate:"dive"`
	Collisions []ReferenceCollision `json:"collisions,omitempty"`

	// Imputed counts filled cells per class
	Imputed map[AttributeClass]int `json:"imputed"`
	// Indicators counts indicator columns produced per expanded attribute
	Indicators map[string]int `json:"indicators"`
	Scaled     []string       `json:"scaled"`
	Steps      []StepTiming   `json:"steps"`
}

// NewTransformReport creates an empty report for a run
func NewTransformReport(runID string, variant Variant, started time.Time) *TransformReport {
	return &TransformReport{
		RunID:      runID,
		Variant:    variant,
		StartedAt:  started,
		Dropped:    make([]DroppedColumn, 0),
		Imputed:    make(map[AttributeClass]int),
		Indicators: make(map[string]int),
		Scaled:     make([]string, 0),
		Steps:      make([]StepTiming, 0),
	}
}

// AddDropped appends dropped columns with a shared reason
func (r *TransformReport) AddDropped(reason DropReason, names ...string) {
	for _, name := range names {
		r.Dropped = append(r.Dropped, DroppedColumn{Name: name, Reason: reason})
	}
}

// DroppedBy returns the names of columns dropped for the given reason
func (r *TransformReport) DroppedBy(reason DropReason) []string {
	var names []string
	for _, d := range r.Dropped {
		if d.Reason == reason {
			names = append(names, d.Name)
		}
	}
	return names
}

// Duration returns the wall time of the run
func (r *TransformReport) Duration() time.Duration {
	if r.CompletedAt.IsZero() {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}
