package operations

import (
	"sync"
	"time"
)

// ProgressTracker counts finished steps of a run
type ProgressTracker struct {
	Total     int
	Current   int
	StartTime time.Time
	mu        sync.Mutex
}

// NewProgressTracker creates a new progress tracker
func NewProgressTracker(total int) *ProgressTracker {
	return &ProgressTracker{
		Total:     total,
		StartTime: time.Now(),
	}
}

// Increment advances the tracker by one step and returns the new position
func (p *ProgressTracker) Increment() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Current++
	return p.Current
}

// Percentage returns the completed share in [0,100]
func (p *ProgressTracker) Percentage() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Total == 0 {
		return 0
	}
	return float64(p.Current) / float64(p.Total) * 100
}

// ETA estimates the time left from the mean step duration so far
func (p *ProgressTracker) ETA() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Current == 0 || p.Current >= p.Total {
		return 0
	}
	perStep := time.Since(p.StartTime) / time.Duration(p.Current)
	return perStep * time.Duration(p.Total-p.Current)
}

// IsComplete returns true once every step has been counted
func (p *ProgressTracker) IsComplete() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.Current >= p.Total
}
