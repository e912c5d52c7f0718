package operations

import (
	"sync"

	"taxicli/internal/cleaning"
	"taxicli/internal/config"
	"taxicli/internal/exporter"
	"taxicli/internal/files"
	"taxicli/pkg/contracts/domain"
)

// PipelineStatus represents the overall status of a pipeline run
type PipelineStatus string

const (
	PipelineStatusPending   PipelineStatus = "pending"
	PipelineStatusRunning   PipelineStatus = "running"
	PipelineStatusCompleted PipelineStatus = "completed"
	PipelineStatusFailed    PipelineStatus = "failed"
)

// PipelineState is the shared state passed through the pipeline steps.
// Each step reads the artifacts of earlier steps and writes its own.
type PipelineState struct {
	mu sync.RWMutex

	// RunID identifies this pipeline run, matches Summary.RunID
	RunID string

	// Config and Paths are set before the run starts
	Config *config.Config
	Paths  *config.Paths

	// Months limits the run to specific "2006-01" months; empty means
	// every discovered file
	Months []string

	// Files is produced by the discover step
	Files []files.TripFile

	// Raw is the concatenated parsed table, produced by the parse step
	Raw cleaning.Table

	// Cleaned is the table after cancellation and outlier removal
	Cleaned cleaning.Table

	// Report is the zone analytics report, produced by the analytics step
	Report *exporter.ZoneReport

	// Summary accumulates row counts and timings across steps
	Summary *domain.CleanSummary

	status PipelineStatus
	steps  map[string]*StepState
}

// NewPipelineState creates the state for one pipeline run
func NewPipelineState(cfg *config.Config, paths *config.Paths, months []string) *PipelineState {
	summary := domain.NewCleanSummary()
	return &PipelineState{
		RunID:   summary.RunID,
		Config:  cfg,
		Paths:   paths,
		Months:  months,
		Summary: summary,
		status:  PipelineStatusPending,
		steps:   make(map[string]*StepState),
	}
}

// SetStatus updates the overall pipeline status
func (s *PipelineState) SetStatus(status PipelineStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// GetStatus returns the overall pipeline status
func (s *PipelineState) GetStatus() PipelineStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// StepState returns the tracked state for a step, creating it on first
// access.
func (s *PipelineState) StepState(id, name string) *StepState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.steps[id]; ok {
		return st
	}
	st := NewStepState(id, name)
	s.steps[id] = st
	return st
}

// StepStates returns a snapshot of all tracked step states
func (s *PipelineState) StepStates() []*StepState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*StepState, 0, len(s.steps))
	for _, st := range s.steps {
		out = append(out, st)
	}
	return out
}
