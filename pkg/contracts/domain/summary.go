package domain

import (
	"time"

	"github.com/google/uuid"
)

// CleanSummary describes one cleaning run over a set of monthly trip
// files: how many rows came in, what each stage removed, and where the
// outputs went.
type CleanSummary struct {
	RunID           string                   `json:"run_id" validate:"required,uuid"`
	StartedAt       time.Time                `json:"started_at"`
	FinishedAt      time.Time                `json:"finished_at"`
	Duration        time.Duration            `json:"duration"`
	SourceFiles     []string                 `json:"source_files"`
	InputRows       int                      `json:"input_rows"`
	SuspectRows     int                      `json:"suspect_rows"`
	PaymentCounts   map[string]int           `json:"payment_counts,omitempty"`
	CancelledPairs  int                      `json:"cancelled_pairs"`
	PairRowsRemoved int                      `json:"pair_rows_removed"`
	NegativeFares   int                      `json:"negative_fares_removed"`
	OutlierRows     int                      `json:"outlier_rows_removed"`
	NonPositiveRows int                      `json:"non_positive_rows_removed"`
	TipOutlierRows  int                      `json:"tip_outlier_rows_removed,omitempty"`
	OutputRows      int                      `json:"output_rows"`
	OutputFile      string                   `json:"output_file,omitempty"`
	ReportFile      string                   `json:"report_file,omitempty"`
	StageDurations  map[string]time.Duration `json:"stage_durations,omitempty"`
}

// NewCleanSummary creates a summary with a fresh run id and start time
func NewCleanSummary() *CleanSummary {
	return &CleanSummary{
		RunID:          uuid.New().String(),
		StartedAt:      time.Now(),
		StageDurations: make(map[string]time.Duration),
	}
}

// Finish stamps the end time and computes the total duration
func (s *CleanSummary) Finish() {
	s.FinishedAt = time.Now()
	s.Duration = s.FinishedAt.Sub(s.StartedAt)
}

// RowsRemoved returns the total number of rows dropped across all stages
func (s *CleanSummary) RowsRemoved() int {
	return s.PairRowsRemoved + s.NegativeFares + s.OutlierRows + s.NonPositiveRows + s.TipOutlierRows
}

// IsValid checks if the summary is internally consistent
func (s *CleanSummary) IsValid() bool {
	return s.RunID != "" && s.InputRows >= 0 &&
		s.OutputRows >= 0 && s.OutputRows <= s.InputRows
}
