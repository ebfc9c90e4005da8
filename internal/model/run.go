package model

import "time"

// RunStatus represents the state of an integration run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// IntegrationRun records one execution of the integration pipeline for the
// run-history store.
type IntegrationRun struct {
	ID        string     `json:"id"`
	Status    RunStatus  `json:"status"`
	Result    *RunResult `json:"result,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// RunResult summarizes the outcome of a completed integration run.
type RunResult struct {
	GoodreadsCount   int            `json:"goodreads_count"`
	GoogleBooksCount int            `json:"googlebooks_count"`
	CanonicalCount   int            `json:"canonical_count"`
	DetailCount      int            `json:"detail_count"`
	DuplicateGroups  int            `json:"duplicate_groups"`
	Report           *QualityReport `json:"report,omitempty"`
	Error            string         `json:"error,omitempty"`
}
