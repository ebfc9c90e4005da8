// Package store persists integration run history and the loaded catalog.
// Two implementations exist: SQLite for local single-machine use and
// Postgres for a shared warehouse.
package store

import (
	"context"

	"github.com/KannedaVIII/books-pipeline/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for the integration pipeline.
type Store interface {
	// Runs
	CreateRun(ctx context.Context) (*model.IntegrationRun, error)
	CompleteRun(ctx context.Context, runID string, result *model.RunResult) error
	FailRun(ctx context.Context, runID string, errMsg string) error
	GetRun(ctx context.Context, runID string) (*model.IntegrationRun, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.IntegrationRun, error)

	// Catalog
	LoadCatalog(ctx context.Context, books []model.CanonicalBook, details []model.SourceDetailRow) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
