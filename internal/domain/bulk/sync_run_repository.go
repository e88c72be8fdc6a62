package bulk

import (
	"context"

	"github.com/google/uuid"
)

// SyncRunRepository defines the interface for sync run persistence
type SyncRunRepository interface {
	// Save creates or updates a run. The bulk import service calls this
	// after every processed page, it is the run's durability checkpoint.
	Save(ctx context.Context, run *SyncRun) error

	// FindByID finds a run by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*SyncRun, error)

	// FindLatest returns the most recently created run for an integration,
	// or nil when none exists
	FindLatest(ctx context.Context, integrationID uuid.UUID) (*SyncRun, error)

	// FindAll lists runs for an integration, newest first
	FindAll(ctx context.Context, integrationID uuid.UUID, limit int) ([]SyncRun, error)
}
