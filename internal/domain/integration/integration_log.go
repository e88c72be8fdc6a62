package integration

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// IntegrationLog Entity
// ---------------------------------------------------------------------------

// LogStatus is the outcome of one sync attempt
type LogStatus string

const (
	LogStatusSuccess LogStatus = "success"
	LogStatusWarning LogStatus = "warning"
	LogStatusError   LogStatus = "error"
)

// IsValid checks if the status is valid
func (s LogStatus) IsValid() bool {
	switch s {
	case LogStatusSuccess, LogStatusWarning, LogStatusError:
		return true
	}
	return false
}

// IntegrationLog is an append-only audit record of one sync attempt. The
// webhook surface always acknowledges deliveries, so these records are the
// only place business-level sync failures become visible.
type IntegrationLog struct {
	// ID is the unique identifier of this log entry
	ID uuid.UUID
	// IntegrationID scopes the entry to one storefront integration
	IntegrationID uuid.UUID
	// LoggableType is the kind of entity the attempt concerned
	LoggableType string
	// LoggableID is that entity's ID, when known
	LoggableID string
	// Status is the attempt outcome
	Status LogStatus
	// Message is a human-readable summary
	Message string
	// Metadata carries structured context for the attempt
	Metadata map[string]any
	// SyncedAt is when the attempt finished
	SyncedAt time.Time
	// CreatedAt is when this entry was written
	CreatedAt time.Time
}

// NewIntegrationLog creates a new log entry stamped with the current time
func NewIntegrationLog(
	integrationID uuid.UUID,
	loggableType, loggableID string,
	status LogStatus,
	message string,
	metadata map[string]any,
) (*IntegrationLog, error) {
	if !status.IsValid() {
		return nil, ErrLogInvalidStatus
	}

	now := time.Now()
	return &IntegrationLog{
		ID:            uuid.New(),
		IntegrationID: integrationID,
		LoggableType:  loggableType,
		LoggableID:    loggableID,
		Status:        status,
		Message:       message,
		Metadata:      metadata,
		SyncedAt:      now,
		CreatedAt:     now,
	}, nil
}

// ---------------------------------------------------------------------------
// IntegrationLogRepository Interface
// ---------------------------------------------------------------------------

// IntegrationLogFilter defines filter criteria for listing log entries
type IntegrationLogFilter struct {
	// Status filters by outcome (optional)
	Status *LogStatus
	// LoggableType filters by entity kind (optional)
	LoggableType string
	// Page number (1-indexed)
	Page int
	// Page size
	PageSize int
}

// IntegrationLogRepository defines the interface for log persistence
type IntegrationLogRepository interface {
	// Save appends a log entry
	Save(ctx context.Context, log *IntegrationLog) error

	// FindAll lists log entries for an integration, newest first
	FindAll(ctx context.Context, integrationID uuid.UUID, filter IntegrationLogFilter) ([]IntegrationLog, error)
}
