package models

import (
	"time"

	"github.com/fibermade/backend/internal/domain/bulk"
	"github.com/google/uuid"
)

// SyncRunModel is the persistence model for the SyncRun domain aggregate.
type SyncRunModel struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key"`
	IntegrationID uuid.UUID      `gorm:"type:uuid;not null;index:idx_sync_run_integration,priority:1"`
	Status        bulk.RunStatus `gorm:"type:varchar(20);not null;default:'pending';index:idx_sync_run_status"`
	Total         int            `gorm:"not null;default:0"`
	Imported      int            `gorm:"not null;default:0"`
	Failed        int            `gorm:"not null;default:0"`
	ErrorsJSON    string         `gorm:"type:jsonb;column:errors"`
	LastCursor    string         `gorm:"type:varchar(255)"`
	StartedAt     *time.Time
	CompletedAt   *time.Time
	CreatedAt     time.Time `gorm:"not null;index:idx_sync_run_created"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SyncRunModel) TableName() string {
	return "sync_runs"
}

// ToDomain converts the persistence model to a domain SyncRun aggregate.
func (m *SyncRunModel) ToDomain() *bulk.SyncRun {
	run := &bulk.SyncRun{
		ID:            m.ID,
		IntegrationID: m.IntegrationID,
		Status:        m.Status,
		Total:         m.Total,
		Imported:      m.Imported,
		Failed:        m.Failed,
		Errors:        make([]bulk.RunError, 0),
		LastCursor:    m.LastCursor,
		StartedAt:     m.StartedAt,
		CompletedAt:   m.CompletedAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}

	// Malformed blobs leave the error list empty rather than failing the load
	_ = run.SetErrorsFromJSON(m.ErrorsJSON)

	return run
}

// FromDomain populates the persistence model from a domain SyncRun aggregate.
func (m *SyncRunModel) FromDomain(run *bulk.SyncRun) {
	m.ID = run.ID
	m.IntegrationID = run.IntegrationID
	m.Status = run.Status
	m.Total = run.Total
	m.Imported = run.Imported
	m.Failed = run.Failed
	m.LastCursor = run.LastCursor
	m.StartedAt = run.StartedAt
	m.CompletedAt = run.CompletedAt
	m.CreatedAt = run.CreatedAt
	m.UpdatedAt = run.UpdatedAt

	if errsJSON, err := run.ErrorsJSON(); err == nil {
		m.ErrorsJSON = errsJSON
	} else {
		m.ErrorsJSON = "[]"
	}
}

// SyncRunModelFromDomain creates a new persistence model from a domain SyncRun aggregate.
func SyncRunModelFromDomain(run *bulk.SyncRun) *SyncRunModel {
	m := &SyncRunModel{}
	m.FromDomain(run)
	return m
}
