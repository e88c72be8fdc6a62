package models

import (
	"encoding/json"
	"time"

	"github.com/fibermade/backend/internal/domain/integration"
	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// ExternalIdentifier
// ---------------------------------------------------------------------------

// ExternalIdentifierModel is the persistence model for the ExternalIdentifier
// domain entity. The unique index on (integration_id, external_type,
// external_id) is what enforces one mapping per remote entity.
type ExternalIdentifierModel struct {
	ID            uuid.UUID                `gorm:"type:uuid;primary_key"`
	IntegrationID uuid.UUID                `gorm:"type:uuid;not null;uniqueIndex:idx_external_identifier_lookup,priority:1;index:idx_external_identifier_internal,priority:1"`
	InternalType  integration.InternalType `gorm:"type:varchar(20);not null;index:idx_external_identifier_internal,priority:2"`
	InternalID    uuid.UUID                `gorm:"type:uuid;not null;index:idx_external_identifier_internal,priority:3"`
	ExternalType  integration.ExternalType `gorm:"type:varchar(30);not null;uniqueIndex:idx_external_identifier_lookup,priority:2;index:idx_external_identifier_internal,priority:4"`
	ExternalID    string                   `gorm:"type:varchar(255);not null;uniqueIndex:idx_external_identifier_lookup,priority:3"`
	DataJSON      string                   `gorm:"type:jsonb;column:data"`
	CreatedAt     time.Time                `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ExternalIdentifierModel) TableName() string {
	return "external_identifiers"
}

// ToDomain converts the persistence model to a domain ExternalIdentifier entity.
func (m *ExternalIdentifierModel) ToDomain() *integration.ExternalIdentifier {
	identifier := &integration.ExternalIdentifier{
		ID:            m.ID,
		IntegrationID: m.IntegrationID,
		InternalType:  m.InternalType,
		InternalID:    m.InternalID,
		ExternalType:  m.ExternalType,
		ExternalID:    m.ExternalID,
		CreatedAt:     m.CreatedAt,
	}

	if m.DataJSON != "" {
		var data map[string]string
		if err := json.Unmarshal([]byte(m.DataJSON), &data); err == nil {
			identifier.Data = data
		}
	}

	return identifier
}

// FromDomain populates the persistence model from a domain ExternalIdentifier entity.
func (m *ExternalIdentifierModel) FromDomain(id *integration.ExternalIdentifier) {
	m.ID = id.ID
	m.IntegrationID = id.IntegrationID
	m.InternalType = id.InternalType
	m.InternalID = id.InternalID
	m.ExternalType = id.ExternalType
	m.ExternalID = id.ExternalID
	m.CreatedAt = id.CreatedAt

	if len(id.Data) > 0 {
		if jsonBytes, err := json.Marshal(id.Data); err == nil {
			m.DataJSON = string(jsonBytes)
		}
	} else {
		m.DataJSON = "{}"
	}
}

// ExternalIdentifierModelFromDomain creates a new persistence model from a domain ExternalIdentifier entity.
func ExternalIdentifierModelFromDomain(id *integration.ExternalIdentifier) *ExternalIdentifierModel {
	m := &ExternalIdentifierModel{}
	m.FromDomain(id)
	return m
}

// ---------------------------------------------------------------------------
// IntegrationLog
// ---------------------------------------------------------------------------

// IntegrationLogModel is the persistence model for the IntegrationLog domain entity.
type IntegrationLogModel struct {
	ID            uuid.UUID             `gorm:"type:uuid;primary_key"`
	IntegrationID uuid.UUID             `gorm:"type:uuid;not null;index:idx_integration_log_integration,priority:1"`
	LoggableType  string                `gorm:"type:varchar(50);not null;index:idx_integration_log_loggable,priority:1"`
	LoggableID    string                `gorm:"type:varchar(255);index:idx_integration_log_loggable,priority:2"`
	Status        integration.LogStatus `gorm:"type:varchar(20);not null;index:idx_integration_log_status"`
	Message       string                `gorm:"type:text"`
	MetadataJSON  string                `gorm:"type:jsonb;column:metadata"`
	SyncedAt      time.Time             `gorm:"not null"`
	CreatedAt     time.Time             `gorm:"not null;index:idx_integration_log_created"`
}

// TableName returns the table name for GORM
func (IntegrationLogModel) TableName() string {
	return "integration_logs"
}

// ToDomain converts the persistence model to a domain IntegrationLog entity.
func (m *IntegrationLogModel) ToDomain() *integration.IntegrationLog {
	entry := &integration.IntegrationLog{
		ID:            m.ID,
		IntegrationID: m.IntegrationID,
		LoggableType:  m.LoggableType,
		LoggableID:    m.LoggableID,
		Status:        m.Status,
		Message:       m.Message,
		SyncedAt:      m.SyncedAt,
		CreatedAt:     m.CreatedAt,
	}

	if m.MetadataJSON != "" {
		var metadata map[string]any
		if err := json.Unmarshal([]byte(m.MetadataJSON), &metadata); err == nil {
			entry.Metadata = metadata
		}
	}

	return entry
}

// FromDomain populates the persistence model from a domain IntegrationLog entity.
func (m *IntegrationLogModel) FromDomain(entry *integration.IntegrationLog) {
	m.ID = entry.ID
	m.IntegrationID = entry.IntegrationID
	m.LoggableType = entry.LoggableType
	m.LoggableID = entry.LoggableID
	m.Status = entry.Status
	m.Message = entry.Message
	m.SyncedAt = entry.SyncedAt
	m.CreatedAt = entry.CreatedAt

	if len(entry.Metadata) > 0 {
		if jsonBytes, err := json.Marshal(entry.Metadata); err == nil {
			m.MetadataJSON = string(jsonBytes)
		}
	} else {
		m.MetadataJSON = "{}"
	}
}

// IntegrationLogModelFromDomain creates a new persistence model from a domain IntegrationLog entity.
func IntegrationLogModelFromDomain(entry *integration.IntegrationLog) *IntegrationLogModel {
	m := &IntegrationLogModel{}
	m.FromDomain(entry)
	return m
}
