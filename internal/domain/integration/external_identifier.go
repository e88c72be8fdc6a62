package integration

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// ExternalIdentifier Entity
// ---------------------------------------------------------------------------

// InternalType names the kind of internal catalog entity a mapping points at
type InternalType string

const (
	InternalTypeColorway   InternalType = "colorway"
	InternalTypeBase       InternalType = "base"
	InternalTypeInventory  InternalType = "inventory"
	InternalTypeCollection InternalType = "collection"
)

// IsValid checks if the internal type is valid
func (t InternalType) IsValid() bool {
	switch t {
	case InternalTypeColorway, InternalTypeBase, InternalTypeInventory, InternalTypeCollection:
		return true
	}
	return false
}

// ExternalType names the kind of remote storefront entity a mapping points at
type ExternalType string

const (
	ExternalTypeProduct    ExternalType = "shopify_product"
	ExternalTypeVariant    ExternalType = "shopify_variant"
	ExternalTypeCollection ExternalType = "shopify_collection"
)

// IsValid checks if the external type is valid
func (t ExternalType) IsValid() bool {
	switch t {
	case ExternalTypeProduct, ExternalTypeVariant, ExternalTypeCollection:
		return true
	}
	return false
}

// ExternalIdentifier is the cross-reference between one remote storefront
// entity and one internal catalog entity. At most one record exists per
// (integration ID, external type, external ID) triple; that uniqueness is
// what makes repeated imports of the same remote entity idempotent.
//
// Records are created once, at the end of a successful import or push, and
// never mutated or deleted by the sync engine.
type ExternalIdentifier struct {
	// ID is the unique identifier of this mapping record
	ID uuid.UUID
	// IntegrationID scopes the mapping to one storefront integration
	IntegrationID uuid.UUID
	// InternalType is the kind of internal entity mapped
	InternalType InternalType
	// InternalID is the internal entity's ID
	InternalID uuid.UUID
	// ExternalType is the kind of remote entity mapped
	ExternalType ExternalType
	// ExternalID is the remote entity's ID (a GID string)
	ExternalID string
	// Data carries optional audit context, e.g. the remote handle
	Data map[string]string
	// CreatedAt is when this mapping was created
	CreatedAt time.Time
}

// NewExternalIdentifier creates a new mapping record
func NewExternalIdentifier(
	integrationID uuid.UUID,
	internalType InternalType,
	internalID uuid.UUID,
	externalType ExternalType,
	externalID string,
	data map[string]string,
) (*ExternalIdentifier, error) {
	if integrationID == uuid.Nil {
		return nil, errors.New("integration: invalid integration ID")
	}
	if !internalType.IsValid() {
		return nil, errors.New("integration: invalid internal type")
	}
	if internalID == uuid.Nil {
		return nil, errors.New("integration: invalid internal ID")
	}
	if !externalType.IsValid() {
		return nil, errors.New("integration: invalid external type")
	}
	if externalID == "" {
		return nil, errors.New("integration: invalid external ID")
	}

	return &ExternalIdentifier{
		ID:            uuid.New(),
		IntegrationID: integrationID,
		InternalType:  internalType,
		InternalID:    internalID,
		ExternalType:  externalType,
		ExternalID:    externalID,
		Data:          data,
		CreatedAt:     time.Now(),
	}, nil
}

// ---------------------------------------------------------------------------
// ExternalIdentifierRepository Interface
// ---------------------------------------------------------------------------

// ExternalIdentifierReader defines the interface for reading mapping records
type ExternalIdentifierReader interface {
	// FindByExternal finds the mapping for a remote entity.
	// Returns ErrMappingNotFound when no record matches.
	FindByExternal(ctx context.Context, integrationID uuid.UUID, externalType ExternalType, externalID string) (*ExternalIdentifier, error)

	// FindByInternal finds the mapping for an internal entity toward a given
	// external type. Returns ErrMappingNotFound when no record matches.
	FindByInternal(ctx context.Context, integrationID uuid.UUID, internalType InternalType, internalID uuid.UUID, externalType ExternalType) (*ExternalIdentifier, error)
}

// ExternalIdentifierWriter defines the interface for persisting mapping records
type ExternalIdentifierWriter interface {
	// Save inserts a mapping record. Returns ErrMappingConflict when a record
	// with the same (integration_id, external_type, external_id) exists.
	Save(ctx context.Context, identifier *ExternalIdentifier) error
}

// ExternalIdentifierRepository defines the full interface for mapping persistence
type ExternalIdentifierRepository interface {
	ExternalIdentifierReader
	ExternalIdentifierWriter
}
