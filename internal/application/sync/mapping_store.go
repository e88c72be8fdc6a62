package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/fibermade/backend/internal/domain/integration"
)

// ---------------------------------------------------------------------------
// MappingStore
// ---------------------------------------------------------------------------

// MappingStore is the sync engine's view of the external-identifier records
// for one integration. Every import and push decision starts here: a remote
// entity is imported at most once, and the mapping record is the proof.
//
// Every failure is returned with the operation name and all lookup keys in
// the message. A mapping failure means the idempotency guarantee may be
// compromised, so it must be diagnosable from the error alone.
type MappingStore struct {
	integrationID uuid.UUID
	api           integration.CatalogAPI
}

// NewMappingStore creates a mapping store scoped to one integration
func NewMappingStore(integrationID uuid.UUID, api integration.CatalogAPI) *MappingStore {
	return &MappingStore{
		integrationID: integrationID,
		api:           api,
	}
}

// IntegrationID returns the integration this store is scoped to
func (s *MappingStore) IntegrationID() uuid.UUID {
	return s.integrationID
}

// FindByExternalID returns the mapping for a remote entity, or nil when the
// entity has not been imported
func (s *MappingStore) FindByExternalID(ctx context.Context, externalType integration.ExternalType, externalID string) (*integration.ExternalIdentifier, error) {
	rec, err := s.api.FindExternalIdentifier(ctx, s.integrationID, externalType, externalID)
	if err != nil {
		if errors.Is(err, integration.ErrMappingNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("mapping lookup by external ID failed (integration=%s external_type=%s external_id=%s): %w",
			s.integrationID, externalType, externalID, err)
	}
	return rec, nil
}

// FindByInternalID returns the external ID mapped to an internal entity, or
// empty when no mapping exists. Used for reverse lookups before a push.
func (s *MappingStore) FindByInternalID(ctx context.Context, internalType integration.InternalType, internalID uuid.UUID, externalType integration.ExternalType) (string, error) {
	rec, err := s.api.FindExternalIdentifierByInternal(ctx, s.integrationID, internalType, internalID, externalType)
	if err != nil {
		if errors.Is(err, integration.ErrMappingNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("mapping lookup by internal ID failed (integration=%s internal_type=%s internal_id=%s external_type=%s): %w",
			s.integrationID, internalType, internalID, externalType, err)
	}
	return rec.ExternalID, nil
}

// Exists reports whether a remote entity is already mapped
func (s *MappingStore) Exists(ctx context.Context, externalType integration.ExternalType, externalID string) (bool, error) {
	rec, err := s.FindByExternalID(ctx, externalType, externalID)
	if err != nil {
		return false, err
	}
	return rec != nil, nil
}

// Create persists a new mapping record. Callers are expected to have checked
// Exists first; a uniqueness violation surfaces as ErrMappingConflict.
func (s *MappingStore) Create(
	ctx context.Context,
	internalType integration.InternalType,
	internalID uuid.UUID,
	externalType integration.ExternalType,
	externalID string,
	data map[string]string,
) (*integration.ExternalIdentifier, error) {
	rec, err := integration.NewExternalIdentifier(s.integrationID, internalType, internalID, externalType, externalID, data)
	if err != nil {
		return nil, fmt.Errorf("mapping create failed (integration=%s internal_type=%s internal_id=%s external_type=%s external_id=%s): %w",
			s.integrationID, internalType, internalID, externalType, externalID, err)
	}
	if err := s.api.CreateExternalIdentifier(ctx, rec); err != nil {
		return nil, fmt.Errorf("mapping create failed (integration=%s internal_type=%s internal_id=%s external_type=%s external_id=%s): %w",
			s.integrationID, internalType, internalID, externalType, externalID, err)
	}
	return rec, nil
}
