package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/fibermade/backend/internal/domain/integration"
	"github.com/fibermade/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormExternalIdentifierRepository implements ExternalIdentifierRepository using GORM
type GormExternalIdentifierRepository struct {
	db *gorm.DB
}

// NewGormExternalIdentifierRepository creates a new GormExternalIdentifierRepository
func NewGormExternalIdentifierRepository(db *gorm.DB) *GormExternalIdentifierRepository {
	return &GormExternalIdentifierRepository{db: db}
}

// ---------------------------------------------------------------------------
// ExternalIdentifierReader implementation
// ---------------------------------------------------------------------------

// FindByExternal finds the mapping for a remote entity
func (r *GormExternalIdentifierRepository) FindByExternal(ctx context.Context, integrationID uuid.UUID, externalType integration.ExternalType, externalID string) (*integration.ExternalIdentifier, error) {
	var model models.ExternalIdentifierModel
	if err := r.db.WithContext(ctx).
		Where("integration_id = ? AND external_type = ? AND external_id = ?", integrationID, externalType, externalID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, integration.ErrMappingNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByInternal finds the mapping for an internal entity toward a given
// external type
func (r *GormExternalIdentifierRepository) FindByInternal(ctx context.Context, integrationID uuid.UUID, internalType integration.InternalType, internalID uuid.UUID, externalType integration.ExternalType) (*integration.ExternalIdentifier, error) {
	var model models.ExternalIdentifierModel
	if err := r.db.WithContext(ctx).
		Where("integration_id = ? AND internal_type = ? AND internal_id = ? AND external_type = ?",
			integrationID, internalType, internalID, externalType).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, integration.ErrMappingNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ---------------------------------------------------------------------------
// ExternalIdentifierWriter implementation
// ---------------------------------------------------------------------------

// Save inserts a mapping record. The unique index on (integration_id,
// external_type, external_id) turns a second insert for the same remote
// entity into ErrMappingConflict.
func (r *GormExternalIdentifierRepository) Save(ctx context.Context, identifier *integration.ExternalIdentifier) error {
	model := models.ExternalIdentifierModelFromDomain(identifier)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isDuplicateKeyError(err) {
			return integration.ErrMappingConflict
		}
		return err
	}
	return nil
}

// isDuplicateKeyError reports whether err is a unique constraint violation.
// GORM only translates these when TranslateError is enabled, so the postgres
// SQLSTATE and message are checked as well.
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 23505") || strings.Contains(msg, "duplicate key")
}

// Ensure GormExternalIdentifierRepository implements ExternalIdentifierRepository
var _ integration.ExternalIdentifierRepository = (*GormExternalIdentifierRepository)(nil)
