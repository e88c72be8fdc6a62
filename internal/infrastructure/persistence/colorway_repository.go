package persistence

import (
	"context"
	"errors"

	"github.com/fibermade/backend/internal/domain/catalog"
	"github.com/fibermade/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormColorwayRepository implements ColorwayRepository using GORM
type GormColorwayRepository struct {
	db *gorm.DB
}

// NewGormColorwayRepository creates a new GormColorwayRepository
func NewGormColorwayRepository(db *gorm.DB) *GormColorwayRepository {
	return &GormColorwayRepository{db: db}
}

// ---------------------------------------------------------------------------
// ColorwayReader implementation
// ---------------------------------------------------------------------------

// FindByID finds a colorway by its ID
func (r *GormColorwayRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Colorway, error) {
	var model models.ColorwayModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrColorwayNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDWithInventories finds a colorway with its inventory rows and their
// bases preloaded
func (r *GormColorwayRepository) FindByIDWithInventories(ctx context.Context, id uuid.UUID) (*catalog.Colorway, error) {
	var model models.ColorwayModel
	if err := r.db.WithContext(ctx).
		Preload("Inventories.Base").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrColorwayNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ---------------------------------------------------------------------------
// ColorwayWriter implementation
// ---------------------------------------------------------------------------

// Save creates or updates a colorway
func (r *GormColorwayRepository) Save(ctx context.Context, colorway *catalog.Colorway) error {
	model := models.ColorwayModelFromDomain(colorway)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormColorwayRepository implements ColorwayRepository
var _ catalog.ColorwayRepository = (*GormColorwayRepository)(nil)
