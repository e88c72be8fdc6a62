package persistence

import (
	"context"
	"errors"

	"github.com/fibermade/backend/internal/domain/catalog"
	"github.com/fibermade/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInventoryRepository implements InventoryRepository using GORM
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewGormInventoryRepository creates a new GormInventoryRepository
func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// ---------------------------------------------------------------------------
// InventoryReader implementation
// ---------------------------------------------------------------------------

// FindByID finds an inventory row by its ID
func (r *GormInventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Inventory, error) {
	var model models.InventoryModel
	if err := r.db.WithContext(ctx).Preload("Base").First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrInventoryNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByColorway lists all inventory rows for a colorway with their bases
// preloaded
func (r *GormInventoryRepository) FindByColorway(ctx context.Context, colorwayID uuid.UUID) ([]catalog.Inventory, error) {
	var inventoryModels []models.InventoryModel
	if err := r.db.WithContext(ctx).
		Preload("Base").
		Where("colorway_id = ?", colorwayID).
		Order("created_at ASC").
		Find(&inventoryModels).Error; err != nil {
		return nil, err
	}

	inventories := make([]catalog.Inventory, len(inventoryModels))
	for i, model := range inventoryModels {
		inventories[i] = *model.ToDomain()
	}
	return inventories, nil
}

// ---------------------------------------------------------------------------
// InventoryWriter implementation
// ---------------------------------------------------------------------------

// Save creates or updates an inventory row
func (r *GormInventoryRepository) Save(ctx context.Context, inventory *catalog.Inventory) error {
	model := models.InventoryModelFromDomain(inventory)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormInventoryRepository implements InventoryRepository
var _ catalog.InventoryRepository = (*GormInventoryRepository)(nil)
