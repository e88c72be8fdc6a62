package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/fibermade/backend/internal/domain/catalog"
	"github.com/fibermade/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCollectionRepository implements CollectionRepository using GORM
type GormCollectionRepository struct {
	db *gorm.DB
}

// NewGormCollectionRepository creates a new GormCollectionRepository
func NewGormCollectionRepository(db *gorm.DB) *GormCollectionRepository {
	return &GormCollectionRepository{db: db}
}

// ---------------------------------------------------------------------------
// CollectionReader implementation
// ---------------------------------------------------------------------------

// FindByID finds a collection by its ID, with its member colorway IDs loaded
func (r *GormCollectionRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Collection, error) {
	var model models.CollectionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrCollectionNotFound
		}
		return nil, err
	}

	collection := model.ToDomain()

	var members []models.CollectionColorwayModel
	if err := r.db.WithContext(ctx).
		Where("collection_id = ?", id).
		Order("created_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	for _, member := range members {
		collection.ColorwayIDs = append(collection.ColorwayIDs, member.ColorwayID)
	}

	return collection, nil
}

// ---------------------------------------------------------------------------
// CollectionWriter implementation
// ---------------------------------------------------------------------------

// Save creates or updates a collection
func (r *GormCollectionRepository) Save(ctx context.Context, collection *catalog.Collection) error {
	model := models.CollectionModelFromDomain(collection)
	return r.db.WithContext(ctx).Save(model).Error
}

// ReplaceColorways replaces the collection's member set with the given
// colorway IDs. An empty slice clears the membership.
func (r *GormCollectionRepository) ReplaceColorways(ctx context.Context, collectionID uuid.UUID, colorwayIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("collection_id = ?", collectionID).
			Delete(&models.CollectionColorwayModel{}).Error; err != nil {
			return err
		}

		if len(colorwayIDs) == 0 {
			return nil
		}

		now := time.Now()
		members := make([]models.CollectionColorwayModel, len(colorwayIDs))
		for i, colorwayID := range colorwayIDs {
			members[i] = models.CollectionColorwayModel{
				CollectionID: collectionID,
				ColorwayID:   colorwayID,
				CreatedAt:    now,
			}
		}
		return tx.Create(&members).Error
	})
}

// Ensure GormCollectionRepository implements CollectionRepository
var _ catalog.CollectionRepository = (*GormCollectionRepository)(nil)
