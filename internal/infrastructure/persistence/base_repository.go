package persistence

import (
	"context"
	"errors"

	"github.com/fibermade/backend/internal/domain/catalog"
	"github.com/fibermade/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBaseRepository implements BaseRepository using GORM
type GormBaseRepository struct {
	db *gorm.DB
}

// NewGormBaseRepository creates a new GormBaseRepository
func NewGormBaseRepository(db *gorm.DB) *GormBaseRepository {
	return &GormBaseRepository{db: db}
}

// ---------------------------------------------------------------------------
// BaseReader implementation
// ---------------------------------------------------------------------------

// FindByID finds a base by its ID
func (r *GormBaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Base, error) {
	var model models.BaseModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrBaseNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists bases matching the filter
func (r *GormBaseRepository) FindAll(ctx context.Context, filter catalog.BaseFilter) ([]catalog.Base, error) {
	var baseModels []models.BaseModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.BaseModel{}), filter).
		Order("descriptor ASC")

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	if err := query.Find(&baseModels).Error; err != nil {
		return nil, err
	}

	bases := make([]catalog.Base, len(baseModels))
	for i, model := range baseModels {
		bases[i] = *model.ToDomain()
	}
	return bases, nil
}

// Count counts bases matching the filter
func (r *GormBaseRepository) Count(ctx context.Context, filter catalog.BaseFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.BaseModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormBaseRepository) applyFilter(query *gorm.DB, filter catalog.BaseFilter) *gorm.DB {
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return query
}

// ---------------------------------------------------------------------------
// BaseWriter implementation
// ---------------------------------------------------------------------------

// Save creates or updates a base
func (r *GormBaseRepository) Save(ctx context.Context, base *catalog.Base) error {
	model := models.BaseModelFromDomain(base)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormBaseRepository implements BaseRepository
var _ catalog.BaseRepository = (*GormBaseRepository)(nil)
