package persistence

import (
	"context"
	"errors"

	"github.com/fibermade/backend/internal/domain/bulk"
	"github.com/fibermade/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSyncRunRepository implements SyncRunRepository using GORM
type GormSyncRunRepository struct {
	db *gorm.DB
}

// NewGormSyncRunRepository creates a new GormSyncRunRepository
func NewGormSyncRunRepository(db *gorm.DB) *GormSyncRunRepository {
	return &GormSyncRunRepository{db: db}
}

// Save creates or updates a run. The bulk import service calls this after
// every processed page, so the write must land even mid-run.
func (r *GormSyncRunRepository) Save(ctx context.Context, run *bulk.SyncRun) error {
	model := models.SyncRunModelFromDomain(run)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByID finds a run by its ID
func (r *GormSyncRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*bulk.SyncRun, error) {
	var model models.SyncRunModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bulk.ErrRunNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindLatest returns the most recently created run for an integration, or
// nil when none exists
func (r *GormSyncRunRepository) FindLatest(ctx context.Context, integrationID uuid.UUID) (*bulk.SyncRun, error) {
	var model models.SyncRunModel
	if err := r.db.WithContext(ctx).
		Where("integration_id = ?", integrationID).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists runs for an integration, newest first
func (r *GormSyncRunRepository) FindAll(ctx context.Context, integrationID uuid.UUID, limit int) ([]bulk.SyncRun, error) {
	var runModels []models.SyncRunModel
	query := r.db.WithContext(ctx).
		Where("integration_id = ?", integrationID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&runModels).Error; err != nil {
		return nil, err
	}

	runs := make([]bulk.SyncRun, len(runModels))
	for i, model := range runModels {
		runs[i] = *model.ToDomain()
	}
	return runs, nil
}

// Ensure GormSyncRunRepository implements SyncRunRepository
var _ bulk.SyncRunRepository = (*GormSyncRunRepository)(nil)
