package persistence

import (
	"context"

	"github.com/fibermade/backend/internal/domain/integration"
	"github.com/fibermade/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormIntegrationLogRepository implements IntegrationLogRepository using GORM
type GormIntegrationLogRepository struct {
	db *gorm.DB
}

// NewGormIntegrationLogRepository creates a new GormIntegrationLogRepository
func NewGormIntegrationLogRepository(db *gorm.DB) *GormIntegrationLogRepository {
	return &GormIntegrationLogRepository{db: db}
}

// Save appends a log entry
func (r *GormIntegrationLogRepository) Save(ctx context.Context, log *integration.IntegrationLog) error {
	model := models.IntegrationLogModelFromDomain(log)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindAll lists log entries for an integration, newest first
func (r *GormIntegrationLogRepository) FindAll(ctx context.Context, integrationID uuid.UUID, filter integration.IntegrationLogFilter) ([]integration.IntegrationLog, error) {
	var logModels []models.IntegrationLogModel
	query := r.db.WithContext(ctx).
		Model(&models.IntegrationLogModel{}).
		Where("integration_id = ?", integrationID).
		Order("created_at DESC")

	query = r.applyFilter(query, filter)

	if err := query.Find(&logModels).Error; err != nil {
		return nil, err
	}

	logs := make([]integration.IntegrationLog, len(logModels))
	for i, model := range logModels {
		logs[i] = *model.ToDomain()
	}
	return logs, nil
}

func (r *GormIntegrationLogRepository) applyFilter(query *gorm.DB, filter integration.IntegrationLogFilter) *gorm.DB {
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.LoggableType != "" {
		query = query.Where("loggable_type = ?", filter.LoggableType)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	return query
}

// Ensure GormIntegrationLogRepository implements IntegrationLogRepository
var _ integration.IntegrationLogRepository = (*GormIntegrationLogRepository)(nil)
