package sync

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fibermade/backend/internal/domain/integration"
)

// auditor writes integration log entries for the sync services. Audit writes
// are themselves best effort: a failure to record an attempt must not fail
// the attempt, so problems surface only through the process log.
type auditor struct {
	integrationID uuid.UUID
	api           integration.CatalogAPI
	logger        *zap.Logger
}

func newAuditor(integrationID uuid.UUID, api integration.CatalogAPI, logger *zap.Logger) *auditor {
	return &auditor{
		integrationID: integrationID,
		api:           api,
		logger:        logger,
	}
}

func (a *auditor) record(ctx context.Context, loggableType, loggableID string, status integration.LogStatus, message string, metadata map[string]any) {
	entry, err := integration.NewIntegrationLog(a.integrationID, loggableType, loggableID, status, message, metadata)
	if err != nil {
		a.logger.Error("Failed to build integration log", zap.Error(err))
		return
	}
	if err := a.api.CreateIntegrationLog(ctx, entry); err != nil {
		a.logger.Error("Failed to write integration log",
			zap.String("loggable_type", loggableType),
			zap.String("loggable_id", loggableID),
			zap.Error(err))
	}
}
