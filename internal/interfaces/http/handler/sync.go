package handler

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fibermade/backend/internal/application/sync"
	"github.com/fibermade/backend/internal/domain/bulk"
	"github.com/fibermade/backend/internal/domain/catalog"
	"github.com/fibermade/backend/internal/domain/integration"
	"github.com/fibermade/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// BulkImportRunner drives a full catalog import to completion
type BulkImportRunner interface {
	Run(ctx context.Context, run *bulk.SyncRun) error
}

// RunHistory reads past and current bulk import runs
type RunHistory interface {
	GetRun(ctx context.Context, id uuid.UUID) (*bulk.SyncRun, error)
	LatestRun(ctx context.Context, integrationID uuid.UUID) (*bulk.SyncRun, error)
	ListRuns(ctx context.Context, integrationID uuid.UUID, limit int) ([]bulk.SyncRun, error)
}

// RunWriter persists new runs before the import starts
type RunWriter interface {
	Save(ctx context.Context, run *bulk.SyncRun) error
}

// ColorwayPusher exports one colorway to the storefront
type ColorwayPusher interface {
	PushColorway(ctx context.Context, colorwayID uuid.UUID) (*sync.PushResult, error)
}

// LogLister reads the integration audit trail
type LogLister interface {
	ListIntegrationLogs(ctx context.Context, integrationID uuid.UUID, filter integration.IntegrationLogFilter) ([]integration.IntegrationLog, error)
}

// SyncHandler exposes the operator surface of the sync engine: starting and
// inspecting bulk imports, pushing individual colorways, and reading the
// audit trail.
type SyncHandler struct {
	BaseHandler
	integrationID uuid.UUID
	importer      BulkImportRunner
	history       RunHistory
	runs          RunWriter
	pusher        ColorwayPusher
	logs          LogLister
	listLimit     int
	logger        *zap.Logger
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(
	integrationID uuid.UUID,
	importer BulkImportRunner,
	history RunHistory,
	runs RunWriter,
	pusher ColorwayPusher,
	logs LogLister,
	listLimit int,
	logger *zap.Logger,
) *SyncHandler {
	if listLimit <= 0 {
		listLimit = 20
	}
	return &SyncHandler{
		integrationID: integrationID,
		importer:      importer,
		history:       history,
		runs:          runs,
		pusher:        pusher,
		logs:          logs,
		listLimit:     listLimit,
		logger:        logger,
	}
}

// RegisterRoutes registers sync routes on the API group
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	syncGroup := rg.Group("/sync")
	{
		syncGroup.POST("/import", h.StartImport)
		syncGroup.GET("/import/:id", h.GetRun)
		syncGroup.GET("/runs", h.ListRuns)
		syncGroup.POST("/push/:colorway_id", h.PushColorway)
		syncGroup.GET("/logs", h.ListLogs)
	}
}

// StartImport begins a full catalog import. Only one import may run at a
// time per integration; a second request while one is in_progress is
// rejected with 409. The import itself proceeds in the background and the
// created run is returned immediately.
func (h *SyncHandler) StartImport(c *gin.Context) {
	ctx := c.Request.Context()

	latest, err := h.history.LatestRun(ctx, h.integrationID)
	if err != nil {
		h.logger.Error("Failed to check latest run", zap.Error(err))
		h.InternalError(c, "Failed to check for a running import")
		return
	}
	if latest != nil && latest.Status == bulk.RunStatusInProgress {
		h.Conflict(c, dto.ErrCodeSyncInProgress, "A bulk import is already in progress")
		return
	}

	run, err := bulk.NewSyncRun(h.integrationID)
	if err != nil {
		h.logger.Error("Failed to create run", zap.Error(err))
		h.InternalError(c, "Failed to create import run")
		return
	}
	if err := h.runs.Save(ctx, run); err != nil {
		h.logger.Error("Failed to persist run", zap.Error(err))
		h.InternalError(c, "Failed to persist import run")
		return
	}

	// Snapshot the pending run before the import goroutine starts mutating it.
	resp := dto.SyncRunResponseFromDomain(run)

	// The import outlives the request, so it runs on its own context.
	go func() {
		bg := context.Background()
		if err := h.importer.Run(bg, run); err != nil {
			h.logger.Error("Bulk import failed",
				zap.String("run_id", run.ID.String()),
				zap.Error(err))
			return
		}
		h.logger.Info("Bulk import finished",
			zap.String("run_id", run.ID.String()),
			zap.Int("total", run.Total),
			zap.Int("imported", run.Imported),
			zap.Int("failed", run.Failed))
	}()

	h.Accepted(c, resp)
}

// GetRun returns one bulk import run by ID
func (h *SyncHandler) GetRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid run ID")
		return
	}

	run, err := h.history.GetRun(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, bulk.ErrRunNotFound) {
			h.NotFound(c, "Run not found")
			return
		}
		h.logger.Error("Failed to load run", zap.String("run_id", id.String()), zap.Error(err))
		h.InternalError(c, "Failed to load run")
		return
	}

	h.Success(c, dto.SyncRunResponseFromDomain(run))
}

// ListRuns returns the most recent bulk import runs, newest first
func (h *SyncHandler) ListRuns(c *gin.Context) {
	runs, err := h.history.ListRuns(c.Request.Context(), h.integrationID, h.listLimit)
	if err != nil {
		h.logger.Error("Failed to list runs", zap.Error(err))
		h.InternalError(c, "Failed to list runs")
		return
	}

	responses := make([]dto.SyncRunResponse, 0, len(runs))
	for i := range runs {
		responses = append(responses, dto.SyncRunResponseFromDomain(&runs[i]))
	}
	h.Success(c, responses)
}

// PushColorway exports one colorway to the storefront as a new product
func (h *SyncHandler) PushColorway(c *gin.Context) {
	colorwayID, err := uuid.Parse(c.Param("colorway_id"))
	if err != nil {
		h.BadRequest(c, "Invalid colorway ID")
		return
	}

	result, err := h.pusher.PushColorway(c.Request.Context(), colorwayID)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrColorwayNotFound):
			h.NotFound(c, "Colorway not found")
		case integration.IsRateLimited(err):
			h.ErrorWithCode(c, dto.ErrCodeRateLimited, "Storefront throttled the request")
		default:
			var reqErr *integration.RequestError
			if errors.As(err, &reqErr) {
				h.ErrorWithCode(c, dto.ErrCodeUpstream, "Storefront request failed")
				return
			}
			h.logger.Error("Push failed",
				zap.String("colorway_id", colorwayID.String()),
				zap.Error(err))
			h.InternalError(c, "Push failed")
		}
		return
	}

	resp := dto.PushResponse{
		ColorwayID:      result.ColorwayID.String(),
		RemoteProductID: result.RemoteProductID,
		Skipped:         result.Skipped,
	}
	for _, m := range result.VariantMappings {
		resp.Variants = append(resp.Variants, dto.PushVariantResponse{
			InventoryID:     m.InventoryID.String(),
			RemoteVariantID: m.RemoteVariantID,
		})
	}

	if result.Skipped {
		h.Success(c, resp)
		return
	}
	h.Created(c, resp)
}

// ListLogs returns integration audit entries, newest first
func (h *SyncHandler) ListLogs(c *gin.Context) {
	var req dto.ListLogsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	filter := integration.IntegrationLogFilter{
		LoggableType: req.LoggableType,
		Page:         req.Page,
		PageSize:     req.PageSize,
	}
	if req.Status != "" {
		status := integration.LogStatus(req.Status)
		filter.Status = &status
	}

	logs, err := h.logs.ListIntegrationLogs(c.Request.Context(), h.integrationID, filter)
	if err != nil {
		h.logger.Error("Failed to list integration logs", zap.Error(err))
		h.InternalError(c, "Failed to list integration logs")
		return
	}

	responses := make([]dto.IntegrationLogResponse, 0, len(logs))
	for _, entry := range logs {
		responses = append(responses, dto.IntegrationLogResponse{
			ID:           entry.ID.String(),
			LoggableType: entry.LoggableType,
			LoggableID:   entry.LoggableID,
			Status:       string(entry.Status),
			Message:      entry.Message,
			Metadata:     entry.Metadata,
			SyncedAt:     entry.SyncedAt,
		})
	}
	h.Success(c, responses)
}
