package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fibermade/backend/internal/domain/bulk"
	"github.com/fibermade/backend/internal/domain/catalog"
	"github.com/fibermade/backend/internal/domain/integration"
)

// ---------------------------------------------------------------------------
// CatalogService
// ---------------------------------------------------------------------------

// CatalogService implements the integration.CatalogAPI port over the
// repositories. The sync engine is its only consumer; the HTTP surface reads
// through it as well for audit and history endpoints.
type CatalogService struct {
	colorways   catalog.ColorwayRepository
	bases       catalog.BaseRepository
	inventories catalog.InventoryRepository
	collections catalog.CollectionRepository
	logs        integration.IntegrationLogRepository
	identifiers integration.ExternalIdentifierRepository
	logger      *zap.Logger
}

var _ integration.CatalogAPI = (*CatalogService)(nil)

// NewCatalogService creates a new catalog service
func NewCatalogService(
	colorways catalog.ColorwayRepository,
	bases catalog.BaseRepository,
	inventories catalog.InventoryRepository,
	collections catalog.CollectionRepository,
	logs integration.IntegrationLogRepository,
	identifiers integration.ExternalIdentifierRepository,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		colorways:   colorways,
		bases:       bases,
		inventories: inventories,
		collections: collections,
		logs:        logs,
		identifiers: identifiers,
		logger:      logger,
	}
}

// ---------------------------------------------------------------------------
// Colorway Operations
// ---------------------------------------------------------------------------

// CreateColorway persists a new colorway
func (s *CatalogService) CreateColorway(ctx context.Context, colorway *catalog.Colorway) error {
	return s.colorways.Save(ctx, colorway)
}

// GetColorway fetches a colorway with its inventory rows and bases
func (s *CatalogService) GetColorway(ctx context.Context, id uuid.UUID) (*catalog.Colorway, error) {
	return s.colorways.FindByIDWithInventories(ctx, id)
}

// ---------------------------------------------------------------------------
// Base Operations
// ---------------------------------------------------------------------------

// CreateBase persists a new base
func (s *CatalogService) CreateBase(ctx context.Context, base *catalog.Base) error {
	return s.bases.Save(ctx, base)
}

// GetBase fetches a base by ID
func (s *CatalogService) GetBase(ctx context.Context, id uuid.UUID) (*catalog.Base, error) {
	return s.bases.FindByID(ctx, id)
}

// ListBases lists bases matching the filter
func (s *CatalogService) ListBases(ctx context.Context, filter catalog.BaseFilter) ([]catalog.Base, error) {
	return s.bases.FindAll(ctx, filter)
}

// ---------------------------------------------------------------------------
// Inventory Operations
// ---------------------------------------------------------------------------

// CreateInventory persists a new inventory row
func (s *CatalogService) CreateInventory(ctx context.Context, inventory *catalog.Inventory) error {
	return s.inventories.Save(ctx, inventory)
}

// ListInventoriesForColorway lists a colorway's inventory rows with bases
func (s *CatalogService) ListInventoriesForColorway(ctx context.Context, colorwayID uuid.UUID) ([]catalog.Inventory, error) {
	return s.inventories.FindByColorway(ctx, colorwayID)
}

// ---------------------------------------------------------------------------
// Collection Operations
// ---------------------------------------------------------------------------

// CreateCollection persists a new collection
func (s *CatalogService) CreateCollection(ctx context.Context, collection *catalog.Collection) error {
	return s.collections.Save(ctx, collection)
}

// GetCollection fetches a collection by ID
func (s *CatalogService) GetCollection(ctx context.Context, id uuid.UUID) (*catalog.Collection, error) {
	return s.collections.FindByID(ctx, id)
}

// UpdateCollection persists changes to a collection's own fields
func (s *CatalogService) UpdateCollection(ctx context.Context, collection *catalog.Collection) error {
	return s.collections.Save(ctx, collection)
}

// UpdateCollectionColorways replaces a collection's member set
func (s *CatalogService) UpdateCollectionColorways(ctx context.Context, collectionID uuid.UUID, colorwayIDs []uuid.UUID) error {
	return s.collections.ReplaceColorways(ctx, collectionID, colorwayIDs)
}

// ---------------------------------------------------------------------------
// Integration Record Operations
// ---------------------------------------------------------------------------

// CreateIntegrationLog appends an audit log entry
func (s *CatalogService) CreateIntegrationLog(ctx context.Context, log *integration.IntegrationLog) error {
	return s.logs.Save(ctx, log)
}

// ListIntegrationLogs lists audit entries for an integration, newest first
func (s *CatalogService) ListIntegrationLogs(ctx context.Context, integrationID uuid.UUID, filter integration.IntegrationLogFilter) ([]integration.IntegrationLog, error) {
	return s.logs.FindAll(ctx, integrationID, filter)
}

// FindExternalIdentifier looks up a mapping by its remote keys
func (s *CatalogService) FindExternalIdentifier(ctx context.Context, integrationID uuid.UUID, externalType integration.ExternalType, externalID string) (*integration.ExternalIdentifier, error) {
	return s.identifiers.FindByExternal(ctx, integrationID, externalType, externalID)
}

// FindExternalIdentifierByInternal looks up a mapping by its internal keys
func (s *CatalogService) FindExternalIdentifierByInternal(ctx context.Context, integrationID uuid.UUID, internalType integration.InternalType, internalID uuid.UUID, externalType integration.ExternalType) (*integration.ExternalIdentifier, error) {
	return s.identifiers.FindByInternal(ctx, integrationID, internalType, internalID, externalType)
}

// CreateExternalIdentifier persists a mapping record
func (s *CatalogService) CreateExternalIdentifier(ctx context.Context, identifier *integration.ExternalIdentifier) error {
	return s.identifiers.Save(ctx, identifier)
}

// ---------------------------------------------------------------------------
// Sync Run History
// ---------------------------------------------------------------------------

// SyncRunHistoryService reads bulk run history for the operator surface
type SyncRunHistoryService struct {
	runs   bulk.SyncRunRepository
	logger *zap.Logger
}

// NewSyncRunHistoryService creates a new sync run history service
func NewSyncRunHistoryService(runs bulk.SyncRunRepository, logger *zap.Logger) *SyncRunHistoryService {
	return &SyncRunHistoryService{runs: runs, logger: logger}
}

// GetRun fetches one run by ID
func (s *SyncRunHistoryService) GetRun(ctx context.Context, id uuid.UUID) (*bulk.SyncRun, error) {
	return s.runs.FindByID(ctx, id)
}

// LatestRun fetches the most recent run for an integration, or nil
func (s *SyncRunHistoryService) LatestRun(ctx context.Context, integrationID uuid.UUID) (*bulk.SyncRun, error) {
	return s.runs.FindLatest(ctx, integrationID)
}

// ListRuns lists recent runs for an integration, newest first
func (s *SyncRunHistoryService) ListRuns(ctx context.Context, integrationID uuid.UUID, limit int) ([]bulk.SyncRun, error) {
	return s.runs.FindAll(ctx, integrationID, limit)
}

// RecoverInterrupted fails a run left in_progress by a previous process, so
// the operator guard does not block new imports forever after a crash. The
// run keeps its last cursor and gains an interrupted error entry. Returns
// the recovered run, or nil when there is nothing to recover.
func (s *SyncRunHistoryService) RecoverInterrupted(ctx context.Context, integrationID uuid.UUID) (*bulk.SyncRun, error) {
	latest, err := s.runs.FindLatest(ctx, integrationID)
	if err != nil {
		return nil, fmt.Errorf("recover interrupted run: %w", err)
	}
	if latest == nil || latest.Status != bulk.RunStatusInProgress {
		return nil, nil
	}
	if err := latest.Fail(latest.LastCursor, bulk.ErrRunInterrupted); err != nil {
		return nil, fmt.Errorf("recover interrupted run %s: %w", latest.ID, err)
	}
	if err := s.runs.Save(ctx, latest); err != nil {
		return nil, fmt.Errorf("recover interrupted run %s: %w", latest.ID, err)
	}
	s.logger.Warn("Recovered interrupted bulk import run",
		zap.String("run_id", latest.ID.String()),
		zap.String("last_cursor", latest.LastCursor),
		zap.Int("imported", latest.Imported),
		zap.Int("failed", latest.Failed),
	)
	return latest, nil
}
