package sync

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/fibermade/backend/internal/domain/bulk"
)

// ---------------------------------------------------------------------------
// BulkImportService
// ---------------------------------------------------------------------------

// ProgressPersistFunc checkpoints a run's current state to durable storage.
// The bulk import service calls it after every processed page, so the
// persisted counters always reflect exactly what has been committed.
type ProgressPersistFunc func(ctx context.Context, run *bulk.SyncRun) error

// BulkImportService pulls the entire remote catalog: every product page by
// page, then every collection. Per-product failures are recorded on the run
// and do not stop the walk; only a product-pagination failure outside the
// retry budget fails the run. The collection phase is best effort, a broken
// collection pass still leaves a fully imported product catalog reading as
// complete.
type BulkImportService struct {
	products    *ProductSyncService
	collections *CollectionSyncService
	pages       *Paginator
	persist     ProgressPersistFunc
	logger      *zap.Logger
}

// NewBulkImportService creates a new bulk import service
func NewBulkImportService(
	products *ProductSyncService,
	collections *CollectionSyncService,
	pages *Paginator,
	persist ProgressPersistFunc,
	logger *zap.Logger,
) *BulkImportService {
	return &BulkImportService{
		products:    products,
		collections: collections,
		pages:       pages,
		persist:     persist,
		logger:      logger,
	}
}

// Run executes a full catalog import on a pending run. Callers are expected
// to have checked that no other run is in_progress; that guard lives with
// the caller, not here.
func (s *BulkImportService) Run(ctx context.Context, run *bulk.SyncRun) error {
	if err := run.Start(); err != nil {
		return err
	}
	if err := s.checkpoint(ctx, run); err != nil {
		return err
	}

	s.logger.Info("Bulk import started", zap.String("run_id", run.ID.String()))

	lastCursor, err := s.pages.forEach(ctx, productsPageQuery, nil, func(data json.RawMessage) (pageInfoPayload, error) {
		var payload productsPagePayload
		if err := decodePayload(data, &payload); err != nil {
			return pageInfoPayload{}, err
		}

		run.BeginPage(len(payload.Products.Edges))
		for _, edge := range payload.Products.Edges {
			product := edge.Node.toRemoteProduct()
			if _, err := s.products.ImportProduct(ctx, product); err != nil {
				run.RecordFailed(product.ID, err)
				s.logger.Warn("Product import failed during bulk run",
					zap.String("run_id", run.ID.String()),
					zap.String("remote_product_id", product.ID),
					zap.Error(err))
				continue
			}
			run.RecordImported()
		}

		run.AdvanceCursor(payload.Products.PageInfo.EndCursor)
		if err := s.checkpoint(ctx, run); err != nil {
			return pageInfoPayload{}, err
		}
		return payload.Products.PageInfo, nil
	})
	if err != nil {
		if failErr := run.Fail(lastCursor, err); failErr != nil {
			s.logger.Error("Could not mark run failed", zap.Error(failErr))
		}
		if persistErr := s.persist(ctx, run); persistErr != nil {
			s.logger.Error("Could not persist failed run", zap.Error(persistErr))
		}
		return fmt.Errorf("bulk product import aborted at cursor %q: %w", lastCursor, err)
	}

	// Collection phase is best effort: record the error but keep the run complete
	if err := s.collections.ImportAllCollections(ctx); err != nil {
		run.RecordPhaseError("collections", err)
		s.logger.Warn("Collection phase failed during bulk run",
			zap.String("run_id", run.ID.String()),
			zap.Error(err))
	}

	if err := run.Complete(); err != nil {
		return err
	}
	if err := s.checkpoint(ctx, run); err != nil {
		return err
	}

	s.logger.Info("Bulk import finished",
		zap.String("run_id", run.ID.String()),
		zap.Int("total", run.Total),
		zap.Int("imported", run.Imported),
		zap.Int("failed", run.Failed))
	return nil
}

func (s *BulkImportService) checkpoint(ctx context.Context, run *bulk.SyncRun) error {
	if err := s.persist(ctx, run); err != nil {
		return fmt.Errorf("persist run %s progress: %w", run.ID, err)
	}
	return nil
}
