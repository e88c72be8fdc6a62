package sync

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fibermade/backend/internal/domain/catalog"
	"github.com/fibermade/backend/internal/domain/integration"
)

// ---------------------------------------------------------------------------
// CollectionSyncService
// ---------------------------------------------------------------------------

// CollectionImportResult is the outcome of importing one remote collection
type CollectionImportResult struct {
	// CollectionID is the internal collection the remote one maps to
	CollectionID uuid.UUID
	// ColorwayCount is the number of colorways associated
	ColorwayCount int
	// Skipped is true when the collection was already mapped
	Skipped bool
}

// CollectionSyncService imports remote collections and associates the
// colorways of their already-imported member products. Products that have
// not been imported yet are silently excluded; collection sync assumes
// product sync runs first or separately.
type CollectionSyncService struct {
	mappings *MappingStore
	api      integration.CatalogAPI
	pages    *Paginator
	audit    *auditor
	logger   *zap.Logger
}

// NewCollectionSyncService creates a new collection sync service
func NewCollectionSyncService(mappings *MappingStore, api integration.CatalogAPI, pages *Paginator, logger *zap.Logger) *CollectionSyncService {
	return &CollectionSyncService{
		mappings: mappings,
		api:      api,
		pages:    pages,
		audit:    newAuditor(mappings.IntegrationID(), api, logger),
		logger:   logger,
	}
}

// ImportCollection imports or skips one remote collection
func (s *CollectionSyncService) ImportCollection(ctx context.Context, remote integration.RemoteCollection) (*CollectionImportResult, error) {
	existing, err := s.mappings.FindByExternalID(ctx, integration.ExternalTypeCollection, remote.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.logger.Debug("Remote collection already mapped, skipping",
			zap.String("remote_collection_id", remote.ID),
			zap.String("collection_id", existing.InternalID.String()))
		return &CollectionImportResult{CollectionID: existing.InternalID, Skipped: true}, nil
	}

	collection, err := catalog.NewCollection(remote.Title, remote.DescriptionHTML)
	if err != nil {
		return nil, fmt.Errorf("build collection %q: %w", remote.Title, err)
	}
	if err := s.api.CreateCollection(ctx, collection); err != nil {
		s.audit.record(ctx, "collection", remote.ID, integration.LogStatusError,
			fmt.Sprintf("collection creation failed for %q: %v", remote.Title, err),
			map[string]any{"remote_collection_id": remote.ID})
		return nil, fmt.Errorf("create collection %q: %w", remote.Title, err)
	}

	if _, err := s.mappings.Create(ctx, integration.InternalTypeCollection, collection.ID, integration.ExternalTypeCollection, remote.ID, map[string]string{"handle": remote.Handle}); err != nil {
		s.audit.record(ctx, "collection", remote.ID, integration.LogStatusError,
			fmt.Sprintf("collection mapping failed for %q: %v", remote.Title, err),
			map[string]any{"remote_collection_id": remote.ID, "collection_id": collection.ID.String()})
		return nil, err
	}

	colorwayIDs, err := s.resolveMemberColorways(ctx, remote.ID)
	if err != nil {
		return nil, err
	}

	// An empty set still gets written so a cleared remote collection clears here too
	if err := s.api.UpdateCollectionColorways(ctx, collection.ID, colorwayIDs); err != nil {
		return nil, fmt.Errorf("associate colorways with collection %s: %w", collection.ID, err)
	}

	if len(colorwayIDs) == 0 {
		s.audit.record(ctx, "collection", collection.ID.String(), integration.LogStatusWarning,
			fmt.Sprintf("imported %q with no resolvable colorways", remote.Title),
			map[string]any{"remote_collection_id": remote.ID})
	} else {
		s.audit.record(ctx, "collection", collection.ID.String(), integration.LogStatusSuccess,
			fmt.Sprintf("imported %q with %d colorways", remote.Title, len(colorwayIDs)),
			map[string]any{"remote_collection_id": remote.ID})
	}

	return &CollectionImportResult{CollectionID: collection.ID, ColorwayCount: len(colorwayIDs)}, nil
}

// resolveMemberColorways pages through the remote collection's product list
// and collects the colorway IDs of the products that are already mapped
func (s *CollectionSyncService) resolveMemberColorways(ctx context.Context, remoteCollectionID string) ([]uuid.UUID, error) {
	colorwayIDs := make([]uuid.UUID, 0)

	_, err := s.pages.forEach(ctx, collectionProductsQuery, map[string]any{"id": remoteCollectionID}, func(data json.RawMessage) (pageInfoPayload, error) {
		var payload collectionProductsPayload
		if err := decodePayload(data, &payload); err != nil {
			return pageInfoPayload{}, err
		}
		for _, edge := range payload.Collection.Products.Edges {
			mapping, err := s.mappings.FindByExternalID(ctx, integration.ExternalTypeProduct, edge.Node.ID)
			if err != nil {
				return pageInfoPayload{}, err
			}
			if mapping != nil && mapping.InternalType == integration.InternalTypeColorway {
				colorwayIDs = append(colorwayIDs, mapping.InternalID)
			}
		}
		return payload.Collection.Products.PageInfo, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list products of remote collection %s: %w", remoteCollectionID, err)
	}

	return colorwayIDs, nil
}

// ImportAllCollections pages through the remote collection list and imports
// each entry, catching per-collection errors so one bad collection does not
// halt the batch
func (s *CollectionSyncService) ImportAllCollections(ctx context.Context) error {
	_, err := s.pages.forEach(ctx, collectionsPageQuery, nil, func(data json.RawMessage) (pageInfoPayload, error) {
		var payload collectionsPagePayload
		if err := decodePayload(data, &payload); err != nil {
			return pageInfoPayload{}, err
		}
		for _, edge := range payload.Collections.Edges {
			remote := integration.RemoteCollection{
				ID:              edge.Node.ID,
				Title:           edge.Node.Title,
				DescriptionHTML: edge.Node.DescriptionHTML,
				Handle:          edge.Node.Handle,
			}
			if _, err := s.ImportCollection(ctx, remote); err != nil {
				s.logger.Warn("Collection import failed",
					zap.String("remote_collection_id", remote.ID),
					zap.Error(err))
				s.audit.record(ctx, "collection", remote.ID, integration.LogStatusError,
					fmt.Sprintf("collection import failed for %q: %v", remote.Title, err),
					map[string]any{"remote_collection_id": remote.ID})
			}
		}
		return payload.Collections.PageInfo, nil
	})
	if err != nil {
		return fmt.Errorf("list remote collections: %w", err)
	}
	return nil
}

