package sync

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fibermade/backend/internal/domain/catalog"
	"github.com/fibermade/backend/internal/domain/integration"
)

// basePageSize is the page size used when loading the existing base catalog
const basePageSize = 100

// ---------------------------------------------------------------------------
// ProductSyncService
// ---------------------------------------------------------------------------

// ProductImportResult is the outcome of importing one remote product
type ProductImportResult struct {
	// ColorwayID is the internal colorway the product maps to
	ColorwayID uuid.UUID
	// Bases are the bases resolved or created for the product's variants
	Bases []catalog.Base
	// Inventories are the inventory rows created (or current rows on a skip)
	Inventories []catalog.Inventory
	// Skipped is true when the product was already mapped and nothing was written
	Skipped bool
}

// ProductSyncService imports one remote product into the internal catalog:
// the product becomes a colorway, each variant resolves to a base (reused by
// descriptor when one exists) and an inventory row.
type ProductSyncService struct {
	mappings   *MappingStore
	api        integration.CatalogAPI
	metafields *MetafieldWriter
	audit      *auditor
	logger     *zap.Logger
}

// NewProductSyncService creates a new product sync service. The metafield
// writer may be nil, in which case imported products are not annotated.
func NewProductSyncService(mappings *MappingStore, api integration.CatalogAPI, metafields *MetafieldWriter, logger *zap.Logger) *ProductSyncService {
	return &ProductSyncService{
		mappings:   mappings,
		api:        api,
		metafields: metafields,
		audit:      newAuditor(mappings.IntegrationID(), api, logger),
		logger:     logger,
	}
}

// ImportProduct imports or skips one remote product.
//
// The mapping existence check up front is what makes the operation idempotent
// under at-least-once webhook delivery: a product already mapped is resolved
// and returned with Skipped set, and nothing is written. Per-variant failures
// are logged and skipped without aborting the rest of the product; only a
// colorway-level failure propagates to the caller.
func (s *ProductSyncService) ImportProduct(ctx context.Context, product integration.RemoteProduct) (*ProductImportResult, error) {
	existing, err := s.mappings.FindByExternalID(ctx, integration.ExternalTypeProduct, product.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return s.resolveExisting(ctx, product, existing)
	}

	colorway, err := s.createColorway(ctx, product)
	if err != nil {
		s.audit.record(ctx, "colorway", product.ID, integration.LogStatusError,
			fmt.Sprintf("colorway creation failed for %q: %v", product.Title, err),
			map[string]any{"remote_product_id": product.ID})
		return nil, err
	}

	// Mapping goes in immediately so a crash below still short-circuits a retry
	if _, err := s.mappings.Create(ctx, integration.InternalTypeColorway, colorway.ID, integration.ExternalTypeProduct, product.ID, map[string]string{"handle": product.Handle}); err != nil {
		s.audit.record(ctx, "colorway", product.ID, integration.LogStatusError,
			fmt.Sprintf("colorway mapping failed for %q: %v", product.Title, err),
			map[string]any{"remote_product_id": product.ID, "colorway_id": colorway.ID.String()})
		return nil, err
	}

	existingBases, err := s.loadBaseCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load base catalog: %w", err)
	}

	result := &ProductImportResult{
		ColorwayID:  colorway.ID,
		Bases:       make([]catalog.Base, 0, len(product.Variants)),
		Inventories: make([]catalog.Inventory, 0, len(product.Variants)),
	}

	failed := 0
	for _, variant := range product.Variants {
		base, inventory, err := s.syncVariant(ctx, product, variant, colorway.ID, existingBases)
		if err != nil {
			failed++
			s.logger.Warn("Variant sync failed",
				zap.String("remote_product_id", product.ID),
				zap.String("remote_variant_id", variant.ID),
				zap.Error(err))
			continue
		}
		result.Bases = append(result.Bases, *base)
		result.Inventories = append(result.Inventories, *inventory)
		existingBases = append(existingBases, *base)
	}

	if failed == 0 {
		s.audit.record(ctx, "colorway", colorway.ID.String(), integration.LogStatusSuccess,
			fmt.Sprintf("imported %q with %d variants", product.Title, len(product.Variants)),
			map[string]any{"remote_product_id": product.ID})
	} else {
		s.audit.record(ctx, "colorway", colorway.ID.String(), integration.LogStatusWarning,
			fmt.Sprintf("imported %q with %d of %d variants failed", product.Title, failed, len(product.Variants)),
			map[string]any{"remote_product_id": product.ID})
	}

	if s.metafields != nil {
		s.metafields.AnnotateProduct(ctx, product.ID, colorway.ID)
	}

	return result, nil
}

// resolveExisting handles a replay: reload the mapped colorway's current
// state and report a skip with no writes
func (s *ProductSyncService) resolveExisting(ctx context.Context, product integration.RemoteProduct, mapping *integration.ExternalIdentifier) (*ProductImportResult, error) {
	inventories, err := s.api.ListInventoriesForColorway(ctx, mapping.InternalID)
	if err != nil {
		return nil, fmt.Errorf("reload inventories for mapped colorway %s: %w", mapping.InternalID, err)
	}

	result := &ProductImportResult{
		ColorwayID:  mapping.InternalID,
		Bases:       make([]catalog.Base, 0, len(inventories)),
		Inventories: inventories,
		Skipped:     true,
	}
	for _, inv := range inventories {
		if inv.Base != nil {
			result.Bases = append(result.Bases, *inv.Base)
		}
	}

	s.logger.Debug("Remote product already mapped, skipping",
		zap.String("remote_product_id", product.ID),
		zap.String("colorway_id", mapping.InternalID.String()))
	return result, nil
}

func (s *ProductSyncService) createColorway(ctx context.Context, product integration.RemoteProduct) (*catalog.Colorway, error) {
	status := integration.ColorwayStatusFromRemote(product.Status)
	colorway, err := catalog.NewColorway(product.Title, product.DescriptionHTML, 1, status)
	if err != nil {
		return nil, err
	}
	if err := s.api.CreateColorway(ctx, colorway); err != nil {
		return nil, err
	}
	return colorway, nil
}

// syncVariant resolves the variant to a base (reusing an existing one when
// the descriptor matches), creates the inventory row and the variant mapping
func (s *ProductSyncService) syncVariant(
	ctx context.Context,
	product integration.RemoteProduct,
	variant integration.RemoteVariant,
	colorwayID uuid.UUID,
	existingBases []catalog.Base,
) (*catalog.Base, *catalog.Inventory, error) {
	descriptor := variant.Descriptor(product.Title)

	base := matchBase(existingBases, descriptor, variant)
	if base == nil {
		created, err := catalog.NewBase(descriptor, variant.SKU, variant.Price)
		if err != nil {
			return nil, nil, fmt.Errorf("build base %q: %w", descriptor, err)
		}
		if err := s.api.CreateBase(ctx, created); err != nil {
			return nil, nil, fmt.Errorf("create base %q: %w", descriptor, err)
		}
		base = created
	}

	inventory, err := catalog.NewInventory(colorwayID, base.ID, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("build inventory for base %q: %w", descriptor, err)
	}
	if err := s.api.CreateInventory(ctx, inventory); err != nil {
		return nil, nil, fmt.Errorf("create inventory for base %q: %w", descriptor, err)
	}

	if _, err := s.mappings.Create(ctx, integration.InternalTypeInventory, inventory.ID, integration.ExternalTypeVariant, variant.ID, nil); err != nil {
		return nil, nil, err
	}

	return base, inventory, nil
}

// matchBase finds an existing base whose descriptor matches, preferring one
// whose retail price also matches the variant price when the variant carries
// one
func matchBase(bases []catalog.Base, descriptor string, variant integration.RemoteVariant) *catalog.Base {
	normalized := catalog.NormalizeDescriptor(descriptor)
	var byDescriptor *catalog.Base
	for i := range bases {
		if bases[i].NormalizedDescriptor() != normalized {
			continue
		}
		if variant.Price.IsPositive() && bases[i].RetailPrice.Equal(variant.Price) {
			return &bases[i]
		}
		if byDescriptor == nil {
			byDescriptor = &bases[i]
		}
	}
	return byDescriptor
}

// loadBaseCatalog fetches the full existing base catalog, one page at a time
func (s *ProductSyncService) loadBaseCatalog(ctx context.Context) ([]catalog.Base, error) {
	all := make([]catalog.Base, 0)
	for page := 1; ; page++ {
		batch, err := s.api.ListBases(ctx, catalog.BaseFilter{Page: page, PageSize: basePageSize})
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < basePageSize {
			return all, nil
		}
	}
}

