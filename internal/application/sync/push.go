package sync

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fibermade/backend/internal/domain/catalog"
	"github.com/fibermade/backend/internal/domain/integration"
)

// ---------------------------------------------------------------------------
// ProductPushService
// ---------------------------------------------------------------------------

// VariantMapping pairs one created remote variant with the inventory row it
// was built from
type VariantMapping struct {
	// InventoryID is the internal inventory row
	InventoryID uuid.UUID
	// RemoteVariantID is the created variant's GID
	RemoteVariantID string
}

// PushResult is the outcome of pushing one colorway to the storefront
type PushResult struct {
	// RemoteProductID is the created product's GID
	RemoteProductID string
	// ColorwayID is the pushed colorway
	ColorwayID uuid.UUID
	// VariantMappings pairs created variants with inventory rows
	VariantMappings []VariantMapping
	// Skipped is true when the colorway was already pushed
	Skipped bool
}

// ProductPushService exports one colorway to the storefront as a new remote
// product, single item at a time. Internal IDs are attached as metafields in
// the same creation call, so the remote side is complete or absent, never
// half-annotated.
type ProductPushService struct {
	mappings *MappingStore
	api      integration.CatalogAPI
	runner   integration.QueryRunner
	audit    *auditor
	logger   *zap.Logger
}

// NewProductPushService creates a new product push service
func NewProductPushService(mappings *MappingStore, api integration.CatalogAPI, runner integration.QueryRunner, logger *zap.Logger) *ProductPushService {
	return &ProductPushService{
		mappings: mappings,
		api:      api,
		runner:   runner,
		audit:    newAuditor(mappings.IntegrationID(), api, logger),
		logger:   logger,
	}
}

// PushColorway creates a remote product for a colorway, or skips when a
// reverse mapping already exists
func (s *ProductPushService) PushColorway(ctx context.Context, colorwayID uuid.UUID) (*PushResult, error) {
	existingGID, err := s.mappings.FindByInternalID(ctx, integration.InternalTypeColorway, colorwayID, integration.ExternalTypeProduct)
	if err != nil {
		return nil, err
	}
	if existingGID != "" {
		s.logger.Debug("Colorway already pushed, skipping",
			zap.String("colorway_id", colorwayID.String()),
			zap.String("remote_product_id", existingGID))
		return &PushResult{RemoteProductID: existingGID, ColorwayID: colorwayID, Skipped: true}, nil
	}

	colorway, err := s.api.GetColorway(ctx, colorwayID)
	if err != nil {
		return nil, fmt.Errorf("fetch colorway %s: %w", colorwayID, err)
	}

	inventories, err := s.resolveBases(ctx, colorway.Inventories)
	if err != nil {
		return nil, err
	}

	input := s.buildProductInput(colorway, inventories)

	data, err := s.runner.Run(ctx, productCreateMutation, map[string]any{"input": input})
	if err != nil {
		return nil, fmt.Errorf("create remote product for colorway %s: %w", colorwayID, err)
	}

	var payload productCreatePayload
	if err := decodePayload(data, &payload); err != nil {
		return nil, err
	}
	if len(payload.ProductCreate.UserErrors) > 0 {
		msg := fmt.Sprintf("remote rejected product for %q: %v", colorway.Name, payload.ProductCreate.UserErrors)
		s.audit.record(ctx, "colorway", colorwayID.String(), integration.LogStatusError, msg,
			map[string]any{"user_errors": payload.ProductCreate.UserErrors})
		return nil, fmt.Errorf("push colorway %s: %s", colorwayID, msg)
	}

	productGID := payload.ProductCreate.Product.ID
	if _, err := s.mappings.Create(ctx, integration.InternalTypeColorway, colorwayID, integration.ExternalTypeProduct, productGID, nil); err != nil {
		return nil, err
	}

	variantMappings, err := s.mapCreatedVariants(ctx, inventories, payload)
	if err != nil {
		return nil, err
	}

	s.audit.record(ctx, "colorway", colorwayID.String(), integration.LogStatusSuccess,
		fmt.Sprintf("pushed %q with %d variants", colorway.Name, len(variantMappings)),
		map[string]any{"remote_product_id": productGID})

	return &PushResult{
		RemoteProductID: productGID,
		ColorwayID:      colorwayID,
		VariantMappings: variantMappings,
	}, nil
}

// resolveBases makes sure every inventory row carries its base, fetching
// individually when the colorway load did not nest it
func (s *ProductPushService) resolveBases(ctx context.Context, inventories []catalog.Inventory) ([]catalog.Inventory, error) {
	resolved := make([]catalog.Inventory, 0, len(inventories))
	for _, inv := range inventories {
		if inv.Base == nil {
			base, err := s.api.GetBase(ctx, inv.BaseID)
			if err != nil {
				return nil, fmt.Errorf("fetch base %s for inventory %s: %w", inv.BaseID, inv.ID, err)
			}
			inv.Base = base
		}
		resolved = append(resolved, inv)
	}
	return resolved, nil
}

// buildProductInput assembles the productCreate input: one variant per base,
// a single "Base" option, metafields carrying the internal IDs. A colorway
// with no inventory still produces one default variant named after itself.
func (s *ProductPushService) buildProductInput(colorway *catalog.Colorway, inventories []catalog.Inventory) map[string]any {
	variants := make([]map[string]any, 0, len(inventories))
	optionValues := make([]string, 0, len(inventories))

	for _, inv := range inventories {
		optionValues = append(optionValues, inv.Base.Descriptor)
		variants = append(variants, map[string]any{
			"options": []string{inv.Base.Descriptor},
			"sku":     inv.Base.Code,
			"price":   inv.Base.RetailPrice.String(),
			"metafields": []map[string]any{
				{
					"namespace": metafieldNamespace,
					"key":       "inventory_id",
					"type":      metafieldTextType,
					"value":     inv.ID.String(),
				},
			},
		})
	}

	if len(variants) == 0 {
		optionValues = append(optionValues, colorway.Name)
		variants = append(variants, map[string]any{
			"options": []string{colorway.Name},
		})
	}

	return map[string]any{
		"title":           colorway.Name,
		"descriptionHtml": colorway.Description,
		"status":          string(integration.RemoteStatusFromColorway(colorway.Status)),
		"options":         []string{"Base"},
		"variants":        variants,
		"metafields": []map[string]any{
			{
				"namespace": metafieldNamespace,
				"key":       metafieldColorwayKey,
				"type":      metafieldTextType,
				"value":     colorway.ID.String(),
			},
		},
	}
}

// mapCreatedVariants creates one variant mapping per inventory row, matching
// created variants by SKU first and falling back to position
func (s *ProductPushService) mapCreatedVariants(ctx context.Context, inventories []catalog.Inventory, payload productCreatePayload) ([]VariantMapping, error) {
	created := payload.ProductCreate.Product.Variants.Edges

	mappings := make([]VariantMapping, 0, len(inventories))
	for i, inv := range inventories {
		gid := ""
		for _, edge := range created {
			if inv.Base != nil && edge.Node.SKU != "" && edge.Node.SKU == inv.Base.Code {
				gid = edge.Node.ID
				break
			}
		}
		if gid == "" && i < len(created) {
			gid = created[i].Node.ID
		}
		if gid == "" {
			continue
		}

		if _, err := s.mappings.Create(ctx, integration.InternalTypeInventory, inv.ID, integration.ExternalTypeVariant, gid, nil); err != nil {
			return nil, err
		}
		mappings = append(mappings, VariantMapping{InventoryID: inv.ID, RemoteVariantID: gid})
	}
	return mappings, nil
}

