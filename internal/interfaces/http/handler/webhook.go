package handler

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/fibermade/backend/internal/application/sync"
	"github.com/fibermade/backend/internal/domain/integration"
	"github.com/fibermade/backend/internal/infrastructure/shopify"
	"github.com/gin-gonic/gin"
)

// ProductImporter imports one normalized remote product
type ProductImporter interface {
	ImportProduct(ctx context.Context, product integration.RemoteProduct) (*sync.ProductImportResult, error)
}

// CollectionImporter imports one normalized remote collection
type CollectionImporter interface {
	ImportCollection(ctx context.Context, collection integration.RemoteCollection) (*sync.CollectionImportResult, error)
}

// WebhookHandler receives storefront webhook deliveries. Payloads arrive in
// the REST webhook shape and are normalized to the canonical GraphQL shape
// before the sync services see them. Every delivery is acknowledged with 200
// regardless of processing outcome, so a bad payload cannot put the
// storefront into a retry loop.
type WebhookHandler struct {
	BaseHandler
	products    ProductImporter
	collections CollectionImporter
	logger      *zap.Logger
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(products ProductImporter, collections CollectionImporter, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		products:    products,
		collections: collections,
		logger:      logger,
	}
}

// RegisterRoutes registers webhook routes on the given group
func (h *WebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	shopifyGroup := rg.Group("/shopify")
	{
		shopifyGroup.POST("/products", h.HandleProduct)
		shopifyGroup.POST("/collections", h.HandleCollection)
	}
}

// HandleProduct processes a product create/update webhook delivery
func (h *WebhookHandler) HandleProduct(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.Warn("Failed to read product webhook body", zap.Error(err))
		h.acknowledge(c)
		return
	}

	product, err := shopify.NormalizeProductWebhook(body)
	if err != nil {
		h.logger.Warn("Discarding malformed product webhook", zap.Error(err))
		h.acknowledge(c)
		return
	}

	result, err := h.products.ImportProduct(c.Request.Context(), *product)
	if err != nil {
		h.logger.Error("Product webhook import failed",
			zap.String("remote_product_id", product.ID),
			zap.Error(err))
		h.acknowledge(c)
		return
	}

	h.logger.Info("Product webhook processed",
		zap.String("remote_product_id", product.ID),
		zap.String("colorway_id", result.ColorwayID.String()),
		zap.Bool("skipped", result.Skipped))
	h.acknowledge(c)
}

// HandleCollection processes a collection create/update webhook delivery
func (h *WebhookHandler) HandleCollection(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.Warn("Failed to read collection webhook body", zap.Error(err))
		h.acknowledge(c)
		return
	}

	collection, err := shopify.NormalizeCollectionWebhook(body)
	if err != nil {
		h.logger.Warn("Discarding malformed collection webhook", zap.Error(err))
		h.acknowledge(c)
		return
	}

	result, err := h.collections.ImportCollection(c.Request.Context(), *collection)
	if err != nil {
		h.logger.Error("Collection webhook import failed",
			zap.String("remote_collection_id", collection.ID),
			zap.Error(err))
		h.acknowledge(c)
		return
	}

	h.logger.Info("Collection webhook processed",
		zap.String("remote_collection_id", collection.ID),
		zap.String("collection_id", result.CollectionID.String()))
	h.acknowledge(c)
}

// acknowledge always answers 200 so the storefront marks the delivery done
func (h *WebhookHandler) acknowledge(c *gin.Context) {
	h.Success(c, gin.H{"received": true})
}
