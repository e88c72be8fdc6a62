package sync

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fibermade/backend/internal/domain/integration"
)

// Metafield namespace and keys used to annotate remote entities with the
// internal IDs they map to
const (
	metafieldNamespace   = "fibermade"
	metafieldColorwayKey = "colorway_id"
	metafieldTextType    = "single_line_text_field"
)

// ---------------------------------------------------------------------------
// MetafieldWriter
// ---------------------------------------------------------------------------

// MetafieldWriter annotates remote entities with the internal IDs they were
// imported as. The annotation is strictly best effort: a storefront product
// without it still syncs correctly, so failures are logged and never
// propagated.
type MetafieldWriter struct {
	runner integration.QueryRunner
	logger *zap.Logger
}

// NewMetafieldWriter creates a new metafield writer
func NewMetafieldWriter(runner integration.QueryRunner, logger *zap.Logger) *MetafieldWriter {
	return &MetafieldWriter{
		runner: runner,
		logger: logger,
	}
}

// AnnotateProduct writes the internal colorway ID onto a remote product
func (w *MetafieldWriter) AnnotateProduct(ctx context.Context, productGID string, colorwayID uuid.UUID) {
	vars := map[string]any{
		"metafields": []map[string]any{
			{
				"ownerId":   productGID,
				"namespace": metafieldNamespace,
				"key":       metafieldColorwayKey,
				"type":      metafieldTextType,
				"value":     colorwayID.String(),
			},
		},
	}

	data, err := w.runner.Run(ctx, metafieldsSetMutation, vars)
	if err != nil {
		w.logger.Warn("Metafield annotation failed",
			zap.String("remote_product_id", productGID),
			zap.String("colorway_id", colorwayID.String()),
			zap.Error(err))
		return
	}

	var payload metafieldsSetPayload
	if err := decodePayload(data, &payload); err != nil {
		w.logger.Warn("Metafield annotation response unreadable",
			zap.String("remote_product_id", productGID),
			zap.Error(err))
		return
	}
	if len(payload.MetafieldsSet.UserErrors) > 0 {
		w.logger.Warn("Metafield annotation rejected",
			zap.String("remote_product_id", productGID),
			zap.Any("user_errors", payload.MetafieldsSet.UserErrors))
	}
}
