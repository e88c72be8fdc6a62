package shopify

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fibermade/backend/internal/domain/integration"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Webhook payload normalization
// ---------------------------------------------------------------------------
//
// Webhook deliveries arrive in the storefront's REST shape: numeric IDs, a
// flat variant list, snake_case fields, lowercase status strings. The Admin
// GraphQL API uses GIDs, nested connections and uppercase enums. Everything
// downstream of the webhook surface works on the GraphQL shape, so payloads
// are normalized here, at the edge, and nowhere else.

// webhookProduct is the REST shape of a products/create or products/update
// delivery
type webhookProduct struct {
	ID       int64            `json:"id"`
	Title    string           `json:"title"`
	BodyHTML string           `json:"body_html"`
	Handle   string           `json:"handle"`
	Status   string           `json:"status"`
	Variants []webhookVariant `json:"variants"`
}

// webhookVariant is the REST shape of one variant within a product delivery
type webhookVariant struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	SKU        string `json:"sku"`
	Price      string `json:"price"`
	Grams      int    `json:"grams"`
	WeightUnit string `json:"weight_unit"`
}

// webhookCollection is the REST shape of a collections/create or
// collections/update delivery
type webhookCollection struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	BodyHTML string `json:"body_html"`
	Handle   string `json:"handle"`
}

// ProductGID converts a REST product ID to its GraphQL GID
func ProductGID(id int64) string {
	return fmt.Sprintf("gid://shopify/Product/%d", id)
}

// VariantGID converts a REST variant ID to its GraphQL GID
func VariantGID(id int64) string {
	return fmt.Sprintf("gid://shopify/ProductVariant/%d", id)
}

// CollectionGID converts a REST collection ID to its GraphQL GID
func CollectionGID(id int64) string {
	return fmt.Sprintf("gid://shopify/Collection/%d", id)
}

// NormalizeProductWebhook converts a product webhook delivery into the
// canonical RemoteProduct shape
func NormalizeProductWebhook(payload []byte) (*integration.RemoteProduct, error) {
	var wp webhookProduct
	if err := json.Unmarshal(payload, &wp); err != nil {
		return nil, fmt.Errorf("shopify: failed to decode product webhook: %w", err)
	}
	if wp.ID == 0 {
		return nil, fmt.Errorf("shopify: product webhook missing id")
	}

	product := &integration.RemoteProduct{
		ID:              ProductGID(wp.ID),
		Title:           wp.Title,
		DescriptionHTML: wp.BodyHTML,
		Status:          normalizeStatus(wp.Status),
		Handle:          wp.Handle,
		Variants:        make([]integration.RemoteVariant, 0, len(wp.Variants)),
	}

	for _, wv := range wp.Variants {
		price, err := decimal.NewFromString(wv.Price)
		if err != nil {
			price = decimal.Zero
		}
		product.Variants = append(product.Variants, integration.RemoteVariant{
			ID:         VariantGID(wv.ID),
			Title:      wv.Title,
			SKU:        wv.SKU,
			Price:      price,
			Weight:     float64(wv.Grams),
			WeightUnit: "GRAMS",
		})
	}

	return product, nil
}

// NormalizeCollectionWebhook converts a collection webhook delivery into the
// canonical RemoteCollection shape
func NormalizeCollectionWebhook(payload []byte) (*integration.RemoteCollection, error) {
	var wc webhookCollection
	if err := json.Unmarshal(payload, &wc); err != nil {
		return nil, fmt.Errorf("shopify: failed to decode collection webhook: %w", err)
	}
	if wc.ID == 0 {
		return nil, fmt.Errorf("shopify: collection webhook missing id")
	}

	return &integration.RemoteCollection{
		ID:              CollectionGID(wc.ID),
		Title:           wc.Title,
		DescriptionHTML: wc.BodyHTML,
		Handle:          wc.Handle,
	}, nil
}

// normalizeStatus maps the REST lowercase status to the GraphQL enum.
// Unknown values map to ACTIVE, matching the import-side default.
func normalizeStatus(status string) integration.RemoteProductStatus {
	switch strings.ToLower(status) {
	case "active":
		return integration.RemoteStatusActive
	case "draft":
		return integration.RemoteStatusDraft
	case "archived":
		return integration.RemoteStatusArchived
	default:
		return integration.RemoteStatusActive
	}
}
