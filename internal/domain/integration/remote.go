package integration

import (
	"github.com/shopspring/decimal"

	"github.com/fibermade/backend/internal/domain/catalog"
)

// ---------------------------------------------------------------------------
// Remote catalog snapshots
// ---------------------------------------------------------------------------

// RemoteProductStatus is the storefront's product status enum
type RemoteProductStatus string

const (
	RemoteStatusActive   RemoteProductStatus = "ACTIVE"
	RemoteStatusDraft    RemoteProductStatus = "DRAFT"
	RemoteStatusArchived RemoteProductStatus = "ARCHIVED"
)

// DefaultVariantTitle is the placeholder title the storefront assigns to the
// sole variant of a product with no explicit options. A variant with this
// title takes its descriptor from the product title instead.
const DefaultVariantTitle = "Default Title"

// RemoteProduct is a read-only snapshot of a storefront product, in the
// canonical GraphQL shape. Webhook payloads are normalized into this shape
// before any sync service sees them.
type RemoteProduct struct {
	// ID is the product GID, e.g. "gid://shopify/Product/123"
	ID string
	// Title is the product title
	Title string
	// DescriptionHTML is the product description as HTML
	DescriptionHTML string
	// Status is the storefront status enum
	Status RemoteProductStatus
	// Handle is the URL handle
	Handle string
	// Variants are the product's variants
	Variants []RemoteVariant
}

// RemoteVariant is a read-only snapshot of a storefront product variant
type RemoteVariant struct {
	// ID is the variant GID
	ID string
	// Title is the variant title, possibly DefaultVariantTitle
	Title string
	// SKU is the variant SKU
	SKU string
	// Price is the variant price
	Price decimal.Decimal
	// Weight is the variant weight, zero when unset
	Weight float64
	// WeightUnit is the storefront weight unit, e.g. "GRAMS"
	WeightUnit string
}

// Descriptor returns the base descriptor this variant should resolve to:
// the variant title, or the product title when the variant carries the
// storefront's generic placeholder.
func (v RemoteVariant) Descriptor(productTitle string) string {
	if v.Title == "" || v.Title == DefaultVariantTitle {
		return productTitle
	}
	return v.Title
}

// RemoteCollection is a read-only snapshot of a storefront collection
type RemoteCollection struct {
	// ID is the collection GID
	ID string
	// Title is the collection title
	Title string
	// DescriptionHTML is the collection description as HTML
	DescriptionHTML string
	// Handle is the URL handle
	Handle string
}

// ---------------------------------------------------------------------------
// Status mapping
// ---------------------------------------------------------------------------

// ColorwayStatusFromRemote maps a storefront product status to the internal
// colorway status. Unknown values default to active.
func ColorwayStatusFromRemote(status RemoteProductStatus) catalog.ColorwayStatus {
	switch status {
	case RemoteStatusActive:
		return catalog.ColorwayStatusActive
	case RemoteStatusDraft:
		return catalog.ColorwayStatusIdea
	case RemoteStatusArchived:
		return catalog.ColorwayStatusRetired
	default:
		return catalog.ColorwayStatusActive
	}
}

// RemoteStatusFromColorway maps an internal colorway status to the
// storefront product status, the inverse of ColorwayStatusFromRemote.
func RemoteStatusFromColorway(status catalog.ColorwayStatus) RemoteProductStatus {
	switch status {
	case catalog.ColorwayStatusActive:
		return RemoteStatusActive
	case catalog.ColorwayStatusIdea:
		return RemoteStatusDraft
	case catalog.ColorwayStatusRetired:
		return RemoteStatusArchived
	default:
		return RemoteStatusActive
	}
}
