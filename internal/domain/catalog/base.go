package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Base Entity
// ---------------------------------------------------------------------------

// BaseStatus represents the lifecycle status of a yarn base
type BaseStatus string

const (
	BaseStatusActive  BaseStatus = "active"
	BaseStatusRetired BaseStatus = "retired"
)

// IsValid checks if the status is valid
func (s BaseStatus) IsValid() bool {
	return s == BaseStatusActive || s == BaseStatusRetired
}

// Base represents an undyed yarn base (fiber content, weight, put-up).
// Storefront variants resolve to bases by descriptor.
type Base struct {
	// ID is the unique identifier of this base
	ID uuid.UUID
	// Descriptor is the human-readable name, e.g. "Merino DK"
	Descriptor string
	// Code is the short SKU code for this base
	Code string
	// RetailPrice is the standard retail price per skein
	RetailPrice decimal.Decimal
	// Status is the lifecycle status
	Status BaseStatus
	// CreatedAt is when this base was created
	CreatedAt time.Time
	// UpdatedAt is when this base was last updated
	UpdatedAt time.Time
}

// NewBase creates a new yarn base
func NewBase(descriptor, code string, retailPrice decimal.Decimal) (*Base, error) {
	if strings.TrimSpace(descriptor) == "" {
		return nil, ErrBaseDescriptorRequired
	}
	if retailPrice.IsNegative() {
		return nil, ErrBaseInvalidPrice
	}

	now := time.Now()
	return &Base{
		ID:          uuid.New(),
		Descriptor:  strings.TrimSpace(descriptor),
		Code:        code,
		RetailPrice: retailPrice,
		Status:      BaseStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// NormalizedDescriptor returns the descriptor lowered and with runs of
// whitespace collapsed, the form used for matching storefront variant titles
// against existing bases.
func (b *Base) NormalizedDescriptor() string {
	return NormalizeDescriptor(b.Descriptor)
}

// NormalizeDescriptor lowers a descriptor and collapses internal whitespace
// so that "Merino  DK " and "merino dk" compare equal.
func NormalizeDescriptor(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}

// ---------------------------------------------------------------------------
// BaseRepository Interface
// ---------------------------------------------------------------------------

// BaseFilter defines filter criteria for listing bases
type BaseFilter struct {
	// Status filters by lifecycle status (optional)
	Status *BaseStatus
	// Page number (1-indexed)
	Page int
	// Page size
	PageSize int
}

// BaseReader defines the interface for reading bases
type BaseReader interface {
	// FindByID finds a base by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Base, error)

	// FindAll lists bases matching the filter
	FindAll(ctx context.Context, filter BaseFilter) ([]Base, error)

	// Count counts bases matching the filter
	Count(ctx context.Context, filter BaseFilter) (int64, error)
}

// BaseWriter defines the interface for persisting bases
type BaseWriter interface {
	// Save creates or updates a base
	Save(ctx context.Context, base *Base) error
}

// BaseRepository defines the full interface for base persistence
type BaseRepository interface {
	BaseReader
	BaseWriter
}
