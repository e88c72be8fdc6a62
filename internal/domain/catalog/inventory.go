package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Inventory Entity
// ---------------------------------------------------------------------------

// Inventory is the join between a colorway and one of the bases it is dyed
// on. One storefront variant corresponds to one inventory row.
type Inventory struct {
	// ID is the unique identifier of this inventory row
	ID uuid.UUID
	// ColorwayID is the colorway this row belongs to
	ColorwayID uuid.UUID
	// BaseID is the base this row is dyed on
	BaseID uuid.UUID
	// Quantity is the number of skeins on hand
	Quantity int
	// Base is the associated base, loaded on demand
	Base *Base
	// CreatedAt is when this row was created
	CreatedAt time.Time
	// UpdatedAt is when this row was last updated
	UpdatedAt time.Time
}

// NewInventory creates a new inventory row linking a colorway and a base
func NewInventory(colorwayID, baseID uuid.UUID, quantity int) (*Inventory, error) {
	if colorwayID == uuid.Nil {
		return nil, ErrInventoryInvalidColorway
	}
	if baseID == uuid.Nil {
		return nil, ErrInventoryInvalidBase
	}
	if quantity < 0 {
		return nil, ErrInventoryNegativeQuantity
	}

	now := time.Now()
	return &Inventory{
		ID:         uuid.New(),
		ColorwayID: colorwayID,
		BaseID:     baseID,
		Quantity:   quantity,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// ---------------------------------------------------------------------------
// InventoryRepository Interface
// ---------------------------------------------------------------------------

// InventoryReader defines the interface for reading inventory rows
type InventoryReader interface {
	// FindByID finds an inventory row by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Inventory, error)

	// FindByColorway lists all inventory rows for a colorway with their
	// bases preloaded
	FindByColorway(ctx context.Context, colorwayID uuid.UUID) ([]Inventory, error)
}

// InventoryWriter defines the interface for persisting inventory rows
type InventoryWriter interface {
	// Save creates or updates an inventory row
	Save(ctx context.Context, inventory *Inventory) error
}

// InventoryRepository defines the full interface for inventory persistence
type InventoryRepository interface {
	InventoryReader
	InventoryWriter
}
