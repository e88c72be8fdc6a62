package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Colorway Entity
// ---------------------------------------------------------------------------

// ColorwayStatus represents the lifecycle status of a colorway
type ColorwayStatus string

const (
	ColorwayStatusIdea    ColorwayStatus = "idea"
	ColorwayStatusActive  ColorwayStatus = "active"
	ColorwayStatusRetired ColorwayStatus = "retired"
)

// IsValid checks if the status is valid
func (s ColorwayStatus) IsValid() bool {
	switch s {
	case ColorwayStatusIdea, ColorwayStatusActive, ColorwayStatusRetired:
		return true
	}
	return false
}

// Colorway represents a dye colorway in the catalog. It is the internal
// counterpart of a storefront product: each colorway carries one inventory
// row per yarn base it is dyed on.
type Colorway struct {
	// ID is the unique identifier of this colorway
	ID uuid.UUID
	// Name is the display name of the colorway
	Name string
	// Description is free-form descriptive text (may contain HTML)
	Description string
	// PerPan is the number of pans used per dye batch
	PerPan int
	// Status is the lifecycle status
	Status ColorwayStatus
	// Inventories are the per-base inventory rows, loaded on demand
	Inventories []Inventory
	// CreatedAt is when this colorway was created
	CreatedAt time.Time
	// UpdatedAt is when this colorway was last updated
	UpdatedAt time.Time
}

// NewColorway creates a new colorway
func NewColorway(name, description string, perPan int, status ColorwayStatus) (*Colorway, error) {
	if name == "" {
		return nil, ErrColorwayNameRequired
	}
	if perPan < 1 {
		return nil, ErrColorwayInvalidPerPan
	}
	if !status.IsValid() {
		return nil, ErrColorwayInvalidStatus
	}

	now := time.Now()
	return &Colorway{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		PerPan:      perPan,
		Status:      status,
		Inventories: make([]Inventory, 0),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Retire marks the colorway as retired
func (c *Colorway) Retire() {
	c.Status = ColorwayStatusRetired
	c.UpdatedAt = time.Now()
}

// Activate marks the colorway as active
func (c *Colorway) Activate() {
	c.Status = ColorwayStatusActive
	c.UpdatedAt = time.Now()
}

// ---------------------------------------------------------------------------
// ColorwayRepository Interface
// ---------------------------------------------------------------------------

// ColorwayReader defines the interface for reading colorways
type ColorwayReader interface {
	// FindByID finds a colorway by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Colorway, error)

	// FindByIDWithInventories finds a colorway with its inventory rows and
	// their bases preloaded
	FindByIDWithInventories(ctx context.Context, id uuid.UUID) (*Colorway, error)
}

// ColorwayWriter defines the interface for persisting colorways
type ColorwayWriter interface {
	// Save creates or updates a colorway
	Save(ctx context.Context, colorway *Colorway) error
}

// ColorwayRepository defines the full interface for colorway persistence
type ColorwayRepository interface {
	ColorwayReader
	ColorwayWriter
}
