package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Collection Entity
// ---------------------------------------------------------------------------

// CollectionStatus represents the lifecycle status of a collection
type CollectionStatus string

const (
	CollectionStatusActive   CollectionStatus = "active"
	CollectionStatusInactive CollectionStatus = "inactive"
)

// IsValid checks if the status is valid
func (s CollectionStatus) IsValid() bool {
	return s == CollectionStatusActive || s == CollectionStatusInactive
}

// Collection is a curated grouping of colorways, mirroring a storefront
// collection.
type Collection struct {
	// ID is the unique identifier of this collection
	ID uuid.UUID
	// Name is the display name of the collection
	Name string
	// Description is free-form descriptive text (may contain HTML)
	Description string
	// Status is the lifecycle status
	Status CollectionStatus
	// ColorwayIDs are the member colorways, loaded on demand
	ColorwayIDs []uuid.UUID
	// CreatedAt is when this collection was created
	CreatedAt time.Time
	// UpdatedAt is when this collection was last updated
	UpdatedAt time.Time
}

// NewCollection creates a new collection
func NewCollection(name, description string) (*Collection, error) {
	if name == "" {
		return nil, ErrCollectionNameRequired
	}

	now := time.Now()
	return &Collection{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Status:      CollectionStatusActive,
		ColorwayIDs: make([]uuid.UUID, 0),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ---------------------------------------------------------------------------
// CollectionRepository Interface
// ---------------------------------------------------------------------------

// CollectionReader defines the interface for reading collections
type CollectionReader interface {
	// FindByID finds a collection by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Collection, error)
}

// CollectionWriter defines the interface for persisting collections
type CollectionWriter interface {
	// Save creates or updates a collection
	Save(ctx context.Context, collection *Collection) error

	// ReplaceColorways replaces the collection's member set with the given
	// colorway IDs. An empty slice clears the membership.
	ReplaceColorways(ctx context.Context, collectionID uuid.UUID, colorwayIDs []uuid.UUID) error
}

// CollectionRepository defines the full interface for collection persistence
type CollectionRepository interface {
	CollectionReader
	CollectionWriter
}
