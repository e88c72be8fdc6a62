package integration

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/fibermade/backend/internal/domain/catalog"
)

// ---------------------------------------------------------------------------
// QueryRunner Port
// ---------------------------------------------------------------------------

// QueryRunner executes one GraphQL document against the storefront Admin API
// and returns the raw data payload. Implementations return a *RequestError
// for non-success HTTP statuses so callers can detect rate limiting, and a
// plain error when the GraphQL response itself carries errors.
type QueryRunner interface {
	Run(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error)
}

// ---------------------------------------------------------------------------
// CatalogAPI Port
// ---------------------------------------------------------------------------

// CatalogAPI is the sync engine's view of the internal catalog. The engine
// never touches repositories directly; everything it needs from the catalog
// side goes through this port, which keeps the sync services testable against
// a mock and the catalog free to change its persistence.
type CatalogAPI interface {
	// ---------------------------------------------------------------------------
	// Colorway Operations
	// ---------------------------------------------------------------------------

	// CreateColorway persists a new colorway
	CreateColorway(ctx context.Context, colorway *catalog.Colorway) error

	// GetColorway fetches a colorway with its inventory rows and bases
	GetColorway(ctx context.Context, id uuid.UUID) (*catalog.Colorway, error)

	// ---------------------------------------------------------------------------
	// Base Operations
	// ---------------------------------------------------------------------------

	// CreateBase persists a new base
	CreateBase(ctx context.Context, base *catalog.Base) error

	// GetBase fetches a base by ID
	GetBase(ctx context.Context, id uuid.UUID) (*catalog.Base, error)

	// ListBases lists bases matching the filter, one page at a time
	ListBases(ctx context.Context, filter catalog.BaseFilter) ([]catalog.Base, error)

	// ---------------------------------------------------------------------------
	// Inventory Operations
	// ---------------------------------------------------------------------------

	// CreateInventory persists a new inventory row
	CreateInventory(ctx context.Context, inventory *catalog.Inventory) error

	// ListInventoriesForColorway lists a colorway's inventory rows with bases
	ListInventoriesForColorway(ctx context.Context, colorwayID uuid.UUID) ([]catalog.Inventory, error)

	// ---------------------------------------------------------------------------
	// Collection Operations
	// ---------------------------------------------------------------------------

	// CreateCollection persists a new collection
	CreateCollection(ctx context.Context, collection *catalog.Collection) error

	// GetCollection fetches a collection by ID
	GetCollection(ctx context.Context, id uuid.UUID) (*catalog.Collection, error)

	// UpdateCollection persists changes to a collection's own fields
	UpdateCollection(ctx context.Context, collection *catalog.Collection) error

	// UpdateCollectionColorways replaces a collection's member set. An empty
	// slice clears the membership rather than leaving it untouched.
	UpdateCollectionColorways(ctx context.Context, collectionID uuid.UUID, colorwayIDs []uuid.UUID) error

	// ---------------------------------------------------------------------------
	// Integration Record Operations
	// ---------------------------------------------------------------------------

	// CreateIntegrationLog appends an audit log entry
	CreateIntegrationLog(ctx context.Context, log *IntegrationLog) error

	// FindExternalIdentifier looks up a mapping by its remote keys.
	// Returns ErrMappingNotFound when no record matches.
	FindExternalIdentifier(ctx context.Context, integrationID uuid.UUID, externalType ExternalType, externalID string) (*ExternalIdentifier, error)

	// FindExternalIdentifierByInternal looks up a mapping by its internal keys.
	// Returns ErrMappingNotFound when no record matches.
	FindExternalIdentifierByInternal(ctx context.Context, integrationID uuid.UUID, internalType InternalType, internalID uuid.UUID, externalType ExternalType) (*ExternalIdentifier, error)

	// CreateExternalIdentifier persists a mapping record. Returns
	// ErrMappingConflict when the remote entity is already mapped.
	CreateExternalIdentifier(ctx context.Context, identifier *ExternalIdentifier) error
}
