package sync

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/fibermade/backend/internal/domain/catalog"
	"github.com/fibermade/backend/internal/domain/integration"
)

// MockCatalogAPI is a mock implementation of integration.CatalogAPI
type MockCatalogAPI struct {
	mock.Mock
}

var _ integration.CatalogAPI = (*MockCatalogAPI)(nil)

func (m *MockCatalogAPI) CreateColorway(ctx context.Context, colorway *catalog.Colorway) error {
	args := m.Called(ctx, colorway)
	return args.Error(0)
}

func (m *MockCatalogAPI) GetColorway(ctx context.Context, id uuid.UUID) (*catalog.Colorway, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Colorway), args.Error(1)
}

func (m *MockCatalogAPI) CreateBase(ctx context.Context, base *catalog.Base) error {
	args := m.Called(ctx, base)
	return args.Error(0)
}

func (m *MockCatalogAPI) GetBase(ctx context.Context, id uuid.UUID) (*catalog.Base, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Base), args.Error(1)
}

func (m *MockCatalogAPI) ListBases(ctx context.Context, filter catalog.BaseFilter) ([]catalog.Base, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Base), args.Error(1)
}

func (m *MockCatalogAPI) CreateInventory(ctx context.Context, inventory *catalog.Inventory) error {
	args := m.Called(ctx, inventory)
	return args.Error(0)
}

func (m *MockCatalogAPI) ListInventoriesForColorway(ctx context.Context, colorwayID uuid.UUID) ([]catalog.Inventory, error) {
	args := m.Called(ctx, colorwayID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Inventory), args.Error(1)
}

func (m *MockCatalogAPI) CreateCollection(ctx context.Context, collection *catalog.Collection) error {
	args := m.Called(ctx, collection)
	return args.Error(0)
}

func (m *MockCatalogAPI) GetCollection(ctx context.Context, id uuid.UUID) (*catalog.Collection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Collection), args.Error(1)
}

func (m *MockCatalogAPI) UpdateCollection(ctx context.Context, collection *catalog.Collection) error {
	args := m.Called(ctx, collection)
	return args.Error(0)
}

func (m *MockCatalogAPI) UpdateCollectionColorways(ctx context.Context, collectionID uuid.UUID, colorwayIDs []uuid.UUID) error {
	args := m.Called(ctx, collectionID, colorwayIDs)
	return args.Error(0)
}

func (m *MockCatalogAPI) CreateIntegrationLog(ctx context.Context, log *integration.IntegrationLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockCatalogAPI) FindExternalIdentifier(ctx context.Context, integrationID uuid.UUID, externalType integration.ExternalType, externalID string) (*integration.ExternalIdentifier, error) {
	args := m.Called(ctx, integrationID, externalType, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.ExternalIdentifier), args.Error(1)
}

func (m *MockCatalogAPI) FindExternalIdentifierByInternal(ctx context.Context, integrationID uuid.UUID, internalType integration.InternalType, internalID uuid.UUID, externalType integration.ExternalType) (*integration.ExternalIdentifier, error) {
	args := m.Called(ctx, integrationID, internalType, internalID, externalType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.ExternalIdentifier), args.Error(1)
}

func (m *MockCatalogAPI) CreateExternalIdentifier(ctx context.Context, identifier *integration.ExternalIdentifier) error {
	args := m.Called(ctx, identifier)
	return args.Error(0)
}

// MockQueryRunner is a mock implementation of integration.QueryRunner
type MockQueryRunner struct {
	mock.Mock
}

var _ integration.QueryRunner = (*MockQueryRunner)(nil)

func (m *MockQueryRunner) Run(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	args := m.Called(ctx, query, variables)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}
