package sync

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/fibermade/backend/internal/domain/catalog"
	"github.com/fibermade/backend/internal/domain/integration"
)

func newPushFixture(t *testing.T) (*ProductPushService, *MockCatalogAPI, *MockQueryRunner, uuid.UUID) {
	t.Helper()
	api := new(MockCatalogAPI)
	runner := new(MockQueryRunner)
	integrationID := uuid.New()
	store := NewMappingStore(integrationID, api)
	svc := NewProductPushService(store, api, runner, zap.NewNop())
	return svc, api, runner, integrationID
}

func pushColorwayFixture(t *testing.T) *catalog.Colorway {
	t.Helper()
	colorway, err := catalog.NewColorway("Harvest Moon", "<p>Warm golds.</p>", 1, catalog.ColorwayStatusActive)
	assert.NoError(t, err)

	mdk, err := catalog.NewBase("Merino DK", "MDK", decimal.NewFromInt(28))
	assert.NoError(t, err)
	sock, err := catalog.NewBase("Sock", "SOCK", decimal.NewFromInt(26))
	assert.NoError(t, err)

	invA, err := catalog.NewInventory(colorway.ID, mdk.ID, 6)
	assert.NoError(t, err)
	invA.Base = mdk
	invB, err := catalog.NewInventory(colorway.ID, sock.ID, 3)
	assert.NoError(t, err)
	invB.Base = sock

	colorway.Inventories = []catalog.Inventory{*invA, *invB}
	return colorway
}

func productCreateJSON(productGID string, variants ...map[string]string) json.RawMessage {
	edges := make([]map[string]any, 0, len(variants))
	for _, v := range variants {
		edges = append(edges, map[string]any{"node": map[string]any{
			"id": v["id"], "sku": v["sku"], "title": v["title"],
		}})
	}
	payload := map[string]any{
		"productCreate": map[string]any{
			"product": map[string]any{
				"id":       productGID,
				"variants": map[string]any{"edges": edges},
			},
			"userErrors": []any{},
		},
	}
	data, _ := json.Marshal(payload)
	return data
}

func TestPushColorwaySkipsWhenMapped(t *testing.T) {
	svc, api, runner, integrationID := newPushFixture(t)
	ctx := context.Background()
	colorwayID := uuid.New()

	// Setup expectations
	mapped, _ := integration.NewExternalIdentifier(integrationID, integration.InternalTypeColorway, colorwayID, integration.ExternalTypeProduct, "gid://shopify/Product/9", nil)
	api.On("FindExternalIdentifierByInternal", ctx, integrationID, integration.InternalTypeColorway, colorwayID, integration.ExternalTypeProduct).
		Return(mapped, nil)

	// Execute
	result, err := svc.PushColorway(ctx, colorwayID)

	// Verify
	assert.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Equal(t, "gid://shopify/Product/9", result.RemoteProductID)
	runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything)
}

func TestPushColorwayCreatesRemoteProduct(t *testing.T) {
	svc, api, runner, integrationID := newPushFixture(t)
	ctx := context.Background()
	colorway := pushColorwayFixture(t)

	// Setup expectations
	api.On("FindExternalIdentifierByInternal", ctx, integrationID, integration.InternalTypeColorway, colorway.ID, integration.ExternalTypeProduct).
		Return(nil, integration.ErrMappingNotFound)
	api.On("GetColorway", ctx, colorway.ID).Return(colorway, nil)
	runner.On("Run", ctx, productCreateMutation, mock.MatchedBy(func(vars map[string]any) bool {
		input := vars["input"].(map[string]any)
		variants := input["variants"].([]map[string]any)
		return input["title"] == "Harvest Moon" &&
			input["status"] == "ACTIVE" &&
			len(variants) == 2 &&
			variants[0]["sku"] == "MDK" &&
			variants[0]["price"] == "28"
	})).Return(productCreateJSON("gid://shopify/Product/9",
		map[string]string{"id": "gid://shopify/ProductVariant/91", "sku": "MDK"},
		map[string]string{"id": "gid://shopify/ProductVariant/92", "sku": "SOCK"},
	), nil)
	api.On("CreateExternalIdentifier", ctx, mock.Anything).Return(nil)
	api.On("CreateIntegrationLog", ctx, mock.MatchedBy(func(log *integration.IntegrationLog) bool {
		return log.Status == integration.LogStatusSuccess
	})).Return(nil)

	// Execute
	result, err := svc.PushColorway(ctx, colorway.ID)

	// Verify
	assert.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.Equal(t, "gid://shopify/Product/9", result.RemoteProductID)
	assert.Len(t, result.VariantMappings, 2)
	assert.Equal(t, colorway.Inventories[0].ID, result.VariantMappings[0].InventoryID)
	assert.Equal(t, "gid://shopify/ProductVariant/91", result.VariantMappings[0].RemoteVariantID)
	// One product mapping plus one per variant
	api.AssertNumberOfCalls(t, "CreateExternalIdentifier", 3)
}

func TestPushColorwayZeroInventoryDefaultVariant(t *testing.T) {
	svc, api, runner, integrationID := newPushFixture(t)
	ctx := context.Background()
	colorway, err := catalog.NewColorway("Harvest Moon", "", 1, catalog.ColorwayStatusIdea)
	assert.NoError(t, err)

	// Setup expectations: no inventory still produces one variant named after
	// the colorway, and the idea status maps to DRAFT
	api.On("FindExternalIdentifierByInternal", ctx, integrationID, integration.InternalTypeColorway, colorway.ID, integration.ExternalTypeProduct).
		Return(nil, integration.ErrMappingNotFound)
	api.On("GetColorway", ctx, colorway.ID).Return(colorway, nil)
	runner.On("Run", ctx, productCreateMutation, mock.MatchedBy(func(vars map[string]any) bool {
		input := vars["input"].(map[string]any)
		variants := input["variants"].([]map[string]any)
		if input["status"] != "DRAFT" || len(variants) != 1 {
			return false
		}
		options := variants[0]["options"].([]string)
		return len(options) == 1 && options[0] == "Harvest Moon"
	})).Return(productCreateJSON("gid://shopify/Product/9",
		map[string]string{"id": "gid://shopify/ProductVariant/91", "title": "Harvest Moon"},
	), nil)
	api.On("CreateExternalIdentifier", ctx, mock.Anything).Return(nil)
	api.On("CreateIntegrationLog", ctx, mock.Anything).Return(nil)

	// Execute
	result, err := svc.PushColorway(ctx, colorway.ID)

	// Verify
	assert.NoError(t, err)
	assert.Empty(t, result.VariantMappings)
	api.AssertNumberOfCalls(t, "CreateExternalIdentifier", 1)
}

func TestPushColorwayUserErrorsAbort(t *testing.T) {
	svc, api, runner, integrationID := newPushFixture(t)
	ctx := context.Background()
	colorway := pushColorwayFixture(t)

	rejection := map[string]any{
		"productCreate": map[string]any{
			"product": nil,
			"userErrors": []map[string]any{
				{"field": []string{"title"}, "message": "Title has already been taken"},
			},
		},
	}
	rejectionData, _ := json.Marshal(rejection)

	// Setup expectations
	api.On("FindExternalIdentifierByInternal", ctx, integrationID, integration.InternalTypeColorway, colorway.ID, integration.ExternalTypeProduct).
		Return(nil, integration.ErrMappingNotFound)
	api.On("GetColorway", ctx, colorway.ID).Return(colorway, nil)
	runner.On("Run", ctx, productCreateMutation, mock.Anything).Return(json.RawMessage(rejectionData), nil)
	api.On("CreateIntegrationLog", ctx, mock.MatchedBy(func(log *integration.IntegrationLog) bool {
		return log.Status == integration.LogStatusError
	})).Return(nil)

	// Execute
	_, err := svc.PushColorway(ctx, colorway.ID)

	// Verify: nothing was mapped, the caller sees the rejection
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Title has already been taken")
	api.AssertNotCalled(t, "CreateExternalIdentifier", mock.Anything, mock.Anything)
	api.AssertExpectations(t)
}
