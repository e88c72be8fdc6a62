package sync

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/fibermade/backend/internal/domain/bulk"
	"github.com/fibermade/backend/internal/domain/catalog"
	"github.com/fibermade/backend/internal/domain/integration"
	"github.com/google/uuid"
)

type bulkFixture struct {
	svc       *BulkImportService
	api       *MockCatalogAPI
	runner    *MockQueryRunner
	persisted []bulk.RunStatus
}

func newBulkFixture(t *testing.T) *bulkFixture {
	t.Helper()
	api := new(MockCatalogAPI)
	runner := new(MockQueryRunner)
	store := NewMappingStore(uuid.New(), api)
	pages := NewPaginator(runner, 50, 2, time.Millisecond, zap.NewNop())

	f := &bulkFixture{api: api, runner: runner}
	persist := func(ctx context.Context, run *bulk.SyncRun) error {
		// Every checkpoint must leave the counters consistent
		assert.True(t, run.CountersConsistent())
		f.persisted = append(f.persisted, run.Status)
		return nil
	}

	products := NewProductSyncService(store, api, nil, zap.NewNop())
	collections := NewCollectionSyncService(store, api, pages, zap.NewNop())
	f.svc = NewBulkImportService(products, collections, pages, persist, zap.NewNop())
	return f
}

func productsPageJSON(hasNext bool, cursor string, titles ...string) json.RawMessage {
	edges := make([]map[string]any, 0, len(titles))
	for i, title := range titles {
		edges = append(edges, map[string]any{"node": map[string]any{
			"id":       gidForTitle(title, i),
			"title":    title,
			"status":   "ACTIVE",
			"variants": map[string]any{"edges": []any{}},
		}})
	}
	payload := map[string]any{
		"products": map[string]any{
			"edges":    edges,
			"pageInfo": map[string]any{"hasNextPage": hasNext, "endCursor": cursor},
		},
	}
	data, _ := json.Marshal(payload)
	return data
}

func gidForTitle(title string, i int) string {
	return "gid://shopify/Product/" + title + "-" + string(rune('0'+i))
}

func emptyCollectionsJSON() json.RawMessage {
	payload := map[string]any{
		"collections": map[string]any{
			"edges":    []any{},
			"pageInfo": map[string]any{"hasNextPage": false, "endCursor": ""},
		},
	}
	data, _ := json.Marshal(payload)
	return data
}

func TestBulkImportEmptyStore(t *testing.T) {
	f := newBulkFixture(t)
	ctx := context.Background()
	run, err := bulk.NewSyncRun(uuid.New())
	assert.NoError(t, err)

	// Setup expectations
	f.runner.On("Run", ctx, productsPageQuery, mock.Anything).Return(productsPageJSON(false, ""), nil)
	f.runner.On("Run", ctx, collectionsPageQuery, mock.Anything).Return(emptyCollectionsJSON(), nil)

	// Execute
	err = f.svc.Run(ctx, run)

	// Verify
	assert.NoError(t, err)
	assert.Equal(t, bulk.RunStatusComplete, run.Status)
	assert.Equal(t, 0, run.Total)
	assert.Equal(t, 0, run.Imported)
	assert.Equal(t, 0, run.Failed)
	assert.Contains(t, f.persisted, bulk.RunStatusInProgress)
	assert.Equal(t, bulk.RunStatusComplete, f.persisted[len(f.persisted)-1])
}

func TestBulkImportCountsFailuresPerProduct(t *testing.T) {
	f := newBulkFixture(t)
	ctx := context.Background()
	run, err := bulk.NewSyncRun(uuid.New())
	assert.NoError(t, err)

	// Setup expectations: two products, the second fails at colorway creation
	f.runner.On("Run", ctx, productsPageQuery, mock.Anything).
		Return(productsPageJSON(false, "c1", "Harvest", "Ember"), nil)
	f.runner.On("Run", ctx, collectionsPageQuery, mock.Anything).Return(emptyCollectionsJSON(), nil)

	f.api.On("FindExternalIdentifier", ctx, mock.Anything, integration.ExternalTypeProduct, mock.Anything).
		Return(nil, integration.ErrMappingNotFound)
	f.api.On("CreateColorway", ctx, mock.MatchedBy(func(cw *catalog.Colorway) bool {
		return cw.Name == "Harvest"
	})).Return(nil)
	f.api.On("CreateColorway", ctx, mock.MatchedBy(func(cw *catalog.Colorway) bool {
		return cw.Name == "Ember"
	})).Return(errors.New("catalog unavailable"))
	f.api.On("ListBases", ctx, mock.Anything).Return([]catalog.Base{}, nil)
	f.api.On("CreateExternalIdentifier", ctx, mock.Anything).Return(nil)
	f.api.On("CreateIntegrationLog", ctx, mock.Anything).Return(nil)

	// Execute
	err = f.svc.Run(ctx, run)

	// Verify: a per-product failure does not fail the run
	assert.NoError(t, err)
	assert.Equal(t, bulk.RunStatusComplete, run.Status)
	assert.Equal(t, 2, run.Total)
	assert.Equal(t, 1, run.Imported)
	assert.Equal(t, 1, run.Failed)
	assert.True(t, run.CountersConsistent())
	assert.Len(t, run.Errors, 1)
	assert.Contains(t, run.Errors[0].Message, "catalog unavailable")
}

func TestBulkImportFatalPaginationErrorFailsRun(t *testing.T) {
	f := newBulkFixture(t)
	ctx := context.Background()
	run, err := bulk.NewSyncRun(uuid.New())
	assert.NoError(t, err)

	// Setup expectations: the product walk dies outside the retry budget
	fatal := &integration.RequestError{StatusCode: 500, Err: errors.New("upstream down")}
	f.runner.On("Run", ctx, productsPageQuery, mock.Anything).Return(nil, fatal)

	// Execute
	err = f.svc.Run(ctx, run)

	// Verify
	assert.Error(t, err)
	assert.Equal(t, bulk.RunStatusFailed, run.Status)
	assert.Equal(t, bulk.RunStatusFailed, f.persisted[len(f.persisted)-1])
	f.runner.AssertNotCalled(t, "Run", ctx, collectionsPageQuery, mock.Anything)
}

func TestBulkImportRecoversFromRateLimit(t *testing.T) {
	f := newBulkFixture(t)
	ctx := context.Background()
	run, err := bulk.NewSyncRun(uuid.New())
	assert.NoError(t, err)

	// Setup expectations: first product page attempt throttled, retry succeeds
	throttled := &integration.RequestError{StatusCode: 429, Err: errors.New("throttled")}
	f.runner.On("Run", ctx, productsPageQuery, mock.Anything).Return(nil, throttled).Once()
	f.runner.On("Run", ctx, productsPageQuery, mock.Anything).Return(productsPageJSON(false, ""), nil).Once()
	f.runner.On("Run", ctx, collectionsPageQuery, mock.Anything).Return(emptyCollectionsJSON(), nil)

	// Execute
	err = f.svc.Run(ctx, run)

	// Verify
	assert.NoError(t, err)
	assert.Equal(t, bulk.RunStatusComplete, run.Status)
}

func TestBulkImportCollectionPhaseFailureStaysComplete(t *testing.T) {
	f := newBulkFixture(t)
	ctx := context.Background()
	run, err := bulk.NewSyncRun(uuid.New())
	assert.NoError(t, err)

	// Setup expectations: products import cleanly, collections blow up
	f.runner.On("Run", ctx, productsPageQuery, mock.Anything).Return(productsPageJSON(false, ""), nil)
	f.runner.On("Run", ctx, collectionsPageQuery, mock.Anything).
		Return(nil, &integration.RequestError{StatusCode: 500, Err: errors.New("upstream down")})

	// Execute
	err = f.svc.Run(ctx, run)

	// Verify: the run still reads complete, with the phase error recorded
	assert.NoError(t, err)
	assert.Equal(t, bulk.RunStatusComplete, run.Status)
	assert.Len(t, run.Errors, 1)
	assert.Equal(t, "collections", run.Errors[0].ItemID)
}

func TestBulkImportRunMustBePending(t *testing.T) {
	f := newBulkFixture(t)
	ctx := context.Background()
	run, err := bulk.NewSyncRun(uuid.New())
	assert.NoError(t, err)
	assert.NoError(t, run.Start())
	assert.NoError(t, run.Complete())

	// Execute
	err = f.svc.Run(ctx, run)

	// Verify
	assert.Error(t, err)
}
