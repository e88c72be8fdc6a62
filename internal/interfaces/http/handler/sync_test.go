package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fibermade/backend/internal/application/sync"
	"github.com/fibermade/backend/internal/domain/bulk"
	"github.com/fibermade/backend/internal/domain/catalog"
	"github.com/fibermade/backend/internal/domain/integration"
	"github.com/fibermade/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunHistory struct {
	latest    *bulk.SyncRun
	latestErr error
	byID      map[uuid.UUID]*bulk.SyncRun
	runs      []bulk.SyncRun
}

func (s *stubRunHistory) GetRun(_ context.Context, id uuid.UUID) (*bulk.SyncRun, error) {
	if run, ok := s.byID[id]; ok {
		return run, nil
	}
	return nil, bulk.ErrRunNotFound
}

func (s *stubRunHistory) LatestRun(_ context.Context, _ uuid.UUID) (*bulk.SyncRun, error) {
	return s.latest, s.latestErr
}

func (s *stubRunHistory) ListRuns(_ context.Context, _ uuid.UUID, _ int) ([]bulk.SyncRun, error) {
	return s.runs, nil
}

type stubRunWriter struct {
	saved []*bulk.SyncRun
	err   error
}

func (s *stubRunWriter) Save(_ context.Context, run *bulk.SyncRun) error {
	s.saved = append(s.saved, run)
	return s.err
}

type stubImporter struct {
	started chan *bulk.SyncRun
}

func (s *stubImporter) Run(_ context.Context, run *bulk.SyncRun) error {
	s.started <- run
	return nil
}

type stubPusher struct {
	result *sync.PushResult
	err    error
}

func (s *stubPusher) PushColorway(_ context.Context, _ uuid.UUID) (*sync.PushResult, error) {
	return s.result, s.err
}

type stubLogLister struct {
	gotFilter integration.IntegrationLogFilter
	logs      []integration.IntegrationLog
	err       error
}

func (s *stubLogLister) ListIntegrationLogs(_ context.Context, _ uuid.UUID, filter integration.IntegrationLogFilter) ([]integration.IntegrationLog, error) {
	s.gotFilter = filter
	return s.logs, s.err
}

type syncHandlerFixture struct {
	engine   *gin.Engine
	history  *stubRunHistory
	writer   *stubRunWriter
	importer *stubImporter
	pusher   *stubPusher
	logs     *stubLogLister
}

func newSyncHandlerFixture() *syncHandlerFixture {
	gin.SetMode(gin.TestMode)

	f := &syncHandlerFixture{
		history:  &stubRunHistory{byID: make(map[uuid.UUID]*bulk.SyncRun)},
		writer:   &stubRunWriter{},
		importer: &stubImporter{started: make(chan *bulk.SyncRun, 1)},
		pusher:   &stubPusher{},
		logs:     &stubLogLister{},
	}

	h := NewSyncHandler(
		uuid.New(),
		f.importer,
		f.history,
		f.writer,
		f.pusher,
		f.logs,
		20,
		zap.NewNop(),
	)

	f.engine = gin.New()
	h.RegisterRoutes(f.engine.Group("/api/v1"))
	return f
}

func (f *syncHandlerFixture) do(method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSyncHandler_StartImport(t *testing.T) {
	t.Run("starts a run when none is in progress", func(t *testing.T) {
		f := newSyncHandlerFixture()

		w := f.do(http.MethodPost, "/api/v1/sync/import")

		assert.Equal(t, http.StatusAccepted, w.Code)
		require.Len(t, f.writer.saved, 1)
		assert.Equal(t, bulk.RunStatusPending, f.writer.saved[0].Status)

		resp := decodeResponse(t, w)
		assert.True(t, resp.Success)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, string(bulk.RunStatusPending), data["status"])

		select {
		case run := <-f.importer.started:
			assert.Equal(t, f.writer.saved[0].ID, run.ID)
		case <-time.After(time.Second):
			t.Fatal("importer was not invoked")
		}
	})

	t.Run("refuses when a run is in progress", func(t *testing.T) {
		f := newSyncHandlerFixture()
		running, err := bulk.NewSyncRun(uuid.New())
		require.NoError(t, err)
		require.NoError(t, running.Start())
		f.history.latest = running

		w := f.do(http.MethodPost, "/api/v1/sync/import")

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Empty(t, f.writer.saved)

		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeSyncInProgress, resp.Error.Code)
	})

	t.Run("allows a new run after a terminal one", func(t *testing.T) {
		f := newSyncHandlerFixture()
		done, err := bulk.NewSyncRun(uuid.New())
		require.NoError(t, err)
		require.NoError(t, done.Start())
		require.NoError(t, done.Complete())
		f.history.latest = done

		w := f.do(http.MethodPost, "/api/v1/sync/import")

		assert.Equal(t, http.StatusAccepted, w.Code)
		require.Len(t, f.writer.saved, 1)
		<-f.importer.started
	})
}

func TestSyncHandler_GetRun(t *testing.T) {
	t.Run("returns a run by ID", func(t *testing.T) {
		f := newSyncHandlerFixture()
		run, err := bulk.NewSyncRun(uuid.New())
		require.NoError(t, err)
		run.Total = 12
		run.Imported = 10
		run.Failed = 2
		f.history.byID[run.ID] = run

		w := f.do(http.MethodGet, "/api/v1/sync/import/"+run.ID.String())

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, run.ID.String(), data["id"])
		assert.Equal(t, float64(12), data["total"])
		assert.Equal(t, float64(10), data["imported"])
		assert.Equal(t, float64(2), data["failed"])
	})

	t.Run("returns 404 for an unknown run", func(t *testing.T) {
		f := newSyncHandlerFixture()

		w := f.do(http.MethodGet, "/api/v1/sync/import/"+uuid.NewString())

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("returns 400 for a malformed ID", func(t *testing.T) {
		f := newSyncHandlerFixture()

		w := f.do(http.MethodGet, "/api/v1/sync/import/not-a-uuid")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSyncHandler_ListRuns(t *testing.T) {
	f := newSyncHandlerFixture()
	first, err := bulk.NewSyncRun(uuid.New())
	require.NoError(t, err)
	second, err := bulk.NewSyncRun(uuid.New())
	require.NoError(t, err)
	f.history.runs = []bulk.SyncRun{*second, *first}

	w := f.do(http.MethodGet, "/api/v1/sync/runs")

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data := resp.Data.([]interface{})
	assert.Len(t, data, 2)
}

func TestSyncHandler_PushColorway(t *testing.T) {
	t.Run("pushes a colorway and returns 201", func(t *testing.T) {
		f := newSyncHandlerFixture()
		colorwayID := uuid.New()
		inventoryID := uuid.New()
		f.pusher.result = &sync.PushResult{
			RemoteProductID: "gid://shopify/Product/42",
			ColorwayID:      colorwayID,
			VariantMappings: []sync.VariantMapping{
				{InventoryID: inventoryID, RemoteVariantID: "gid://shopify/ProductVariant/43"},
			},
		}

		w := f.do(http.MethodPost, "/api/v1/sync/push/"+colorwayID.String())

		assert.Equal(t, http.StatusCreated, w.Code)
		resp := decodeResponse(t, w)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "gid://shopify/Product/42", data["remote_product_id"])
		assert.Equal(t, false, data["skipped"])
		variants := data["variants"].([]interface{})
		require.Len(t, variants, 1)
		variant := variants[0].(map[string]interface{})
		assert.Equal(t, inventoryID.String(), variant["inventory_id"])
	})

	t.Run("returns 200 when the colorway was already pushed", func(t *testing.T) {
		f := newSyncHandlerFixture()
		colorwayID := uuid.New()
		f.pusher.result = &sync.PushResult{
			RemoteProductID: "gid://shopify/Product/42",
			ColorwayID:      colorwayID,
			Skipped:         true,
		}

		w := f.do(http.MethodPost, "/api/v1/sync/push/"+colorwayID.String())

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, true, data["skipped"])
	})

	t.Run("returns 404 for an unknown colorway", func(t *testing.T) {
		f := newSyncHandlerFixture()
		f.pusher.err = catalog.ErrColorwayNotFound

		w := f.do(http.MethodPost, "/api/v1/sync/push/"+uuid.NewString())

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("returns 429 when the storefront throttles", func(t *testing.T) {
		f := newSyncHandlerFixture()
		f.pusher.err = &integration.RequestError{StatusCode: http.StatusTooManyRequests, Err: assert.AnError}

		w := f.do(http.MethodPost, "/api/v1/sync/push/"+uuid.NewString())

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})

	t.Run("returns 502 on other storefront failures", func(t *testing.T) {
		f := newSyncHandlerFixture()
		f.pusher.err = &integration.RequestError{StatusCode: http.StatusInternalServerError, Err: assert.AnError}

		w := f.do(http.MethodPost, "/api/v1/sync/push/"+uuid.NewString())

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("returns 400 for a malformed colorway ID", func(t *testing.T) {
		f := newSyncHandlerFixture()

		w := f.do(http.MethodPost, "/api/v1/sync/push/nope")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSyncHandler_ListLogs(t *testing.T) {
	t.Run("lists audit entries with filters", func(t *testing.T) {
		f := newSyncHandlerFixture()
		f.logs.logs = []integration.IntegrationLog{
			{
				ID:           uuid.New(),
				LoggableType: "product",
				LoggableID:   "gid://shopify/Product/42",
				Status:       integration.LogStatusSuccess,
				Message:      "imported",
				SyncedAt:     time.Now(),
			},
		}

		w := f.do(http.MethodGet, "/api/v1/sync/logs?status=success&loggable_type=product&page=2&page_size=10")

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, f.logs.gotFilter.Status)
		assert.Equal(t, integration.LogStatusSuccess, *f.logs.gotFilter.Status)
		assert.Equal(t, "product", f.logs.gotFilter.LoggableType)
		assert.Equal(t, 2, f.logs.gotFilter.Page)
		assert.Equal(t, 10, f.logs.gotFilter.PageSize)

		resp := decodeResponse(t, w)
		data := resp.Data.([]interface{})
		assert.Len(t, data, 1)
	})

	t.Run("rejects an unknown status filter", func(t *testing.T) {
		f := newSyncHandlerFixture()

		w := f.do(http.MethodGet, "/api/v1/sync/logs?status=bogus")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
