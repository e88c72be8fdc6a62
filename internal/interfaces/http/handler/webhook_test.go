package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fibermade/backend/internal/application/sync"
	"github.com/fibermade/backend/internal/domain/integration"
	"github.com/fibermade/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProductImporter struct {
	got    []integration.RemoteProduct
	result *sync.ProductImportResult
	err    error
}

func (s *stubProductImporter) ImportProduct(_ context.Context, product integration.RemoteProduct) (*sync.ProductImportResult, error) {
	s.got = append(s.got, product)
	return s.result, s.err
}

type stubCollectionImporter struct {
	got    []integration.RemoteCollection
	result *sync.CollectionImportResult
	err    error
}

func (s *stubCollectionImporter) ImportCollection(_ context.Context, collection integration.RemoteCollection) (*sync.CollectionImportResult, error) {
	s.got = append(s.got, collection)
	return s.result, s.err
}

func newWebhookTestServer(products *stubProductImporter, collections *stubCollectionImporter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	h := NewWebhookHandler(products, collections, zap.NewNop())
	h.RegisterRoutes(engine.Group("/webhooks"))
	return engine
}

func postWebhook(t *testing.T, engine *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestWebhookHandler_HandleProduct(t *testing.T) {
	payload := `{
		"id": 632910392,
		"title": "Ember",
		"body_html": "<p>Deep orange.</p>",
		"handle": "ember",
		"status": "active",
		"variants": [
			{"id": 808950810, "title": "Worsted", "sku": "EMB-W", "price": "28.00", "grams": 100, "weight_unit": "g"}
		]
	}`

	t.Run("normalizes payload and imports", func(t *testing.T) {
		products := &stubProductImporter{
			result: &sync.ProductImportResult{ColorwayID: uuid.New()},
		}
		engine := newWebhookTestServer(products, &stubCollectionImporter{})

		w := postWebhook(t, engine, "/webhooks/shopify/products", payload)

		assert.Equal(t, http.StatusOK, w.Code)
		require.Len(t, products.got, 1)
		got := products.got[0]
		assert.Equal(t, "gid://shopify/Product/632910392", got.ID)
		assert.Equal(t, "Ember", got.Title)
		assert.Equal(t, integration.RemoteStatusActive, got.Status)
		require.Len(t, got.Variants, 1)
		assert.Equal(t, "gid://shopify/ProductVariant/808950810", got.Variants[0].ID)
		assert.Equal(t, "28.00", got.Variants[0].Price.StringFixed(2))

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
	})

	t.Run("acknowledges malformed payload without importing", func(t *testing.T) {
		products := &stubProductImporter{}
		engine := newWebhookTestServer(products, &stubCollectionImporter{})

		w := postWebhook(t, engine, "/webhooks/shopify/products", `{"title": "no id"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, products.got)
	})

	t.Run("acknowledges when import fails", func(t *testing.T) {
		products := &stubProductImporter{err: assert.AnError}
		engine := newWebhookTestServer(products, &stubCollectionImporter{})

		w := postWebhook(t, engine, "/webhooks/shopify/products", payload)

		assert.Equal(t, http.StatusOK, w.Code)
		require.Len(t, products.got, 1)
	})
}

func TestWebhookHandler_HandleCollection(t *testing.T) {
	payload := `{
		"id": 841564295,
		"title": "Autumn Collection",
		"body_html": "<p>Warm tones.</p>",
		"handle": "autumn-collection"
	}`

	t.Run("normalizes payload and imports", func(t *testing.T) {
		collections := &stubCollectionImporter{
			result: &sync.CollectionImportResult{CollectionID: uuid.New()},
		}
		engine := newWebhookTestServer(&stubProductImporter{}, collections)

		w := postWebhook(t, engine, "/webhooks/shopify/collections", payload)

		assert.Equal(t, http.StatusOK, w.Code)
		require.Len(t, collections.got, 1)
		assert.Equal(t, "gid://shopify/Collection/841564295", collections.got[0].ID)
		assert.Equal(t, "Autumn Collection", collections.got[0].Title)
	})

	t.Run("acknowledges malformed payload without importing", func(t *testing.T) {
		collections := &stubCollectionImporter{}
		engine := newWebhookTestServer(&stubProductImporter{}, collections)

		w := postWebhook(t, engine, "/webhooks/shopify/collections", `not json`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, collections.got)
	})
}
