package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fibermade/backend/internal/interfaces/http/dto"
)

func newSystemRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	NewSystemHandler().RegisterRoutes(engine.Group("/"))
	return engine
}

func TestSystemHandler(t *testing.T) {
	engine := newSystemRouter()

	t.Run("info reports name, version and uptime", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/system/info", nil))

		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)

		data, ok := resp.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Fibermade Backend API", data["name"])
		assert.Equal(t, "1.0.0", data["version"])
		assert.NotEmpty(t, data["go_version"])
		assert.NotEmpty(t, data["uptime"])
	})

	t.Run("ping answers pong with a parseable timestamp", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/system/ping", nil))

		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		data, ok := resp.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "pong", data["message"])

		ts, ok := data["timestamp"].(string)
		require.True(t, ok)
		_, err := time.Parse(time.RFC3339, ts)
		assert.NoError(t, err)
	})
}
