package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Thermopoudre/ThermoGestion-sub003/internal/infrastructure/logger"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTenantEngine(seen func(c *gin.Context)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Tenant(DefaultTenantConfig()))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/api/v1/jobs/:id/transition", func(c *gin.Context) {
		seen(c)
		c.Status(http.StatusOK)
	})
	return r
}

func TestTenant(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()

	t.Run("stores tenant and user in gin and request context", func(t *testing.T) {
		var gotTenant uuid.UUID
		var gotUser *uuid.UUID
		var ctxTenant string
		r := newTenantEngine(func(c *gin.Context) {
			gotTenant = GetTenantID(c)
			gotUser = GetUserID(c)
			ctxTenant = logger.GetTenantID(c.Request.Context())
		})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/x/transition", nil)
		req.Header.Set(TenantHeaderKey, tenantID.String())
		req.Header.Set(UserHeaderKey, userID.String())
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, tenantID, gotTenant)
		require.NotNil(t, gotUser)
		assert.Equal(t, userID, *gotUser)
		assert.Equal(t, tenantID.String(), ctxTenant)
	})

	t.Run("user header is optional", func(t *testing.T) {
		var gotUser *uuid.UUID
		r := newTenantEngine(func(c *gin.Context) { gotUser = GetUserID(c) })

		req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/x/transition", nil)
		req.Header.Set(TenantHeaderKey, tenantID.String())
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Nil(t, gotUser)
	})

	t.Run("rejects a missing tenant", func(t *testing.T) {
		called := false
		r := newTenantEngine(func(*gin.Context) { called = true })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/jobs/x/transition", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, called)
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrCodeMissingTenant, resp.Error.Code)
	})

	t.Run("rejects a malformed user", func(t *testing.T) {
		r := newTenantEngine(func(*gin.Context) {})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/x/transition", nil)
		req.Header.Set(TenantHeaderKey, tenantID.String())
		req.Header.Set(UserHeaderKey, "bob")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("skips health checks", func(t *testing.T) {
		r := newTenantEngine(func(*gin.Context) {})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
