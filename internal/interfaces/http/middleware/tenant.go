// Package middleware provides HTTP middleware for the ThermoGestion API.
package middleware

import (
	"strings"

	"github.com/Thermopoudre/ThermoGestion-sub003/internal/infrastructure/logger"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Header and gin context keys for the caller identity
const (
	TenantHeaderKey = "X-Tenant-ID"
	UserHeaderKey   = "X-User-ID"
	TenantIDKey     = "tenant_id"
	UserIDKey       = "user_id"
)

// TenantConfig holds configuration for the tenant middleware
type TenantConfig struct {
	// SkipPaths don't require tenant context (health checks)
	SkipPaths []string
}

// DefaultTenantConfig returns the default tenant middleware configuration
func DefaultTenantConfig() TenantConfig {
	return TenantConfig{
		SkipPaths: []string{"/health", "/ready"},
	}
}

// Tenant requires a UUID X-Tenant-ID header and accepts an optional UUID X-User-ID.
// Both are stored in the gin context and in the request context for logging.
func Tenant(cfg TenantConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if path == skip || strings.HasPrefix(path, skip+"/") {
				c.Next()
				return
			}
		}

		tenantID, err := uuid.Parse(c.GetHeader(TenantHeaderKey))
		if err != nil || tenantID == uuid.Nil {
			abort(c, dto.ErrCodeMissingTenant, "X-Tenant-ID header must be a tenant UUID")
			return
		}
		c.Set(TenantIDKey, tenantID)
		ctx := logger.WithTenantID(c.Request.Context(), tenantID.String())

		if raw := c.GetHeader(UserHeaderKey); raw != "" {
			userID, err := uuid.Parse(raw)
			if err != nil {
				abort(c, dto.ErrCodeValidationFormat, "X-User-ID header must be a UUID")
				return
			}
			c.Set(UserIDKey, userID)
			ctx = logger.WithUserID(ctx, userID.String())
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetTenantID returns the tenant set by Tenant, or uuid.Nil
func GetTenantID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(TenantIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// GetUserID returns the acting user set by Tenant, or nil when the header was absent
func GetUserID(c *gin.Context) *uuid.UUID {
	if v, ok := c.Get(UserIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return &id
		}
	}
	return nil
}

func abort(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(
		code, message, logger.GetRequestID(c.Request.Context()),
	))
}
