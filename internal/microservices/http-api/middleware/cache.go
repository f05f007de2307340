package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CacheInvalidator is anything holding derived data that a write makes stale.
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

// InvalidateOnWrite drops cached figures after every successful mutating request.
func InvalidateOnWrite(cache CacheInvalidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return
		}
		if c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		cache.Invalidate(c.Request.Context())
	}
}
