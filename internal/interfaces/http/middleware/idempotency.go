package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kushukushu/backend/internal/infrastructure/cache"
	"github.com/kushukushu/backend/internal/interfaces/http/dto"
)

// IdempotencyKeyHeader is the client-supplied retry key
const IdempotencyKeyHeader = "Idempotency-Key"

// Idempotency rejects a repeated mutating request carrying the same
// Idempotency-Key within the TTL window. Requests without the header pass
// through untouched; sending the key is the client's opt-in.
func Idempotency(store cache.IdempotencyStore, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		// Scope the key to the route so the same key can be reused across
		// different endpoints.
		scoped := c.Request.Method + ":" + c.FullPath() + ":" + key

		claimed, err := store.SetIfAbsent(c.Request.Context(), scoped, ttl)
		if err != nil {
			// Fail open; duplicate suppression is best effort
			c.Next()
			return
		}
		if !claimed {
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeAlreadyExists,
				"Request with this idempotency key was already processed",
				GetRequestID(c)))
			return
		}
		c.Next()
	}
}
