package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kushukushu/backend/internal/domain/workflow"
	"github.com/kushukushu/backend/internal/infrastructure/auth"
	"github.com/kushukushu/backend/internal/infrastructure/cache"
	"github.com/kushukushu/backend/internal/infrastructure/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newJWTService(t *testing.T) *auth.JWTService {
	t.Helper()
	return auth.NewJWTService(config.JWTConfig{
		Secret:          "test-secret-key-at-least-32-chars!",
		Issuer:          "kushukushu",
		ExpirationHours: 1,
	})
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	t.Run("generates an ID when absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		router.ServeHTTP(w, req)

		assert.NotEmpty(t, w.Body.String())
		assert.Equal(t, w.Body.String(), w.Header().Get("X-Request-ID"))
	})

	t.Run("honours a caller-supplied ID", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Request-ID", "caller-id")
		router.ServeHTTP(w, req)

		assert.Equal(t, "caller-id", w.Body.String())
	})
}

func TestJWTAuth(t *testing.T) {
	svc := newJWTService(t)
	router := gin.New()
	router.Use(JWTAuth(svc))
	router.GET("/api/v1/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/protected", func(c *gin.Context) {
		actor, ok := GetActor(c)
		require.True(t, ok)
		c.String(http.StatusOK, actor.Name)
	})

	t.Run("skips health endpoint", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects malformed header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(AuthHeaderKey, "Basic abc")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("accepts a valid token and exposes the actor", func(t *testing.T) {
		token, _, err := svc.GenerateToken(auth.GenerateTokenInput{
			Name:     "selam",
			Role:     workflow.RoleAdmin,
			BranchID: "berhane",
		})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "selam", w.Body.String())
	})

	t.Run("rejects a blacklisted token", func(t *testing.T) {
		blacklist := auth.NewInMemoryTokenBlacklist()
		cfg := DefaultJWTConfig(svc)
		cfg.TokenBlacklist = blacklist

		blRouter := gin.New()
		blRouter.Use(JWTAuthWithConfig(cfg))
		blRouter.GET("/protected", func(c *gin.Context) { c.Status(http.StatusOK) })

		token, _, err := svc.GenerateToken(auth.GenerateTokenInput{
			Name: "selam",
			Role: workflow.RoleAdmin,
		})
		require.NoError(t, err)

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		require.NoError(t, blacklist.AddToBlacklist(t.Context(), claims.ID, time.Hour))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
		blRouter.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestIdempotency(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	router := gin.New()
	router.Use(Idempotency(store, time.Minute))
	router.POST("/loans/:id/payments", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/loans", func(c *gin.Context) { c.Status(http.StatusOK) })

	post := func(key string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/loans/abc/payments", nil)
		if key != "" {
			req.Header.Set(IdempotencyKeyHeader, key)
		}
		router.ServeHTTP(w, req)
		return w.Code
	}

	t.Run("duplicate key is rejected", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, post("retry-1"))
		assert.Equal(t, http.StatusConflict, post("retry-1"))
	})

	t.Run("requests without a key always pass", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, post(""))
		assert.Equal(t, http.StatusOK, post(""))
	})

	t.Run("GET requests are never claimed", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/loans", nil)
		req.Header.Set(IdempotencyKeyHeader, "retry-2")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		assert.Equal(t, http.StatusOK, post("retry-2"))
	})
}

func TestBodyLimit(t *testing.T) {
	router := gin.New()
	router.Use(BodyLimit(10))
	router.POST("/echo", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/echo", nil)
	req.ContentLength = 100
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestCORS(t *testing.T) {
	cfg := config.HTTPConfig{
		CORSAllowOrigins: []string{"http://localhost:3000"},
		CORSAllowMethods: []string{"GET", "POST", "PUT"},
		CORSAllowHeaders: []string{"Authorization", "Content-Type"},
	}
	router := gin.New()
	router.Use(CORS(cfg))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("allowed origin gets headers", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		router.ServeHTTP(w, req)

		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin gets none", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", "http://evil.example")
		router.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight is answered with 204", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PUT")
	})
}
