package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	invapp "github.com/kushukushu/backend/internal/application/inventory"
	wfapp "github.com/kushukushu/backend/internal/application/workflow"
	"github.com/kushukushu/backend/internal/domain/inventory"
	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/kushukushu/backend/internal/domain/shared/valueobject"
	"github.com/kushukushu/backend/internal/domain/workflow"
	"github.com/kushukushu/backend/internal/infrastructure/auth"
	"github.com/kushukushu/backend/internal/infrastructure/config"
	"github.com/kushukushu/backend/internal/infrastructure/persistence"
	"github.com/kushukushu/backend/internal/interfaces/http/dto"
	"github.com/kushukushu/backend/internal/interfaces/http/middleware"
	"github.com/kushukushu/backend/internal/interfaces/http/router"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	engine *gin.Engine
	jwt    *auth.JWTService
	db     *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, persistence.AutoMigrate(db))

	bus := shared.NewInProcessEventBus(nil)
	engine := invapp.NewEngine(bus)

	stockRequests := wfapp.NewStockRequestService(
		persistence.NewGormWorkflowScope(db),
		persistence.NewGormStockRequestRepository(db),
		engine,
		bus,
	)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:          "test-secret-key-at-least-32-chars!",
		Issuer:          "kushukushu",
		ExpirationHours: 1,
	})

	ginEngine := gin.New()
	ginEngine.Use(middleware.RequestID())
	ginEngine.Use(middleware.JWTAuth(jwtService))

	r := router.NewRouter(ginEngine)
	r.Register(NewStockRequestHandler(stockRequests))
	r.Setup()

	return &testServer{engine: ginEngine, jwt: jwtService, db: db}
}

func (s *testServer) token(t *testing.T, name string, role workflow.Role) string {
	t.Helper()
	token, _, err := s.jwt.GenerateToken(auth.GenerateTokenInput{Name: name, Role: role})
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(middleware.AuthHeaderKey, middleware.BearerPrefix+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func seedSourceStock(t *testing.T, db *gorm.DB, quantity int64) {
	t.Helper()
	item, err := inventory.NewInventoryItem("1st Quality 50kg", valueobject.BranchBerhane, inventory.UnitKilogram, "flour")
	require.NoError(t, err)
	require.NoError(t, item.Add(decimal.NewFromInt(quantity)))
	require.NoError(t, persistence.NewGormInventoryItemRepository(db).Save(t.Context(), item))
}

func TestStockRequestEndpoints(t *testing.T) {
	srv := newTestServer(t)
	seedSourceStock(t, srv.db, 1000)

	salesToken := srv.token(t, "selam", workflow.RoleSales)
	adminToken := srv.token(t, "haben", workflow.RoleAdmin)

	createBody := map[string]any{
		"source_branch":      "berhane",
		"destination_branch": "girmay",
		"product_name":       "1st Quality 50kg",
		"package_size":       "50",
		"quantity":           "10",
		"reason":             "restock",
	}

	t.Run("requires authentication", func(t *testing.T) {
		w := srv.do(t, http.MethodPost, "/api/v1/stock-requests", "", createBody)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	var requestID string

	t.Run("create", func(t *testing.T) {
		w := srv.do(t, http.MethodPost, "/api/v1/stock-requests", salesToken, createBody)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		resp := decodeResponse(t, w)
		require.True(t, resp.Success)
		data := resp.Data.(map[string]any)
		assert.Equal(t, "pending_admin_approval", data["status"])
		requestID = data["id"].(string)
	})

	t.Run("admin approval reserves stock", func(t *testing.T) {
		w := srv.do(t, http.MethodPut, "/api/v1/stock-requests/"+requestID+"/approve-admin", adminToken, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := decodeResponse(t, w)
		data := resp.Data.(map[string]any)
		assert.Equal(t, "pending_manager_approval", data["status"])

		item, err := persistence.NewGormInventoryItemRepository(srv.db).
			FindByProductAndBranch(t.Context(), "1st Quality 50kg", valueobject.BranchBerhane)
		require.NoError(t, err)
		assert.True(t, item.ReservedQuantity.Equal(decimal.NewFromInt(500)), "got %s", item.ReservedQuantity)
	})

	t.Run("repeated approval conflicts", func(t *testing.T) {
		w := srv.do(t, http.MethodPut, "/api/v1/stock-requests/"+requestID+"/approve-admin", adminToken, nil)
		assert.Equal(t, http.StatusConflict, w.Code)

		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeInvalidStage, resp.Error.Code)
	})

	t.Run("wrong role is rejected", func(t *testing.T) {
		w := srv.do(t, http.MethodPut, "/api/v1/stock-requests/"+requestID+"/approve-manager", salesToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("unknown request is 404", func(t *testing.T) {
		w := srv.do(t, http.MethodGet, "/api/v1/stock-requests/00000000-0000-0000-0000-000000000001", salesToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid id is 400", func(t *testing.T) {
		w := srv.do(t, http.MethodGet, "/api/v1/stock-requests/not-a-uuid", salesToken, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("list by status", func(t *testing.T) {
		w := srv.do(t, http.MethodGet, "/api/v1/stock-requests?status=pending_manager_approval", salesToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		resp := decodeResponse(t, w)
		items := resp.Data.([]any)
		require.Len(t, items, 1)
	})
}

func TestStockRequestValidation(t *testing.T) {
	srv := newTestServer(t)
	salesToken := srv.token(t, "selam", workflow.RoleSales)

	t.Run("missing product name", func(t *testing.T) {
		w := srv.do(t, http.MethodPost, "/api/v1/stock-requests", salesToken, map[string]any{
			"source_branch": "berhane",
			"quantity":      "10",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown branch", func(t *testing.T) {
		w := srv.do(t, http.MethodPost, "/api/v1/stock-requests", salesToken, map[string]any{
			"source_branch":      "addis",
			"destination_branch": "girmay",
			"product_name":       "1st Quality 50kg",
			"package_size":       "50",
			"quantity":           "10",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	})
}
