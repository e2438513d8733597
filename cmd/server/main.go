package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	finapp "github.com/kushukushu/backend/internal/application/finance"
	invapp "github.com/kushukushu/backend/internal/application/inventory"
	prodapp "github.com/kushukushu/backend/internal/application/production"
	wfapp "github.com/kushukushu/backend/internal/application/workflow"
	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/kushukushu/backend/internal/infrastructure/auth"
	"github.com/kushukushu/backend/internal/infrastructure/cache"
	"github.com/kushukushu/backend/internal/infrastructure/config"
	"github.com/kushukushu/backend/internal/infrastructure/logger"
	"github.com/kushukushu/backend/internal/infrastructure/persistence"
	"github.com/kushukushu/backend/internal/interfaces/http/handler"
	"github.com/kushukushu/backend/internal/interfaces/http/middleware"
	"github.com/kushukushu/backend/internal/interfaces/http/router"
)

const (
	bodyLimitBytes = 1 << 20
	idempotencyTTL = 24 * time.Hour
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Schema changes ship through cmd/migrate. AutoMigrate keeps local
	// development databases in sync without running migrations by hand.
	if cfg.App.Env == "development" {
		if err := persistence.AutoMigrate(db.DB); err != nil {
			log.Fatal("Failed to auto-migrate schema", zap.Error(err))
		}
	}

	// Redis is optional: token revocation and idempotency fall back to
	// in-process stores when it is unavailable.
	var tokenBlacklist auth.TokenBlacklist
	var idempotencyStore cache.IdempotencyStore
	redisClient, err := auth.NewRedisClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Warn("Redis unavailable, falling back to in-memory stores", zap.Error(err))
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
		idempotencyStore = cache.NewInMemoryIdempotencyStore()
	} else {
		defer func() {
			_ = redisClient.Close()
		}()
		tokenBlacklist = auth.NewRedisTokenBlacklist(redisClient)
		idempotencyStore = cache.NewRedisIdempotencyStore(redisClient)
		log.Info("Redis connected successfully")
	}

	// Event bus and the inventory movement engine
	bus := shared.NewInProcessEventBus(func(event shared.DomainEvent, err error) {
		log.Error("Event handler failed",
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
	})
	alertHandler := invapp.NewStockBelowThresholdHandler(log)
	bus.Subscribe(alertHandler, alertHandler.EventTypes()...)

	engine := invapp.NewEngine(bus)

	// Repositories
	itemRepo := persistence.NewGormInventoryItemRepository(db.DB)
	ledgerRepo := persistence.NewGormInventoryTransactionRepository(db.DB)
	adjustRepo := persistence.NewGormStockAdjustmentRepository(db.DB)
	requestRepo := persistence.NewGormStockRequestRepository(db.DB)
	requisitionRepo := persistence.NewGormPurchaseRequisitionRepository(db.DB)
	loanRepo := persistence.NewGormLoanRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	salesRepo := persistence.NewGormSalesTransactionRepository(db.DB)
	reconRepo := persistence.NewGormReconciliationRepository(db.DB)
	millingRepo := persistence.NewGormMillingOrderRepository(db.DB)
	activityRepo := persistence.NewGormActivityRepository(db.DB)

	// Transaction scopes
	inventoryScope := persistence.NewGormInventoryScope(db.DB)
	workflowScope := persistence.NewGormWorkflowScope(db.DB)
	financeScope := persistence.NewGormFinanceScope(db.DB)
	productionScope := persistence.NewGormProductionScope(db.DB)

	// Application services
	inventoryService := invapp.NewInventoryService(inventoryScope, itemRepo, ledgerRepo, adjustRepo, engine)
	inventoryService.SetActivityRepository(activityRepo)

	stockRequestService := wfapp.NewStockRequestService(workflowScope, requestRepo, engine, bus)

	purchaseService := wfapp.NewPurchaseService(workflowScope, requisitionRepo, bus, cfg.Approval.AdminThreshold)

	salesService := finapp.NewSalesService(financeScope, salesRepo, engine)
	loanService := finapp.NewLoanService(financeScope, loanRepo, customerRepo, bus)
	reconciliationService := finapp.NewReconciliationService(financeScope, salesRepo, reconRepo, bus, cfg.Approval.ReconciliationTolerance)

	productionService := prodapp.NewProductionService(productionScope, millingRepo, engine)

	// JWT authentication
	jwtService := auth.NewJWTService(cfg.JWT)

	// Setup gin engine with middleware
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	ginEngine := gin.New()
	if err := ginEngine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	ginEngine.Use(middleware.RequestID())
	ginEngine.Use(middleware.CORS(cfg.HTTP))
	ginEngine.Use(middleware.BodyLimit(bodyLimitBytes))
	ginEngine.Use(logger.GinMiddleware(log))
	ginEngine.Use(logger.Recovery(log))
	ginEngine.Use(middleware.JWTAuthWithConfig(middleware.JWTConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		SkipPaths: []string{
			"/health",
			"/api/v1/health",
		},
		Logger: log,
	}))
	ginEngine.Use(middleware.Idempotency(idempotencyStore, idempotencyTTL))

	// Register routes
	router.NewRouter(ginEngine).
		Register(handler.NewHealthHandler(db)).
		Register(handler.NewInventoryHandler(inventoryService)).
		Register(handler.NewStockRequestHandler(stockRequestService)).
		Register(handler.NewPurchaseHandler(purchaseService)).
		Register(handler.NewFinanceHandler(salesService, loanService, reconciliationService)).
		Register(handler.NewProductionHandler(productionService)).
		Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        ginEngine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
