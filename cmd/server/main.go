package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	catalogapp "github.com/fibermade/backend/internal/application/catalog"
	syncapp "github.com/fibermade/backend/internal/application/sync"
	"github.com/fibermade/backend/internal/domain/bulk"
	"github.com/fibermade/backend/internal/infrastructure/config"
	"github.com/fibermade/backend/internal/infrastructure/logger"
	"github.com/fibermade/backend/internal/infrastructure/persistence"
	"github.com/fibermade/backend/internal/infrastructure/shopify"
	"github.com/fibermade/backend/internal/interfaces/http/handler"
	"github.com/fibermade/backend/internal/interfaces/http/middleware"
	"github.com/fibermade/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
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
		_ = logger.Sync(log)
	}()

	log.Info("Starting Fibermade Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	integrationID := uuid.Nil
	if cfg.Sync.IntegrationID != "" {
		integrationID, err = uuid.Parse(cfg.Sync.IntegrationID)
		if err != nil {
			log.Fatal("Invalid sync.integration_id", zap.Error(err))
		}
	}

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	colorwayRepo := persistence.NewGormColorwayRepository(db.DB)
	baseRepo := persistence.NewGormBaseRepository(db.DB)
	inventoryRepo := persistence.NewGormInventoryRepository(db.DB)
	collectionRepo := persistence.NewGormCollectionRepository(db.DB)
	logRepo := persistence.NewGormIntegrationLogRepository(db.DB)
	identifierRepo := persistence.NewGormExternalIdentifierRepository(db.DB)
	syncRunRepo := persistence.NewGormSyncRunRepository(db.DB)

	// Initialize application services
	catalogService := catalogapp.NewCatalogService(
		colorwayRepo,
		baseRepo,
		inventoryRepo,
		collectionRepo,
		logRepo,
		identifierRepo,
		log,
	)
	runHistory := catalogapp.NewSyncRunHistoryService(syncRunRepo, log)

	// A crash mid-import leaves the persisted run in_progress, which would
	// make the operator guard answer 409 forever. Fail it before serving.
	if _, err := runHistory.RecoverInterrupted(context.Background(), integrationID); err != nil {
		log.Fatal("Failed to recover interrupted bulk import run", zap.Error(err))
	}

	// Initialize the storefront client
	shopifyClient, err := shopify.NewClient(&shopify.Config{
		ShopDomain:  cfg.Shopify.ShopDomain,
		AccessToken: cfg.Shopify.AccessToken,
		APIVersion:  cfg.Shopify.APIVersion,
		Timeout:     cfg.Shopify.Timeout,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize storefront client", zap.Error(err))
	}
	log.Info("Storefront client initialized",
		zap.String("shop_domain", cfg.Shopify.ShopDomain),
		zap.String("api_version", cfg.Shopify.APIVersion),
	)

	// Initialize the sync engine
	mappings := syncapp.NewMappingStore(integrationID, catalogService)
	paginator := syncapp.NewPaginator(
		shopifyClient,
		cfg.Shopify.PageSize,
		cfg.Shopify.RetryAttempts,
		cfg.Shopify.RetryDelay,
		log,
	)
	metafields := syncapp.NewMetafieldWriter(shopifyClient, log)
	productSync := syncapp.NewProductSyncService(mappings, catalogService, metafields, log)
	collectionSync := syncapp.NewCollectionSyncService(mappings, catalogService, paginator, log)
	pushService := syncapp.NewProductPushService(mappings, catalogService, shopifyClient, log)
	bulkImport := syncapp.NewBulkImportService(
		productSync,
		collectionSync,
		paginator,
		func(ctx context.Context, run *bulk.SyncRun) error {
			return syncRunRepo.Save(ctx, run)
		},
		log,
	)

	// Initialize router with custom middleware
	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.RequestLogging(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS())
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint outside the API prefix
	engine.GET("/health", healthHandler(db, log))

	// Register routes
	r := router.NewRouter(engine)

	syncHandler := handler.NewSyncHandler(
		integrationID,
		bulkImport,
		runHistory,
		syncRunRepo,
		pushService,
		catalogService,
		cfg.Sync.RunHistorySize,
		log,
	)
	webhookHandler := handler.NewWebhookHandler(productSync, collectionSync, log)
	systemHandler := handler.NewSystemHandler()

	r.Register(syncHandler).
		Register(systemHandler).
		RegisterWebhook(webhookHandler)

	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
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

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.FromGin(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
