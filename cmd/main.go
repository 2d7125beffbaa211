package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"supplier-sync-service/internal/config"
	"supplier-sync-service/internal/database"
	"supplier-sync-service/internal/handlers"
	"supplier-sync-service/internal/logger"
	"supplier-sync-service/internal/middleware"
	"supplier-sync-service/internal/models"
	"supplier-sync-service/internal/repository"
	"supplier-sync-service/internal/secrets"
	"supplier-sync-service/internal/services"
	"supplier-sync-service/internal/task"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zapLogger, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL, cfg.Environment)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Auto-migrate models
	if err := db.AutoMigrate(
		&models.Supplier{},
		&models.SupplierProduct{},
		&models.Product{},
		&models.Category{},
		&models.PricingRule{},
		&models.SyncLog{},
		&models.Order{},
		&models.OrderItem{},
		&models.SupplierOrder{},
	); err != nil {
		zapLogger.Warn("Auto-migration failed", zap.Error(err))
	}
	zapLogger.Info("Database models migrated")

	// Initialize Secret Manager backed credential resolver
	var resolver *secrets.Resolver
	if cfg.GCPProjectID != "" {
		resolver, err = secrets.NewResolver(context.Background(), cfg.GCPProjectID)
		if err != nil {
			zapLogger.Warn("Failed to initialize secret resolver, credential references disabled", zap.Error(err))
		} else {
			defer resolver.Close()
			zapLogger.Info("Secret resolver initialized", zap.String("project", cfg.GCPProjectID))
		}
	}

	// Initialize repositories
	supplierRepo := repository.NewSupplierRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	pricingRepo := repository.NewPricingRepository(db)
	syncRepo := repository.NewSyncRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	// Initialize services
	adapterFactory := services.NewAdapterFactory(resolver, cfg.AdapterTimeout, zapLogger)
	pricingEngine := services.NewPricingEngine(pricingRepo, cfg.DefaultMarkupPercentage, zapLogger)
	reconciler := services.NewCatalogueReconciler(catalogRepo, pricingEngine, cfg.RepriceOnSync, zapLogger)
	orchestrator := services.NewSyncOrchestrator(
		supplierRepo, syncRepo, catalogRepo, reconciler, adapterFactory,
		cfg.SyncBatchSize, cfg.SyncTimeout, cfg.MaxConcurrentSyncs, zapLogger)
	fanoutRouter := services.NewOrderFanoutRouter(
		orderRepo, supplierRepo, adapterFactory, cfg.DefaultCommissionRate, zapLogger)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	supplierHandler := handlers.NewSupplierHandler(supplierRepo, catalogRepo)
	syncHandler := handlers.NewSyncHandler(orchestrator, syncRepo)
	pricingHandler := handlers.NewPricingHandler(pricingRepo)
	orderHandler := handlers.NewOrderHandler(fanoutRouter, orderRepo)

	// Scheduled syncs
	scheduler := task.NewSyncScheduler(orchestrator, cfg.AutoSyncSchedule, cfg.SyncTimeout, zapLogger)
	if err := scheduler.Start(); err != nil {
		zapLogger.Fatal("Failed to start sync scheduler", zap.Error(err))
	}
	defer scheduler.Stop()

	router := setupRouter(cfg, db, healthHandler, supplierHandler, syncHandler, pricingHandler, orderHandler)

	zapLogger.Info("Supplier Sync Service starting",
		zap.String("port", cfg.Port), zap.String("env", cfg.Environment))
	if err := router.Run(":" + cfg.Port); err != nil {
		zapLogger.Fatal("Failed to start server", zap.Error(err))
	}
}

// setupRouter configures the HTTP router
func setupRouter(
	cfg *config.Config,
	db *gorm.DB,
	healthHandler *handlers.HealthHandler,
	supplierHandler *handlers.SupplierHandler,
	syncHandler *handlers.SyncHandler,
	pricingHandler *handlers.PricingHandler,
	orderHandler *handlers.OrderHandler,
) *gin.Engine {
	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	// Health check
	router.GET("/health", healthHandler.Health)

	v1 := router.Group("/api/v1")
	{
		// Suppliers
		suppliers := v1.Group("/suppliers")
		{
			suppliers.GET("", supplierHandler.List)
			suppliers.POST("", supplierHandler.Create)
			suppliers.GET("/:id", supplierHandler.Get)
			suppliers.PATCH("/:id", supplierHandler.Update)
			suppliers.DELETE("/:id", supplierHandler.Delete)
			suppliers.GET("/:id/products", supplierHandler.ListProducts)

			// Sync triggers
			suppliers.POST("/:id/sync", syncHandler.TriggerSync)
			suppliers.POST("/:id/sync/cancel", syncHandler.CancelSync)
			suppliers.POST("/:id/stock/refresh", syncHandler.RefreshStock)
			suppliers.POST("/:id/products/:externalId/refresh", syncHandler.RefreshProduct)
		}

		// Sync logs
		syncLogs := v1.Group("/sync/logs")
		{
			syncLogs.GET("", syncHandler.ListLogs)
			syncLogs.GET("/:id", syncHandler.GetLog)
		}

		// Pricing rules
		pricing := v1.Group("/pricing/rules")
		{
			pricing.GET("", pricingHandler.List)
			pricing.POST("", pricingHandler.Create)
			pricing.PATCH("/:id", pricingHandler.Update)
			pricing.DELETE("/:id", pricingHandler.Delete)
		}

		// Order fan-out
		orders := v1.Group("/orders")
		{
			orders.POST("/:id/route", orderHandler.Route)
			orders.GET("/:id/supplier-orders", orderHandler.ListSupplierOrders)
		}
		v1.POST("/supplier-orders/:id/tracking/refresh", orderHandler.RefreshTracking)
	}

	return router
}
