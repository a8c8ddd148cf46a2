package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/orderdesk/backend/internal/application/catalog"
	inventoryapp "github.com/orderdesk/backend/internal/application/inventory"
	invoiceapp "github.com/orderdesk/backend/internal/application/invoice"
	orderapp "github.com/orderdesk/backend/internal/application/order"
	returnsapp "github.com/orderdesk/backend/internal/application/returns"
	"github.com/orderdesk/backend/internal/domain/shared"
	"github.com/orderdesk/backend/internal/infrastructure/auth"
	"github.com/orderdesk/backend/internal/infrastructure/config"
	"github.com/orderdesk/backend/internal/infrastructure/logger"
	"github.com/orderdesk/backend/internal/infrastructure/persistence"
	auditrecorder "github.com/orderdesk/backend/internal/infrastructure/persistence/audit"
	"github.com/orderdesk/backend/internal/infrastructure/rendering"
	"github.com/orderdesk/backend/internal/infrastructure/scheduler"
	"github.com/orderdesk/backend/internal/interfaces/http/handler"
	"github.com/orderdesk/backend/internal/interfaces/http/middleware"
	"github.com/orderdesk/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var version = "dev"

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

	log.Info("Starting orderdesk backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Database connection with zap-backed GORM logging
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Every mutation of an audited entity writes a ledger row
	auditrecorder.EnableAuditTrail(db.DB)

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	returnRepo := persistence.NewGormReturnRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	auditRepo := persistence.NewGormAuditRepository(db.DB)

	txScope := persistence.NewGormTransactionScopeWithLockTimeout(db.DB, cfg.Database.LockTimeout)

	// Invoice document rendering
	docStore, err := rendering.NewDocumentStore(&cfg.Documents, log)
	if err != nil {
		log.Fatal("Failed to initialize document store", zap.Error(err))
	}
	renderer, err := rendering.NewHTMLInvoiceRenderer(docStore, log)
	if err != nil {
		log.Fatal("Failed to initialize invoice renderer", zap.Error(err))
	}

	// Application services
	productService := catalogapp.NewProductService(productRepo)
	orderService := orderapp.NewOrderService(txScope, orderRepo, productRepo)
	returnService := returnsapp.NewReturnService(txScope, returnRepo, orderRepo)
	invoiceService := invoiceapp.NewInvoiceService(invoiceRepo, orderRepo, renderer)
	stockService := inventoryapp.NewStockLedgerService(txScope, productRepo, movementRepo)
	reaperService := orderapp.NewDraftReaperService(orderRepo, log, cfg.Reaper.DraftMaxAge)
	reaperService.SetBatchSize(cfg.Reaper.BatchSize)

	// Event bus and handlers
	eventBus := shared.NewInMemoryEventBus()
	eventBus.Subscribe(inventoryapp.NewLowStockAlertHandler(log))
	orderService.SetEventPublisher(eventBus)
	stockService.SetEventPublisher(eventBus)

	// Auth
	jwtService := auth.NewJWTService(cfg.JWT)

	// Stale draft reaper
	reaperScheduler := scheduler.NewReaperScheduler(reaperService, log, cfg.Reaper)
	if err := reaperScheduler.Start(context.Background()); err != nil {
		log.Fatal("Failed to start draft reaper scheduler", zap.Error(err))
	}
	defer func() {
		if err := reaperScheduler.Stop(context.Background()); err != nil {
			log.Error("Error stopping draft reaper scheduler", zap.Error(err))
		}
	}()

	// HTTP handlers
	healthHandler := handler.NewHealthHandler(db, version)
	productHandler := handler.NewProductHandler(productService)
	orderHandler := handler.NewOrderHandler(orderService)
	returnHandler := handler.NewReturnHandler(returnService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	stockHandler := handler.NewStockHandler(stockService)
	auditHandler := handler.NewAuditHandler(auditRepo)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Routes: health probes stay public, everything else sits behind
	// JWT auth; the audit trail additionally requires the admin role
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.RegisterPublic(healthHandler)
	r.Register(productHandler)
	r.Register(orderHandler)
	r.Register(returnHandler)
	r.Register(invoiceHandler)
	r.Register(stockHandler)
	r.Register(auditHandler, middleware.RequireAdmin())
	r.Setup(middleware.JWTAuthMiddleware(jwtService))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt, then drain in-flight requests
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}

	log.Info("Server stopped")
}
