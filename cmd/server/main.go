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

	appbilling "github.com/printshop/backend/internal/application/billing"
	appcatalog "github.com/printshop/backend/internal/application/catalog"
	appidentity "github.com/printshop/backend/internal/application/identity"
	appnotification "github.com/printshop/backend/internal/application/notification"
	appusage "github.com/printshop/backend/internal/application/usage"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/infrastructure/auth"
	"github.com/printshop/backend/internal/infrastructure/cache"
	"github.com/printshop/backend/internal/infrastructure/config"
	"github.com/printshop/backend/internal/infrastructure/event"
	"github.com/printshop/backend/internal/infrastructure/logger"
	"github.com/printshop/backend/internal/infrastructure/persistence"
	"github.com/printshop/backend/internal/infrastructure/printing"
	"github.com/printshop/backend/internal/infrastructure/telemetry"
	"github.com/printshop/backend/internal/interfaces/http/handler"
	"github.com/printshop/backend/internal/interfaces/http/middleware"
	"github.com/printshop/backend/internal/interfaces/http/router"
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

	log.Info("Starting Print Shop Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize OpenTelemetry tracing (no-op when disabled)
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Bridge application logs to the collector when log export is enabled
	loggerProvider, err := telemetry.NewLoggerProvider(context.Background(), telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	defer func() {
		if err := loggerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down logger provider", zap.Error(err))
		}
	}()
	if loggerProvider.IsEnabled() {
		otelCore := telemetry.NewZapOTELCore(cfg.Telemetry.ServiceName, loggerProvider, logger.ParseLevel(cfg.Log.Level))
		log = telemetry.NewBridgedLogger(log.Core(), otelCore, zap.AddCaller())
	}

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

	// Database query tracing (no-op when disabled)
	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        "postgresql",
	}, log)
	if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Initialize repositories
	agentRepo := persistence.NewGormAgentRepository(db.DB)
	itemRepo := persistence.NewGormItemRepository(db.DB)
	printEventRepo := persistence.NewGormPrintEventRepository(db.DB)
	debtRepo := persistence.NewGormDebtRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	settingRepo := persistence.NewGormSettingRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	billingStore := persistence.NewGormBillingStore(db.DB)

	// Limits cache: Redis when enabled, in-memory otherwise
	limitsCache := cache.NewLimitsCache(cfg.Redis, cfg.Redis.CacheTTL, log)

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Print dispatcher: jobs go to the log sink until a real printer
	// backend is wired in
	dispatcher := printing.NewAsyncDispatcher(
		printing.NewLogSink(log),
		cfg.Printing.QueueSize,
		cfg.Printing.Workers,
		cfg.Printing.DispatchTimeout,
		log,
	)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := dispatcher.Stop(ctx); err != nil {
			log.Error("Error stopping print dispatcher", zap.Error(err))
		}
	}()

	// Initialize application services
	jwtService := auth.NewJWTService(cfg.JWT)
	locks := shared.NewKeyedMutex()

	agentService := appidentity.NewAgentService(agentRepo, jwtService, eventBus, log)
	itemService := appcatalog.NewItemService(itemRepo, log)
	limitsService := appbilling.NewLimitsService(settingRepo, limitsCache, log)
	usageService := appusage.NewUsageService(
		printEventRepo, itemRepo, debtRepo, billingStore,
		limitsService, dispatcher, eventBus, locks, log,
	)
	debtService := appbilling.NewDebtService(debtRepo, eventBus, log)
	paymentService := appbilling.NewPaymentService(
		paymentRepo, debtRepo, billingStore, eventBus, locks, log,
	)
	notificationService := appnotification.NewNotificationService(notificationRepo, log)

	// Debt verification outcomes notify the agent
	debtEventHandler := appnotification.NewDebtEventHandler(notificationService, log)
	eventBus.Subscribe(debtEventHandler)
	log.Info("Event handlers registered",
		zap.Strings("debt_events", debtEventHandler.EventTypes()),
	)

	// Bootstrap administrator account
	if cfg.Admin.Password != "" {
		if err := agentService.EnsureAdmin(context.Background(), cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			log.Fatal("Failed to ensure admin account", zap.Error(err))
		}
	} else {
		log.Warn("Admin bootstrap skipped: admin.password not configured")
	}

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(agentService)
	agentHandler := handler.NewAgentHandler(agentService)
	printEventHandler := handler.NewPrintEventHandler(usageService)
	debtHandler := handler.NewDebtHandler(debtService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	limitsHandler := handler.NewLimitsHandler(limitsService)
	itemHandler := handler.NewItemHandler(itemService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request ID, panic recovery, tracing, request
	// logging, CORS, then JWT authentication with public paths skipped
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORS(cfg.HTTP))
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/api/v1/system/health",
			"/api/v1/system/ping",
			"/api/v1/auth/register",
			"/api/v1/auth/login",
		},
		Logger: log,
	}))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Register API routes
	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(authHandler).
		Register(agentHandler).
		Register(printEventHandler).
		Register(debtHandler).
		Register(paymentHandler).
		Register(limitsHandler).
		Register(itemHandler).
		Register(notificationHandler).
		Register(systemHandler).
		Setup()

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

// healthHandler returns a handler for the liveness endpoint
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
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
