package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/dafibh/tally/tally-backend/internal/cache"
	"github.com/dafibh/tally/tally-backend/internal/config"
	"github.com/dafibh/tally/tally-backend/internal/finance"
	"github.com/dafibh/tally/tally-backend/internal/handler"
	"github.com/dafibh/tally/tally-backend/internal/middleware"
	"github.com/dafibh/tally/tally-backend/internal/repository/postgres"
	"github.com/dafibh/tally/tally-backend/internal/repository/storage"
	"github.com/dafibh/tally/tally-backend/internal/service"
	"github.com/dafibh/tally/tally-backend/internal/util"
	"github.com/dafibh/tally/tally-backend/internal/websocket"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	loc, err := util.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Timezone).Msg("Unknown timezone")
	}

	// Connect to database
	pool, err := postgres.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()
	log.Info().Msg("Connected to database")

	// Initialize repositories
	repos := service.Repositories{
		Categories:      postgres.NewCategoryRepository(pool),
		Contacts:        postgres.NewContactRepository(pool),
		Transactions:    postgres.NewTransactionRepository(pool),
		GlobalBudgets:   postgres.NewGlobalBudgetRepository(pool),
		CategoryBudgets: postgres.NewCategoryBudgetRepository(pool),
	}

	// Derived view caches
	financialsCache := cache.NewLRUCache[finance.FinancialSnapshot](cfg.CacheSize, cfg.CacheTTL)
	historyCache := cache.NewLRUCache[finance.History](cfg.CacheSize, cfg.CacheTTL)

	// WebSocket hub publishes confirmed mutations
	hub := websocket.NewHub()

	// Initialize services
	snapshotService := service.NewSnapshotService(repos, financialsCache, historyCache,
		finance.WithDefaultBudgetLimit(cfg.DefaultBudgetLimit))
	snapshotService.SetEventPublisher(hub)

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	if _, err := snapshotService.Load(loadCtx); err != nil {
		cancelLoad()
		log.Fatal().Err(err).Msg("Failed to load snapshot")
	}
	cancelLoad()

	// Optional periodic reload picks up writes made outside the API
	if cfg.SnapshotReloadInterval > 0 {
		reloadWorker := service.NewReloadWorker(snapshotService, log.Logger, service.ReloadWorkerConfig{
			Interval: cfg.SnapshotReloadInterval,
		})
		reloadWorker.Start(context.Background())
		defer reloadWorker.Stop()
	}

	categoryService := service.NewCategoryService(repos.Categories, snapshotService)
	categoryService.SetEventPublisher(hub)
	contactService := service.NewContactService(repos.Contacts, snapshotService, cfg.CurrencySymbol)
	contactService.SetEventPublisher(hub)
	transactionService := service.NewTransactionService(repos.Transactions, snapshotService)
	transactionService.SetEventPublisher(hub)
	budgetService := service.NewBudgetService(repos.GlobalBudgets, repos.CategoryBudgets, snapshotService)
	budgetService.SetEventPublisher(hub)
	settlementService := service.NewSettlementService(repos.Transactions, snapshotService)
	settlementService.SetEventPublisher(hub)
	settlementService.SetClock(util.ClockIn(loc))

	// Snapshot backups are optional
	var backupService *service.BackupService
	if cfg.S3.Enabled() {
		backupRepo, err := storage.NewS3BackupRepository(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize S3 backup storage")
		}
		backupService = service.NewBackupService(backupRepo, snapshotService)
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Snapshot backups enabled")
	} else {
		log.Info().Msg("S3_BUCKET not set, snapshot backups disabled")
	}

	// Initialize auth middleware
	authMiddleware, err := middleware.NewAuthMiddleware(cfg.Auth0Domain, cfg.Auth0Audience, cfg.Auth0OwnerSubject)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth middleware")
	}
	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimitPerMinute, middleware.DefaultBurstSize)
	defer rateLimiter.Stop()

	wsValidator, err := websocket.NewAuth0JWTValidator(cfg.Auth0Domain, cfg.Auth0Audience, cfg.Auth0OwnerSubject)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create WebSocket token validator")
	}

	// Initialize handlers
	handlers := handler.Handlers{
		Financial:   handler.NewFinancialHandler(snapshotService, loc),
		Category:    handler.NewCategoryHandler(categoryService),
		Contact:     handler.NewContactHandler(contactService, settlementService),
		Transaction: handler.NewTransactionHandler(transactionService),
		Budget:      handler.NewBudgetHandler(budgetService),
		Backup:      handler.NewBackupHandler(backupService),
	}
	wsHandler := handler.NewWebSocketHandler(hub, wsValidator, cfg.CORSOrigins)
	wsHandler.SetVersionSource(snapshotService.Version)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewRequestValidator()

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders:    []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":           "ok",
			"snapshot_version": snapshotService.Current().Version,
			"ws_clients":       hub.ClientCount(),
		})
	})

	// WebSocket change feed (token in query string)
	e.GET("/ws", wsHandler.HandleWS)

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, rateLimiter, handlers)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Str("timezone", loc.String()).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	hub.CloseAll()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			event := log.Info()
			if res.Status >= http.StatusInternalServerError {
				event = log.Warn()
			}
			event.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
