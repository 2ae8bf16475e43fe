package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/bilgisen/visacms/internal/api"
	"github.com/bilgisen/visacms/internal/cache"
	"github.com/bilgisen/visacms/internal/config"
	"github.com/bilgisen/visacms/internal/logger"
	"github.com/bilgisen/visacms/internal/media"
	"github.com/bilgisen/visacms/internal/middleware"
	"github.com/bilgisen/visacms/internal/site"
	"github.com/bilgisen/visacms/internal/storage"
)

func main() {
	// Load and validate configuration
	cfg := config.Load()

	output := "stdout"
	if cfg.LogFile != "" {
		output = cfg.LogFile
	}
	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: output,
		Pretty: cfg.IsDevelopment(),
	}); err != nil {
		panic(err)
	}

	log := logger.Get()
	log.Info().Msg("Starting application...")

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx := context.Background()

	store, err := storage.Open(ctx, cfg.DatabaseURL, storage.Options{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer func() {
		log.Info().Msg("Closing database...")
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing database")
		}
	}()

	if err := store.Init(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to create tables")
	}

	// Redis when configured, otherwise an in-process cache
	var readCache cache.Cache
	if cfg.RedisURL != "" {
		redisClient, err := cache.NewRedisClient(cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Redis client")
		}
		readCache = redisClient
	} else {
		log.Warn().Msg("REDIS_URL not set, using in-memory cache")
		readCache = cache.NewMemoryCache()
	}
	defer func() {
		if err := readCache.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing cache")
		}
	}()

	var uploader media.Uploader
	if cfg.UploadsEnabled() {
		r2, err := media.NewR2Uploader(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize R2 uploader")
		}
		uploader = r2
	} else {
		log.Warn().Msg("R2 not configured, uploads disabled")
	}

	fallback, err := site.LoadFallback()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load fallback content")
	}
	source := site.NewCachedSource(store, readCache, cfg.CacheTTL, logger.Component("site"))
	renderer := site.NewRenderer(source, fallback, cfg.SiteName, logger.Component("site"))

	views, err := site.Views()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load views")
	}

	// Data URI images travel inside JSON bodies, so leave room above the upload limit
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    int(cfg.MaxUploadSize) * 2,
		Views:        views,
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())

	api.SetupRoutes(app, api.NewHandlers(cfg, store, readCache, uploader, renderer))

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
