package api

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bilgisen/visacms/internal/cache"
	"github.com/bilgisen/visacms/internal/config"
	"github.com/bilgisen/visacms/internal/logger"
	"github.com/bilgisen/visacms/internal/media"
	"github.com/bilgisen/visacms/internal/models"
	"github.com/bilgisen/visacms/internal/site"
)

// Store is the record store behind the collection endpoints
type Store interface {
	Init(ctx context.Context) error
	Ping(ctx context.Context) error

	ListNews(ctx context.Context) ([]models.News, error)
	CreateNews(ctx context.Context, n *models.News) (*models.News, error)
	UpdateNews(ctx context.Context, n *models.News) (*models.News, error)
	DeleteNews(ctx context.Context, slug string) (*models.News, error)

	ListVisas(ctx context.Context) ([]models.Visa, error)
	CreateVisa(ctx context.Context, v *models.Visa) (*models.Visa, error)
	UpdateVisa(ctx context.Context, v *models.Visa) (*models.Visa, error)
	DeleteVisa(ctx context.Context, slug string) (*models.Visa, error)
}

type Handlers struct {
	config   *config.Config
	store    Store
	cache    cache.Cache
	uploader media.Uploader
	renderer *site.Renderer
}

// NewHandlers wires the handlers. uploader may be nil when R2 is not configured.
func NewHandlers(cfg *config.Config, store Store, c cache.Cache, uploader media.Uploader, renderer *site.Renderer) *Handlers {
	return &Handlers{
		config:   cfg,
		store:    store,
		cache:    c,
		uploader: uploader,
		renderer: renderer,
	}
}

// HealthCheck handles GET /api/v1/health
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		logger.Get().Error().Err(err).Msg("Health check failed")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unavailable",
			"error":  err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// Setup handles GET|POST /api/v1/setup
func (h *Handlers) Setup(c *fiber.Ctx) error {
	if err := h.store.Init(c.UserContext()); err != nil {
		logger.Get().Error().Err(err).Msg("Error creating tables")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Tables created",
	})
}

// invalidate drops cached collections after a write. A failure only delays
// the public pages until the entry expires.
func (h *Handlers) invalidate(ctx context.Context, keys ...string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Delete(ctx, keys...); err != nil {
		logger.Get().Warn().Err(err).Strs("keys", keys).Msg("Error invalidating cache")
	}
}

// writeError answers err with the status its kind maps to
func writeError(c *fiber.Ctx, err error, kind string) error {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  ve.Error(),
			"fields": ve.Fields,
		})
	case errors.Is(err, models.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": kind + " not found",
		})
	case errors.Is(err, models.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": kind + " with this slug already exists",
		})
	}

	logger.Get().Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("Store error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}
