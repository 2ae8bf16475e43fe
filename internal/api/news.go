package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bilgisen/visacms/internal/cache"
	"github.com/bilgisen/visacms/internal/middleware"
	"github.com/bilgisen/visacms/internal/models"
)

// GetNews handles GET /api/v1/news
func (h *Handlers) GetNews(c *fiber.Ctx) error {
	news, err := h.store.ListNews(c.UserContext())
	if err != nil {
		return writeError(c, err, "News")
	}
	return c.JSON(news)
}

// CreateNews handles POST /api/v1/news
func (h *Handlers) CreateNews(c *fiber.Ctx) error {
	body, ok := middleware.Validated[models.News](c)
	if !ok {
		return fiber.ErrBadRequest
	}

	news, err := h.store.CreateNews(c.UserContext(), body)
	if err != nil {
		return writeError(c, err, "News")
	}
	h.invalidate(c.UserContext(), cache.NewsListKey)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "News added",
		"data":    news,
	})
}

// UpdateNews handles PUT /api/v1/news
func (h *Handlers) UpdateNews(c *fiber.Ctx) error {
	body, ok := middleware.Validated[models.NewsUpdate](c)
	if !ok {
		return fiber.ErrBadRequest
	}

	news, err := h.store.UpdateNews(c.UserContext(), body.Record())
	if err != nil {
		return writeError(c, err, "News")
	}
	h.invalidate(c.UserContext(), cache.NewsListKey)

	return c.JSON(fiber.Map{
		"message": "News updated",
		"data":    news,
	})
}

// DeleteNews handles DELETE /api/v1/news
func (h *Handlers) DeleteNews(c *fiber.Ctx) error {
	body, ok := middleware.Validated[models.NewsKey](c)
	if !ok {
		return fiber.ErrBadRequest
	}

	news, err := h.store.DeleteNews(c.UserContext(), body.Slug)
	if err != nil {
		return writeError(c, err, "News")
	}
	h.invalidate(c.UserContext(), cache.NewsListKey)

	return c.JSON(fiber.Map{
		"message": "News deleted",
		"data":    news,
	})
}
