package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/bilgisen/visacms/internal/models"
	"github.com/bilgisen/visacms/internal/site"
)

// NewsIndexPage handles GET /latest-news
func (h *Handlers) NewsIndexPage(c *fiber.Ctx) error {
	page := h.renderer.NewsIndex(c.UserContext())
	return c.Render("news_index", page, site.Layout)
}

// NewsArticlePage handles GET /latest-news/:slug
func (h *Handlers) NewsArticlePage(c *fiber.Ctx) error {
	page, err := h.renderer.NewsArticle(c.UserContext(), c.Params("slug"))
	if errors.Is(err, models.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).Render("not_found", page, site.Layout)
	}
	if err != nil {
		return err
	}
	return c.Render("news_article", page, site.Layout)
}

// VisasPage handles GET /visas
func (h *Handlers) VisasPage(c *fiber.Ctx) error {
	page := h.renderer.Visas(c.UserContext())
	return c.Render("visas_index", page, site.Layout)
}

// VisaPage handles GET /visas/:slug
func (h *Handlers) VisaPage(c *fiber.Ctx) error {
	page, err := h.renderer.Visa(c.UserContext(), c.Params("slug"))
	if errors.Is(err, models.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).Render("not_found", page, site.Layout)
	}
	if err != nil {
		return err
	}
	return c.Render("visa", page, site.Layout)
}
