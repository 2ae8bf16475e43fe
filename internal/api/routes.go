package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bilgisen/visacms/internal/middleware"
	"github.com/bilgisen/visacms/internal/models"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(app *fiber.App, h *Handlers) {
	// API group with versioning
	api := app.Group("/api/v1")

	api.Get("/health", h.HealthCheck)
	api.Get("/setup", h.Setup)
	api.Post("/setup", h.Setup)

	news := api.Group("/news")
	{
		news.Get("", h.GetNews)
		news.Post("", middleware.ValidateBody[models.News](), h.CreateNews)
		news.Put("", middleware.ValidateBody[models.NewsUpdate](), h.UpdateNews)
		news.Delete("", middleware.ValidateBody[models.NewsKey](), h.DeleteNews)
	}

	visas := api.Group("/visas")
	{
		visas.Get("", h.GetVisas)
		visas.Post("", middleware.ValidateBody[models.Visa](), h.CreateVisa)
		visas.Put("", middleware.ValidateBody[models.VisaUpdate](), h.UpdateVisa)
		visas.Delete("", middleware.ValidateBody[models.VisaKey](), h.DeleteVisa)
	}

	api.Post("/upload", h.Upload)

	// Public pages
	if h.renderer != nil {
		app.Get("/", func(c *fiber.Ctx) error {
			return c.Redirect("/latest-news")
		})
		app.Get("/latest-news", h.NewsIndexPage)
		app.Get("/latest-news/:slug", h.NewsArticlePage)
		app.Get("/visas", h.VisasPage)
		app.Get("/visas/:slug", h.VisaPage)
	}

	// 404 Handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
		})
	})
}
