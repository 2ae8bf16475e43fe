package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bilgisen/visacms/internal/cache"
	"github.com/bilgisen/visacms/internal/middleware"
	"github.com/bilgisen/visacms/internal/models"
)

func (h *Handlers) GetVisas(c *fiber.Ctx) error {
	visas, err := h.store.ListVisas(c.UserContext())
	if err != nil {
		return writeError(c, err, "Visa")
	}
	return c.JSON(visas)
}

func (h *Handlers) CreateVisa(c *fiber.Ctx) error {
	body, ok := middleware.Validated[models.Visa](c)
	if !ok {
		return fiber.ErrBadRequest
	}

	visa, err := h.store.CreateVisa(c.UserContext(), body)
	if err != nil {
		return writeError(c, err, "Visa")
	}
	h.invalidate(c.UserContext(), cache.VisaListKey)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Visa added",
		"data":    visa,
	})
}

func (h *Handlers) UpdateVisa(c *fiber.Ctx) error {
	body, ok := middleware.Validated[models.VisaUpdate](c)
	if !ok {
		return fiber.ErrBadRequest
	}

	visa, err := h.store.UpdateVisa(c.UserContext(), body.Record())
	if err != nil {
		return writeError(c, err, "Visa")
	}
	h.invalidate(c.UserContext(), cache.VisaListKey)

	return c.JSON(fiber.Map{
		"message": "Visa updated",
		"data":    visa,
	})
}

func (h *Handlers) DeleteVisa(c *fiber.Ctx) error {
	body, ok := middleware.Validated[models.VisaKey](c)
	if !ok {
		return fiber.ErrBadRequest
	}

	visa, err := h.store.DeleteVisa(c.UserContext(), body.Slug)
	if err != nil {
		return writeError(c, err, "Visa")
	}
	h.invalidate(c.UserContext(), cache.VisaListKey)

	return c.JSON(fiber.Map{
		"message": "Visa deleted",
		"data":    visa,
	})
}
