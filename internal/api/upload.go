package api

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/bilgisen/visacms/internal/logger"
	"github.com/bilgisen/visacms/internal/media"
)

// Upload handles POST /api/v1/upload with the image in the "file" field
func (h *Handlers) Upload(c *fiber.Ctx) error {
	if h.uploader == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Uploads are not configured",
		})
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
		})
	}

	if ct := fh.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") && ct != "application/octet-stream" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Please upload a valid image file",
		})
	}

	limit := h.config.MaxUploadSize
	if fh.Size > limit {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Image must be smaller than %dMB", limit>>20),
		})
	}

	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Could not read uploaded file",
		})
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Could not read uploaded file",
		})
	}
	if int64(len(data)) > limit {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Image must be smaller than %dMB", limit>>20),
		})
	}

	url, err := h.uploader.Upload(c.UserContext(), data)
	if errors.Is(err, media.ErrNotImage) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Please upload a valid image file",
		})
	}
	if err != nil {
		logger.Get().Error().Err(err).Str("filename", fh.Filename).Msg("Error uploading image")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	logger.Get().Info().Str("url", url).Int("bytes", len(data)).Msg("Image uploaded")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"url": url,
	})
}
