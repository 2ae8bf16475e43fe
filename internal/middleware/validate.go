package middleware

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/bilgisen/visacms/internal/logger"
	"github.com/bilgisen/visacms/internal/models"
)

// ValidatedKey is the Locals key under which ValidateBody stores the parsed body
const ValidatedKey = "validated"

type normalizer interface {
	Normalize()
}

// ValidateBody parses the JSON body into a fresh T for every request, trims it
// when T knows how to, validates it and stores it in c.Locals(ValidatedKey).
// Failures answer 400 with the offending fields.
func ValidateBody[T any]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := new(T)
		if err := c.BodyParser(body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
				"msg":   err.Error(),
			})
		}

		if n, ok := any(body).(normalizer); ok {
			n.Normalize()
		}

		if err := models.Validator().Struct(body); err != nil {
			err = models.ToValidationError(err)
			var ve *models.ValidationError
			if errors.As(err, &ve) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error":  ve.Error(),
					"fields": ve.Fields,
				})
			}
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		c.Locals(ValidatedKey, body)

		return c.Next()
	}
}

// Validated returns the body stored by ValidateBody
func Validated[T any](c *fiber.Ctx) (*T, bool) {
	body, ok := c.Locals(ValidatedKey).(*T)
	return body, ok
}

// ErrorHandler answers errors that escaped the handlers with a JSON body
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	logger.Get().Error().
		Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", code).
		Msg("HTTP error")

	return c.Status(code).JSON(fiber.Map{
		"error": http.StatusText(code),
	})
}
