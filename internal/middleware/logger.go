package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/bilgisen/visacms/internal/logger"
)

// LoggerConfig defines the config for the request logger
type LoggerConfig struct {
	// Next skips the middleware when it returns true
	Next func(c *fiber.Ctx) bool

	// Logger defaults to the process logger
	Logger *zerolog.Logger
}

// NewLogger logs one line per request. Client errors are logged at warn
// level and server errors at error level.
func NewLogger(config ...LoggerConfig) fiber.Handler {
	var cfg LoggerConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Get()
	}

	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		status := c.Response().StatusCode()
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		var event *zerolog.Event
		switch {
		case status >= fiber.StatusInternalServerError:
			event = cfg.Logger.Error()
		case status >= fiber.StatusBadRequest:
			event = cfg.Logger.Warn()
		default:
			event = cfg.Logger.Info()
		}

		event = event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Str("ip", c.IP()).
			Dur("latency", latency)

		if err != nil {
			event = event.Err(err)
		}

		event.Msg("request")

		return err
	}
}

// RequestLogger logs every request with the process logger
func RequestLogger() fiber.Handler {
	return NewLogger()
}
