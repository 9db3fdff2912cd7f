package server

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"
)

// InitLogger sets up a zerolog logger with structured JSON output. Level is
// parsed from the given string (e.g. "debug", "info", "warn", "error").
func InitLogger(level, service string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.DurationFieldUnit = time.Millisecond
	zerolog.DurationFieldInteger = true

	return zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", service).
		Logger()
}

// ErrorResponse writes the standard JSON error body.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// NewRequestLogger returns a middleware that logs each request as structured
// JSON.
func NewRequestLogger(log zerolog.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		evt := log.Info()
		if status >= 500 {
			evt = log.Error()
		} else if status >= 400 {
			evt = log.Warn()
		}

		evt.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("duration_ms", time.Since(start)).
			Msg("request")

		return err
	}
}

// NewPinAuth returns the shared-secret gate: every request must carry the
// configured PIN in the X-Auth-Pin header. An empty configured PIN disables
// the gate. Validation happens only here, never inside the pipeline.
func NewPinAuth(pin string) fiber.Handler {
	return func(c fiber.Ctx) error {
		if pin != "" && c.Get("X-Auth-Pin") != pin {
			return ErrorResponse(c, fiber.StatusUnauthorized, "AUTH", "Invalid Access PIN")
		}
		return c.Next()
	}
}
