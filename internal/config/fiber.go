package config

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

const (
	// Four captures of at most 15MB each plus the form fields.
	maxBodySize = 64 * 1024 * 1024

	readTimeout  = 90 * time.Second
	writeTimeout = 90 * time.Second
	idleTimeout  = 2 * time.Minute
)

func NewFiber(logger *logrus.Logger) *fiber.App {
	return fiber.New(
		fiber.Config{
			AppName:       "UBAS Anthropometry",
			BodyLimit:     maxBodySize,
			ReadTimeout:   readTimeout,
			WriteTimeout:  writeTimeout,
			IdleTimeout:   idleTimeout,
			CaseSensitive: true,
			JSONEncoder:   jsoniter.Marshal,
			JSONDecoder:   jsoniter.Unmarshal,
			ErrorHandler:  jsonErrorHandler(logger),
		})
}

// jsonErrorHandler answers errors that escape the handlers (unknown routes,
// oversized bodies, panics recovered upstream) with the same JSON shape the
// analysis routes use.
func jsonErrorHandler(logger *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := "An unexpected error occurred"

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status = fiberErr.Code
			message = fiberErr.Message
		}

		if status >= fiber.StatusInternalServerError {
			logger.WithFields(logrus.Fields{
				"path":  c.Path(),
				"error": err.Error(),
			}).Error("Unhandled error")
		}

		return c.Status(status).JSON(fiber.Map{"error": message})
	}
}
