package server

import (
	"time"

	"github.com/gofiber/fiber/v2"

	auth "github.com/goliatone/go-auth-bookmarks"
)

// RequestLogger writes one line per request. Chain errors are rendered
// here so the logged status is the one sent.
func RequestLogger(logger auth.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		logger.Info("request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"latency", time.Since(start).String(),
		)

		return nil
	}
}
