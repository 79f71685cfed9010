package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nutriai/backend/internal/observability"
)

// Metrics records request count and latency per matched route pattern, so
// /meals/:id stays one series.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}
		observability.ObserveRequest(c.Method(), c.Route().Path, status, time.Since(start))
		return err
	}
}
