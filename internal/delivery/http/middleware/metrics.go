package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hut-services/internal/observability"
)

// Metrics учитывает запросы по шаблону маршрута, а не по фактическому пути
func Metrics(m *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}
		m.ObserveHTTP(c.Route().Path, c.Method(), status, time.Since(start))
		return err
	}
}
