package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	infraprom "github.com/portside/portside/internal/infra/prometheus"
)

// Metrics records request counts and latency per route. The route pattern
// (not the raw path) is used as the label so ids do not explode cardinality.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		route := c.Route().Path
		method := c.Method()
		status := strconv.Itoa(c.Response().StatusCode())

		infraprom.RequestsTotal.WithLabelValues(method, route, status).Inc()
		infraprom.RequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())

		return err
	}
}
