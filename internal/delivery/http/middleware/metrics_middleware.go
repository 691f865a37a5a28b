package middleware

import (
	"nerves/internal/metrics"

	"github.com/labstack/echo/v4"
)

// MetricsMiddleware records the status code of every response.
type MetricsMiddleware struct {
	collector metrics.Collector
}

// NewMetricsMiddleware creates a new metrics middleware.
func NewMetricsMiddleware(collector metrics.Collector) *MetricsMiddleware {
	return &MetricsMiddleware{collector: collector}
}

// Handle records the final response status once the response is written, so
// statuses set by the error handler are counted too.
func (m *MetricsMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().After(func() {
			m.collector.RecordHTTPStatus(c.Response().Status)
		})

		return next(c)
	}
}
