package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gotrs-io/gotrs-console/internal/logging"
)

// RequestLogger stores a request-scoped logger in the request context and
// logs one line per request when it completes.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		scoped := logger.With(slog.String("request_id", GetRequestID(c)))
		c.Request = c.Request.WithContext(logging.WithLogger(c.Request.Context(), scoped))

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			scoped.Error("request", attrs...)
		case status >= 400:
			scoped.Warn("request", attrs...)
		default:
			scoped.Info("request", attrs...)
		}
	}
}
