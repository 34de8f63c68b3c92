package middleware

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
)

// AuditWriter defines how request audit records are persisted.
type AuditWriter interface {
	WriteAudit(action, resource, details, ip, userAgent string) error
}

// AuditMiddleware records every request to the dataset API. When writer is
// nil the record is only logged.
func AuditMiddleware(writer AuditWriter) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		// Capture request data BEFORE handler execution (Fiber reuses context objects)
		method := c.Method()
		path := c.Path()
		ip := c.IP()
		userAgent := c.Get("User-Agent")

		err := c.Next()

		statusCode := c.Response().StatusCode()
		details := map[string]interface{}{
			"method":      method,
			"path":        path,
			"status":      statusCode,
			"duration_ms": time.Since(start).Milliseconds(),
		}
		detailsJSON, _ := json.Marshal(details)

		if writer == nil {
			slog.Debug("http request", "method", method, "path", path, "status", statusCode)
			return err
		}

		// All values are captured, safe to write in a goroutine.
		go func() {
			if writeErr := writer.WriteAudit("http_request", path, string(detailsJSON), ip, userAgent); writeErr != nil {
				slog.Error("failed to write audit log", "error", writeErr)
			}
		}()

		return err
	}
}
