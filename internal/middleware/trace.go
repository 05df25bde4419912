package middleware

import (
	"commentadmin/pkg/events"
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type contextKey string

// FiberContextKey exposes the *fiber.Ctx to handlers that need raw request
// access, such as multipart uploads.
const FiberContextKey contextKey = "fiber"

const (
	TraceIDHeader       = "X-Trace-ID"
	CorrelationIDHeader = "X-Correlation-ID"
)

// NewTraceMiddleware propagates trace and correlation ids from the request
// headers, generating them when absent, and echoes them on the response.
func NewTraceMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		traceID := strings.TrimSpace(c.Get(TraceIDHeader))
		if traceID == "" {
			traceID = events.GenerateTraceID()
		}

		correlationID := strings.TrimSpace(c.Get(CorrelationIDHeader))
		if correlationID == "" {
			correlationID = events.GenerateCorrelationID()
		}

		userCtx := c.UserContext()
		if userCtx == nil {
			userCtx = context.Background()
		}

		userCtx = events.ContextWithHeaders(userCtx, events.Headers{
			TraceID:       traceID,
			CorrelationID: correlationID,
			Service:       events.ServiceName,
		})
		userCtx = context.WithValue(userCtx, FiberContextKey, c)

		c.SetUserContext(userCtx)
		c.Set(TraceIDHeader, traceID)
		c.Set(CorrelationIDHeader, correlationID)

		return c.Next()
	}
}
