package context

import (
	"context"
	"github.com/gofiber/fiber/v2"
)

// RequestIDHeader is both the HTTP header and the fiber Locals key of the request id.
const RequestIDHeader = "X-Request-ID"

type ctxKey int

const requestIDKey ctxKey = iota

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	requestID, ok := ctx.Value(requestIDKey).(string)
	if !ok || requestID == "" {
		return "unknown"
	}
	return requestID
}

// FromFiberCtx returns the request's user context, making sure it carries a request id.
func FromFiberCtx(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if id, ok := ctx.Value(requestIDKey).(string); ok && id != "" {
		return ctx
	}

	requestID, ok := c.Locals(RequestIDHeader).(string)
	if !ok || requestID == "" {
		requestID = c.Get(RequestIDHeader)
	}
	if requestID == "" {
		requestID = "unknown"
	}

	return WithRequestID(ctx, requestID)
}
