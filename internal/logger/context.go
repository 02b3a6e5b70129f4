package logger

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// ContextKey là type cho context keys
type ContextKey string

// RequestIDKey là key cho request ID trong context
const RequestIDKey ContextKey = "requestID"

// ContextWithRequestID gắn request ID vào context để log ở tầng service mang theo được
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// WithContext trả về logger entry với context
func WithContext(ctx context.Context) *logrus.Entry {
	entry := GetAppLogger().WithContext(ctx)
	if requestID := ctx.Value(RequestIDKey); requestID != nil {
		entry = entry.WithField("request_id", requestID)
	}
	return entry
}

// RequestID lấy request ID của request hiện tại: Locals (middleware requestid) rồi tới header
func RequestID(c fiber.Ctx) string {
	if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
		return rid
	}
	if rid := c.Get("X-Request-ID"); rid != "" {
		return rid
	}
	return c.GetRespHeader("X-Request-ID")
}

// WithRequest trả về logger entry với request context từ Fiber
func WithRequest(c fiber.Ctx) *logrus.Entry {
	return requestEntry(GetAppLogger(), c)
}

// ErrorWithRequest giống WithRequest nhưng ghi vào error logger (LOG_ERROR_FILE)
func ErrorWithRequest(c fiber.Ctx) *logrus.Entry {
	return requestEntry(GetErrorLogger(), c)
}

func requestEntry(log *logrus.Logger, c fiber.Ctx) *logrus.Entry {
	entry := log.WithContext(c.Context())
	if requestID := RequestID(c); requestID != "" {
		entry = entry.WithField("request_id", requestID)
	}
	return entry.WithFields(logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
		"ip":     c.IP(),
	})
}

// WithFields trả về logger entry với các fields bổ sung
func WithFields(fields map[string]interface{}) *logrus.Entry {
	return GetAppLogger().WithFields(logrus.Fields(fields))
}

// WithError trả về logger entry với error
func WithError(err error) *logrus.Entry {
	return GetAppLogger().WithError(err)
}

// WithModule trả về logger entry với module name (ví dụ: "rbac", "database", "init")
func WithModule(module string) *logrus.Entry {
	return GetAppLogger().WithField("module", module)
}
