package middleware

import (
	"strings"

	"rbac_admin/internal/common"

	"github.com/gofiber/fiber/v3"
)

// SecurityHeaders thêm các security header cơ bản cho mọi response
func SecurityHeaders() fiber.Handler {
	return func(c fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		return c.Next()
	}
}

// RequireJSON từ chối request có body mà Content-Type không phải JSON (400).
// Request không có body (PATCH remove-role, restore, ...) được cho qua.
func RequireJSON() fiber.Handler {
	return func(c fiber.Ctx) error {
		if len(c.Body()) == 0 {
			return c.Next()
		}
		contentType := strings.ToLower(c.Get(fiber.HeaderContentType))
		if !strings.HasPrefix(contentType, fiber.MIMEApplicationJSON) {
			return HandleErrorResponse(c, common.NewError(
				common.ErrCodeValidationFormat,
				common.MsgInvalidFormat,
				common.StatusBadRequest,
				"Content-Type must be application/json",
			))
		}
		return c.Next()
	}
}
