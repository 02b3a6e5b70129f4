// Package middleware chứa các middleware HTTP dùng chung cho mọi domain.
// Các hàm ở đây không import handler để tránh import cycle.
package middleware

import (
	"errors"

	"rbac_admin/internal/common"

	"github.com/gofiber/fiber/v3"
)

// JSONResponse trả về JSON response với Content-Type: application/json; charset=utf-8
func JSONResponse(c fiber.Ctx, statusCode int, data interface{}) error {
	c.Set("Content-Type", "application/json; charset=utf-8")
	return c.Status(statusCode).JSON(data)
}

// HandleErrorResponse trả lỗi theo envelope chuẩn {code, message, status, details?}.
// Lỗi không phải *common.Error được trả về 500 mà không lộ nội dung.
func HandleErrorResponse(c fiber.Ctx, err error) error {
	var customErr *common.Error
	if errors.As(err, &customErr) {
		body := fiber.Map{
			"code":    customErr.Code.Code,
			"message": customErr.Message,
			"status":  "error",
		}
		if customErr.Details != nil {
			body["details"] = customErr.Details
		}
		return JSONResponse(c, customErr.StatusCode, body)
	}
	return JSONResponse(c, common.StatusInternalServerError, fiber.Map{
		"code":    common.ErrCodeInternalServer.Code,
		"message": common.MsgInternalError,
		"status":  "error",
	})
}
