// Package rbachdl chứa các handler HTTP cho permission, role và user.
package rbachdl

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	basehdl "rbac_admin/internal/api/base/handler"
	rbacdto "rbac_admin/internal/api/rbac/dto"
	"rbac_admin/internal/common"
	"rbac_admin/internal/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// defaultRequestTimeout dùng khi không cấu hình REQUEST_TIMEOUT
const defaultRequestTimeout = 10 * time.Second

// rbacHandler là phần chung của các handler RBAC
type rbacHandler struct {
	*basehdl.BaseHandler
	timeout time.Duration
}

func newRBACHandler(validate *validator.Validate, timeout time.Duration) rbacHandler {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return rbacHandler{
		BaseHandler: basehdl.NewBaseHandler(validate),
		timeout:     timeout,
	}
}

// requestContext trả về context có timeout và request id của request hiện tại
func (h *rbacHandler) requestContext(c fiber.Ctx) (context.Context, context.CancelFunc) {
	ctx := logger.ContextWithRequestID(c.Context(), logger.RequestID(c))
	return context.WithTimeout(ctx, h.timeout)
}

// badRequest tạo lỗi 400 cho tham số không hợp lệ
func badRequest(format string, args ...interface{}) error {
	return common.NewError(common.ErrCodeValidationFormat, fmt.Sprintf(format, args...), common.StatusBadRequest, nil)
}

// parseUsercode đọc :usercode, phải là số nguyên dương
func parseUsercode(c fiber.Ctx) (int64, error) {
	raw := c.Params("usercode")
	usercode, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || usercode <= 0 {
		return 0, badRequest("usercode %q must be a positive integer", raw)
	}
	return usercode, nil
}

// parseNameParam đọc và validate :name
func (h *rbacHandler) parseNameParam(c fiber.Ctx) (string, error) {
	var param rbacdto.NameParam
	if err := h.ParseRequestParams(c, &param); err != nil {
		return "", err
	}
	return param.Name, nil
}

// parseNameFilter đọc ?name= của các danh sách, đã trim khoảng trắng
func (h *rbacHandler) parseNameFilter(c fiber.Ctx) (string, error) {
	var query rbacdto.NameFilterQuery
	if err := h.ParseRequestQuery(c, &query); err != nil {
		return "", err
	}
	return strings.TrimSpace(query.Name), nil
}
