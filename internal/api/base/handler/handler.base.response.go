package basehdl

import (
	"errors"
	"fmt"
	"runtime/debug"

	"rbac_admin/internal/api/middleware"
	"rbac_admin/internal/common"
	"rbac_admin/internal/logger"
	"rbac_admin/internal/metrics"

	"github.com/gofiber/fiber/v3"
)

// SafeHandler bọc handler với recover, đảm bảo client luôn nhận được response kể cả khi panic
func (h *BaseHandler) SafeHandler(c fiber.Ctx, handler func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorWithRequest(c).WithField("stack", string(debug.Stack())).Errorf("Panic trong handler: %v", r)
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeInternalServer,
				fmt.Sprintf("Lỗi hệ thống không mong muốn: %v", r),
				common.StatusInternalServerError,
				nil,
			))
			err = nil
		}
	}()
	return handler()
}

// HandleResponse chuẩn hóa response: {code, message, data, status} khi thành công,
// {code, message, details, status:"error"} khi lỗi.
func (h *BaseHandler) HandleResponse(c fiber.Ctx, data interface{}, err error) {
	h.respond(c, common.StatusOK, common.MsgSuccess, data, err)
}

// HandleCreated giống HandleResponse nhưng trả 201 khi thành công
func (h *BaseHandler) HandleCreated(c fiber.Ctx, data interface{}, err error) {
	h.respond(c, common.StatusCreated, common.MsgCreated, data, err)
}

func (h *BaseHandler) respond(c fiber.Ctx, status int, message string, data interface{}, err error) {
	if err == nil {
		_ = middleware.JSONResponse(c, status, fiber.Map{
			"code":    status,
			"message": message,
			"data":    data,
			"status":  "success",
		})
		return
	}

	var customErr *common.Error
	if !errors.As(err, &customErr) {
		logger.ErrorWithRequest(c).WithError(err).Error("Lỗi không xác định")
		_ = middleware.JSONResponse(c, common.StatusInternalServerError, fiber.Map{
			"code":    common.ErrCodeInternalServer.Code,
			"message": common.MsgInternalError,
			"status":  "error",
		})
		return
	}

	switch {
	case customErr.StatusCode == common.StatusConflict:
		metrics.RecordIntegrityConflict(routePath(c))
	case customErr.StatusCode >= common.StatusInternalServerError:
		logger.ErrorWithRequest(c).WithError(err).WithField("code", customErr.Code.Code).Error("Request thất bại")
	}

	body := fiber.Map{
		"code":    customErr.Code.Code,
		"message": customErr.Message,
		"status":  "error",
	}
	if customErr.Details != nil {
		if inner, ok := customErr.Details.(error); ok {
			body["details"] = inner.Error()
		} else {
			body["details"] = customErr.Details
		}
	}
	_ = middleware.JSONResponse(c, customErr.StatusCode, body)
}

func routePath(c fiber.Ctx) string {
	if route := c.Route(); route != nil {
		return route.Path
	}
	return c.Path()
}
