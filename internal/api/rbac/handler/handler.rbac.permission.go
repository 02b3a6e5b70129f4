package rbachdl

import (
	"time"

	rbacdto "rbac_admin/internal/api/rbac/dto"
	rbacsvc "rbac_admin/internal/api/rbac/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// PermissionHandler xử lý các route /permissions
type PermissionHandler struct {
	rbacHandler
	service *rbacsvc.PermissionService
}

// NewPermissionHandler tạo PermissionHandler; validate = nil thì dùng global.Validate
func NewPermissionHandler(service *rbacsvc.PermissionService, validate *validator.Validate, timeout time.Duration) *PermissionHandler {
	return &PermissionHandler{
		rbacHandler: newRBACHandler(validate, timeout),
		service:     service,
	}
}

// HandleCreate tạo permission
func (h *PermissionHandler) HandleCreate(c fiber.Ctx) error {
	var input rbacdto.PermissionCreateInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()
	result, err := h.service.Create(ctx, input.Name)
	h.HandleCreated(c, result, err)
	return nil
}

// HandleList liệt kê permission, lọc theo ?name=
func (h *PermissionHandler) HandleList(c fiber.Ctx) error {
	filter, err := h.parseNameFilter(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()
	result, err := h.service.List(ctx, filter)
	h.HandleResponse(c, result, err)
	return nil
}

// HandleUpdate đổi tên permission (tạo mới nếu tên gốc chưa có)
func (h *PermissionHandler) HandleUpdate(c fiber.Ctx) error {
	var input rbacdto.PermissionUpdateInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()
	result, err := h.service.Update(ctx, input.OriginalName, input.NewName)
	h.HandleResponse(c, result, err)
	return nil
}

// HandleDelete xóa permission theo :name
func (h *PermissionHandler) HandleDelete(c fiber.Ctx) error {
	name, err := h.parseNameParam(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()
	h.HandleResponse(c, nil, h.service.Delete(ctx, name))
	return nil
}
