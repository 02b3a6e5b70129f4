package rbachdl

import (
	"context"
	"time"

	rbacdto "rbac_admin/internal/api/rbac/dto"
	"rbac_admin/internal/api/rbac/models"
	rbacsvc "rbac_admin/internal/api/rbac/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// RoleHandler xử lý các route /roles
type RoleHandler struct {
	rbacHandler
	service *rbacsvc.RoleService
}

// NewRoleHandler tạo RoleHandler
func NewRoleHandler(service *rbacsvc.RoleService, validate *validator.Validate, timeout time.Duration) *RoleHandler {
	return &RoleHandler{
		rbacHandler: newRBACHandler(validate, timeout),
		service:     service,
	}
}

// HandleCreate tạo role với danh sách permission ban đầu
func (h *RoleHandler) HandleCreate(c fiber.Ctx) error {
	var input rbacdto.RoleInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()
	result, err := h.service.Create(ctx, input.Name, input.PermissionNames())
	h.HandleCreated(c, result, err)
	return nil
}

// HandleList liệt kê role đã hydrate permissions
func (h *RoleHandler) HandleList(c fiber.Ctx) error {
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

// HandleUpdate thay toàn bộ role :name bằng body
func (h *RoleHandler) HandleUpdate(c fiber.Ctx) error {
	name, err := h.parseNameParam(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	var input rbacdto.RoleInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()
	result, err := h.service.Update(ctx, name, input.Name, input.PermissionNames())
	h.HandleResponse(c, result, err)
	return nil
}

// HandleAddPermission thêm permission {name} vào role :name
func (h *RoleHandler) HandleAddPermission(c fiber.Ctx) error {
	return h.handlePermissionChange(c, h.service.AddPermission)
}

// HandleRemovePermission gỡ permission {name} khỏi role :name
func (h *RoleHandler) HandleRemovePermission(c fiber.Ctx) error {
	return h.handlePermissionChange(c, h.service.RemovePermission)
}

type permissionChangeFunc func(ctx context.Context, roleName, permissionName string) (*models.RoleView, error)

func (h *RoleHandler) handlePermissionChange(c fiber.Ctx, change permissionChangeFunc) error {
	roleName, err := h.parseNameParam(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	var input rbacdto.PermissionRefInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()
	result, err := change(ctx, roleName, input.Name)
	h.HandleResponse(c, result, err)
	return nil
}

// HandleDelete xóa role :name
func (h *RoleHandler) HandleDelete(c fiber.Ctx) error {
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
