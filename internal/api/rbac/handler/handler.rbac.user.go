package rbachdl

import (
	"context"
	"strconv"
	"time"

	rbacdto "rbac_admin/internal/api/rbac/dto"
	"rbac_admin/internal/api/rbac/models"
	rbacsvc "rbac_admin/internal/api/rbac/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// Giá trị mặc định khi query không có page/size
const (
	defaultPage int64 = 1
	defaultSize int64 = 10
)

// UserHandler xử lý các route /users
type UserHandler struct {
	rbacHandler
	service *rbacsvc.UserService
}

// NewUserHandler tạo UserHandler
func NewUserHandler(service *rbacsvc.UserService, validate *validator.Validate, timeout time.Duration) *UserHandler {
	return &UserHandler{
		rbacHandler: newRBACHandler(validate, timeout),
		service:     service,
	}
}

func toUserSpec(input rbacdto.UserInput) rbacsvc.UserSpec {
	spec := rbacsvc.UserSpec{
		Name:     input.Name,
		Email:    input.Email,
		RoleName: input.RoleName(),
	}
	if input.Birthdate != nil {
		spec.Birthdate = input.Birthdate.Time
	}
	return spec
}

// HandleCreate tạo user
func (h *UserHandler) HandleCreate(c fiber.Ctx) error {
	var input rbacdto.UserInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()
	result, err := h.service.Create(ctx, toUserSpec(input))
	h.HandleCreated(c, result, err)
	return nil
}

// queryInt64 đọc tham số số nguyên từ query, trả về def khi không có
func queryInt64(c fiber.Ctx, key string, def int64) (int64, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, badRequest("%s %q must be an integer", key, raw)
	}
	return v, nil
}

// parseListQuery đọc page/size/sortBy/sort; page, size <= 0 -> 400
func (h *UserHandler) parseListQuery(c fiber.Ctx) (rbacdto.UserListQuery, error) {
	var query rbacdto.UserListQuery
	var err error
	if query.Page, err = queryInt64(c, "page", defaultPage); err != nil {
		return query, err
	}
	if query.Size, err = queryInt64(c, "size", defaultSize); err != nil {
		return query, err
	}
	query.SortBy = c.Query("sortBy")
	query.Sort = c.Query("sort")
	if err := h.ValidateStruct(&query); err != nil {
		return query, err
	}
	return query, nil
}

// HandleList liệt kê tất cả user
func (h *UserHandler) HandleList(c fiber.Ctx) error {
	return h.handleList(c, nil)
}

// HandleListDeleted liệt kê user đã xóa mềm
func (h *UserHandler) HandleListDeleted(c fiber.Ctx) error {
	deleted := true
	return h.handleList(c, &deleted)
}

// HandleListActive liệt kê user chưa bị xóa
func (h *UserHandler) HandleListActive(c fiber.Ctx) error {
	deleted := false
	return h.handleList(c, &deleted)
}

func (h *UserHandler) handleList(c fiber.Ctx, deleted *bool) error {
	query, err := h.parseListQuery(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	sortBy, sortDir := rbacsvc.ParseSort(query.SortBy, query.Sort)
	ctx, cancel := h.requestContext(c)
	defer cancel()
	result, err := h.service.List(ctx, rbacsvc.UserQuery{
		Deleted: deleted,
		Page:    query.Page,
		Size:    query.Size,
		SortBy:  sortBy,
		SortDir: sortDir,
	})
	h.HandleResponse(c, result, err)
	return nil
}

// HandleCountByRole đếm user theo tên role
func (h *UserHandler) HandleCountByRole(c fiber.Ctx) error {
	roleName := c.Params("roleName")
	ctx, cancel := h.requestContext(c)
	defer cancel()
	count, err := h.service.CountUsersWithRole(ctx, roleName)
	h.HandleResponse(c, fiber.Map{"roleName": roleName, "count": count}, err)
	return nil
}

// HandleUpdate thay toàn bộ user :usercode (tạo mới nếu chưa có)
func (h *UserHandler) HandleUpdate(c fiber.Ctx) error {
	usercode, err := parseUsercode(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	var input rbacdto.UserInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()
	result, err := h.service.Update(ctx, usercode, toUserSpec(input))
	h.HandleResponse(c, result, err)
	return nil
}

// HandleAddRole gán role cho user theo body {usercode, roleName}
func (h *UserHandler) HandleAddRole(c fiber.Ctx) error {
	var input rbacdto.UserRoleInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()
	result, err := h.service.AddRole(ctx, input.Usercode, input.RoleName)
	h.HandleResponse(c, result, err)
	return nil
}

// HandleRemoveRole gỡ role khỏi user :usercode
func (h *UserHandler) HandleRemoveRole(c fiber.Ctx) error {
	return h.handleUsercode(c, h.service.RemoveRole)
}

// HandleRestore khôi phục user đã xóa mềm
func (h *UserHandler) HandleRestore(c fiber.Ctx) error {
	return h.handleUsercode(c, h.service.Restore)
}

// HandleSoftDelete xóa mềm user
func (h *UserHandler) HandleSoftDelete(c fiber.Ctx) error {
	return h.handleUsercode(c, h.service.SoftDelete)
}

func (h *UserHandler) handleUsercode(c fiber.Ctx, action func(ctx context.Context, usercode int64) (*models.UserView, error)) error {
	usercode, err := parseUsercode(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()
	result, err := action(ctx, usercode)
	h.HandleResponse(c, result, err)
	return nil
}
