// Package router đăng ký các route thuộc domain rbac: permissions, roles, users.
package router

import (
	"time"

	"rbac_admin/internal/api/middleware"
	rbachdl "rbac_admin/internal/api/rbac/handler"
	rbacsvc "rbac_admin/internal/api/rbac/service"
	apirouter "rbac_admin/internal/api/router"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// Register trả về hàm đăng ký toàn bộ route rbac lên v1.
// validate = nil thì dùng global.Validate; timeout áp dụng cho mỗi thao tác với storage.
func Register(services *rbacsvc.Services, validate *validator.Validate, timeout time.Duration) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		registerPermissionRoutes(v1, rbachdl.NewPermissionHandler(services.Permissions, validate, timeout))
		registerRoleRoutes(v1, rbachdl.NewRoleHandler(services.Roles, validate, timeout))
		registerUserRoutes(v1, rbachdl.NewUserHandler(services.Users, validate, timeout))
		return nil
	}
}

func registerPermissionRoutes(router fiber.Router, h *rbachdl.PermissionHandler) {
	jsonBody := []fiber.Handler{middleware.RequireJSON()}
	apirouter.RegisterRouteWithMiddleware(router, "/permissions", "POST", "", jsonBody, h.HandleCreate)
	apirouter.RegisterRouteWithMiddleware(router, "/permissions", "GET", "", nil, h.HandleList)
	apirouter.RegisterRouteWithMiddleware(router, "/permissions", "PUT", "", jsonBody, h.HandleUpdate)
	apirouter.RegisterRouteWithMiddleware(router, "/permissions", "DELETE", "/:name", nil, h.HandleDelete)
}

func registerRoleRoutes(router fiber.Router, h *rbachdl.RoleHandler) {
	jsonBody := []fiber.Handler{middleware.RequireJSON()}
	apirouter.RegisterRouteWithMiddleware(router, "/roles", "POST", "", jsonBody, h.HandleCreate)
	apirouter.RegisterRouteWithMiddleware(router, "/roles", "GET", "", nil, h.HandleList)
	apirouter.RegisterRouteWithMiddleware(router, "/roles", "PUT", "/:name", jsonBody, h.HandleUpdate)
	apirouter.RegisterRouteWithMiddleware(router, "/roles", "PATCH", "/add-permission/:name", jsonBody, h.HandleAddPermission)
	apirouter.RegisterRouteWithMiddleware(router, "/roles", "PATCH", "/remove-permission/:name", jsonBody, h.HandleRemovePermission)
	apirouter.RegisterRouteWithMiddleware(router, "/roles", "DELETE", "/:name", nil, h.HandleDelete)
}

func registerUserRoutes(router fiber.Router, h *rbachdl.UserHandler) {
	jsonBody := []fiber.Handler{middleware.RequireJSON()}
	apirouter.RegisterRouteWithMiddleware(router, "/users", "POST", "", jsonBody, h.HandleCreate)
	apirouter.RegisterRouteWithMiddleware(router, "/users", "GET", "", nil, h.HandleList)
	apirouter.RegisterRouteWithMiddleware(router, "/users", "GET", "/deleted", nil, h.HandleListDeleted)
	apirouter.RegisterRouteWithMiddleware(router, "/users", "GET", "/active", nil, h.HandleListActive)
	apirouter.RegisterRouteWithMiddleware(router, "/users", "GET", "/count-by-role/:roleName", nil, h.HandleCountByRole)
	apirouter.RegisterRouteWithMiddleware(router, "/users", "PATCH", "/add-role", jsonBody, h.HandleAddRole)
	apirouter.RegisterRouteWithMiddleware(router, "/users", "PATCH", "/remove-role/:usercode", nil, h.HandleRemoveRole)
	apirouter.RegisterRouteWithMiddleware(router, "/users", "PATCH", "/restore/:usercode", nil, h.HandleRestore)
	apirouter.RegisterRouteWithMiddleware(router, "/users", "PUT", "/:usercode", jsonBody, h.HandleUpdate)
	apirouter.RegisterRouteWithMiddleware(router, "/users", "DELETE", "/:usercode", nil, h.HandleSoftDelete)
}
