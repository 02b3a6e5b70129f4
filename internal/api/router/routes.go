package router

import (
	"fmt"
	"strings"

	basehdl "rbac_admin/internal/api/base/handler"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/mongo"
)

// ============================================================================
// LƯU Ý FIBER V3 - CÁCH ĐĂNG KÝ MIDDLEWARE THEO ROUTE
// ============================================================================
//
// Middleware truyền trực tiếp router.Get(path, mw, handler) không được gọi ổn định.
// Luôn dùng RegisterRouteWithMiddleware: middleware được gắn bằng .Use() trên group của prefix.
//
//	RegisterRouteWithMiddleware(v1, "/roles", "PATCH", "/add-permission/:name", []fiber.Handler{middleware.RequireJSON()}, h.HandleAddPermission)
//
// ============================================================================

// Router quản lý việc định tuyến cho API
type Router struct {
	app *fiber.App
}

// RoutePrefix chứa các prefix cơ bản cho API
type RoutePrefix struct {
	Base string // Prefix cơ bản (/api)
	V1   string // Prefix cho API version 1 (/api/v1)
}

// NewRoutePrefix tạo mới một instance của RoutePrefix với các giá trị mặc định
func NewRoutePrefix() RoutePrefix {
	base := "/api"
	return RoutePrefix{
		Base: base,
		V1:   base + "/v1",
	}
}

// NewRouter tạo mới một instance của Router
func NewRouter(app *fiber.App) *Router {
	return &Router{
		app: app,
	}
}

// RegisterRouteWithMiddleware đăng ký route với middleware (cách đúng theo Fiber v3). Dùng từ domain router.
func RegisterRouteWithMiddleware(router fiber.Router, prefix string, method string, path string, middlewares []fiber.Handler, handler fiber.Handler) {
	// Middleware chỉ áp dụng cho routes trong group này
	routeGroup := router.Group(prefix)
	for _, mw := range middlewares {
		routeGroup.Use(mw)
	}

	switch strings.ToUpper(method) {
	case fiber.MethodGet:
		routeGroup.Get(path, handler)
	case fiber.MethodPost:
		routeGroup.Post(path, handler)
	case fiber.MethodPut:
		routeGroup.Put(path, handler)
	case fiber.MethodPatch:
		routeGroup.Patch(path, handler)
	case fiber.MethodDelete:
		routeGroup.Delete(path, handler)
	default:
		panic(fmt.Sprintf("unsupported method %s for route %s%s", method, prefix, path))
	}
}

// RegisterFunc là hàm đăng ký route của một domain (do domain/router export).
type RegisterFunc func(v1 fiber.Router, r *Router) error

// SystemRoutes đăng ký /system/health. client trả về nil khi chạy storage memory.
func SystemRoutes(client func() *mongo.Client) RegisterFunc {
	return func(v1 fiber.Router, r *Router) error {
		systemHandler := basehdl.NewSystemHandler(client)
		v1.Get("/system/health", systemHandler.HandleHealth)
		return nil
	}
}

// SetupRoutes thiết lập tất cả các route cho ứng dụng. Caller truyền lần lượt Register của từng domain để tránh import cycle.
func SetupRoutes(app *fiber.App, regs ...RegisterFunc) error {
	prefix := NewRoutePrefix()
	v1 := app.Group(prefix.V1)
	r := NewRouter(app)
	for _, reg := range regs {
		if err := reg(v1, r); err != nil {
			return err
		}
	}
	return nil
}
