package basehdl

import (
	"time"

	"rbac_admin/internal/api/middleware"
	"rbac_admin/internal/common"
	"rbac_admin/internal/database"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/mongo"
)

// SystemHandler xử lý các route liên quan đến system operations
type SystemHandler struct {
	*BaseHandler
	client func() *mongo.Client
}

// NewSystemHandler tạo SystemHandler; client trả về nil khi chạy STORAGE_DRIVER=memory
func NewSystemHandler(client func() *mongo.Client) *SystemHandler {
	return &SystemHandler{
		BaseHandler: NewBaseHandler(nil),
		client:      client,
	}
}

// HandleHealth kiểm tra trạng thái API và kết nối database
func (h *SystemHandler) HandleHealth(c fiber.Ctx) error {
	healthData := fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	services := fiber.Map{"api": "ok"}
	healthData["services"] = services

	client := h.client()
	if client == nil {
		services["database"] = "not_initialized"
		return middleware.JSONResponse(c, common.StatusOK, fiber.Map{
			"code":    common.StatusOK,
			"message": common.MsgSuccess,
			"data":    healthData,
			"status":  "success",
		})
	}

	if err := database.Ping(client, 2*time.Second); err != nil {
		healthData["status"] = "degraded"
		services["database"] = "error"
		healthData["database_error"] = err.Error()
		return middleware.JSONResponse(c, common.StatusServiceUnavailable, fiber.Map{
			"code":    common.StatusServiceUnavailable,
			"message": common.MsgServiceUnavailable,
			"data":    healthData,
			"status":  "error",
		})
	}

	services["database"] = "ok"
	return middleware.JSONResponse(c, common.StatusOK, fiber.Map{
		"code":    common.StatusOK,
		"message": common.MsgSuccess,
		"data":    healthData,
		"status":  "success",
	})
}
