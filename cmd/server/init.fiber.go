package main

import (
	"errors"
	"strings"
	"time"

	"rbac_admin/config"
	"rbac_admin/internal/api/middleware"
	apirouter "rbac_admin/internal/api/router"
	"rbac_admin/internal/common"
	"rbac_admin/internal/logger"
	"rbac_admin/internal/metrics"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/google/uuid"
)

// healthPath không bị rate limit
const healthPath = "/api/v1/system/health"

// errorHandler trả lỗi của Fiber (route không tồn tại, method sai, body quá lớn, ...) theo envelope chuẩn
func errorHandler(c fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		errorCode := common.ErrCodeInternalServer.Code
		switch {
		case fiberErr.Code == fiber.StatusNotFound, fiberErr.Code == fiber.StatusMethodNotAllowed:
			errorCode = common.ErrCodeDatabaseQuery.Code
		case fiberErr.Code < fiber.StatusInternalServerError:
			errorCode = common.ErrCodeValidationInput.Code
		}
		return middleware.JSONResponse(c, fiberErr.Code, fiber.Map{
			"code":    errorCode,
			"message": fiberErr.Message,
			"status":  "error",
		})
	}

	logger.ErrorWithRequest(c).WithError(err).Error("Request error")
	return middleware.HandleErrorResponse(c, err)
}

// splitOrigins tách CORS_ORIGINS thành danh sách
func splitOrigins(origins string) []string {
	if strings.TrimSpace(origins) == "*" {
		return []string{"*"}
	}
	var out []string
	for _, origin := range strings.Split(origins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			out = append(out, origin)
		}
	}
	return out
}

// InitFiberApp khởi tạo ứng dụng Fiber với các middleware cần thiết và đăng ký routes
func InitFiberApp(cfg *config.Configuration, regs ...apirouter.RegisterFunc) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		AppName:       "RBAC Admin API",
		ServerHeader:  "RBAC Admin API",
		CaseSensitive: true,

		BodyLimit:    1 * 1024 * 1024,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,

		ErrorHandler: errorHandler,
	})

	// 1. Request ID - trace từng request qua log
	app.Use(requestid.New(requestid.Config{
		Header:    fiber.HeaderXRequestID,
		Generator: uuid.NewString,
	}))

	// 2. CORS - đặt sớm để xử lý preflight trước các middleware khác
	app.Use(cors.New(cors.Config{
		AllowOrigins:     splitOrigins(cfg.CORS_Origins),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID", "X-Requested-With"},
		AllowCredentials: cfg.CORS_AllowCredentials,
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		MaxAge:           24 * 60 * 60,
	}))

	// 3. Security headers
	app.Use(middleware.SecurityHeaders())

	// 4. Metrics
	if cfg.MetricsEnabled {
		app.Use(metrics.Middleware())
	}

	// 5. Rate limiting
	log := logger.GetAppLogger()
	if cfg.RateLimit_Enabled && cfg.RateLimit_Max > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit_Max,
			Expiration: time.Duration(cfg.RateLimit_Window) * time.Second,
			KeyGenerator: func(c fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c fiber.Ctx) error {
				return middleware.JSONResponse(c, fiber.StatusTooManyRequests, fiber.Map{
					"code":    common.ErrCodeBusinessOperation.Code,
					"message": common.MsgTooManyRequests,
					"status":  "error",
				})
			},
			Next: func(c fiber.Ctx) bool {
				return c.Path() == healthPath || c.Path() == "/metrics" || c.Method() == fiber.MethodOptions
			},
		}))
		log.Infof("Rate limiting enabled: %d requests per %d seconds", cfg.RateLimit_Max, cfg.RateLimit_Window)
	} else {
		log.Info("Rate limiting disabled")
	}

	// 6. Recover
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			logger.ErrorWithRequest(c).WithField("panic", e).Error("Panic recovered")
		},
	}))

	if cfg.MetricsEnabled {
		app.Get("/metrics", metrics.Handler())
	}

	if err := apirouter.SetupRoutes(app, regs...); err != nil {
		return nil, err
	}
	return app, nil
}
