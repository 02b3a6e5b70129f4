package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"rbac_admin/config"
	rbacrouter "rbac_admin/internal/api/rbac/router"
	apirouter "rbac_admin/internal/api/router"
	"rbac_admin/internal/global"
	"rbac_admin/internal/logger"
	"rbac_admin/internal/worker"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/mongo"
)

// initLogger khởi tạo và cấu hình logger cho toàn bộ ứng dụng (đọc LOG_* từ env)
func initLogger() {
	if err := logger.Init(nil); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	logger.GetAppLogger().Info("Logger system initialized successfully")
}

// resolvePath resolve đường dẫn tương đối theo thư mục chứa config/env
func resolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	currentDir, err := os.Getwd()
	if err != nil {
		return path
	}
	for {
		if _, err := os.Stat(filepath.Join(currentDir, "config", "env")); err == nil {
			return filepath.Join(currentDir, path)
		}
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return path
		}
		currentDir = parentDir
	}
}

// listen tạo listener TCP, bọc TLS nếu ENABLE_TLS
func listen(cfg *config.Configuration) (net.Listener, error) {
	address := ":" + cfg.Address
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("create listener: %w", err)
	}
	if !cfg.EnableTLS || cfg.TLSCertFile == "" || cfg.TLSKeyFile == "" {
		return ln, nil
	}

	cert, err := tls.LoadX509KeyPair(resolvePath(cfg.TLSCertFile), resolvePath(cfg.TLSKeyFile))
	if err != nil {
		_ = ln.Close()
		return nil, fmt.Errorf("load TLS certificate: %w", err)
	}
	return tls.NewListener(ln, &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}), nil
}

// main_thread khởi tạo và chạy Fiber server, dừng êm khi nhận SIGINT/SIGTERM
func main_thread() {
	log := logger.GetAppLogger()
	cfg := global.MongoDB_ServerConfig

	app, err := InitFiberApp(cfg,
		apirouter.SystemRoutes(func() *mongo.Client { return global.MongoDB_Session }),
		rbacrouter.Register(services, global.Validate, cfg.RequestTimeout),
	)
	if err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}

	ln, err := listen(cfg)
	if err != nil {
		log.Fatalf("Failed to listen: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.UsercodeSync > 0 {
		go worker.NewUsercodeSyncWorker(services.Users, cfg.UsercodeSync, cfg.RequestTimeout).Start(ctx)
	}

	serverErr := make(chan error, 1)
	go func() {
		log.WithFields(map[string]interface{}{
			"address": ln.Addr().String(),
			"tls":     cfg.EnableTLS,
		}).Info("Starting Fiber server...")
		serverErr <- app.Listener(ln, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Errorf("Error in Fiber Listener: %v", err)
		}
	case <-ctx.Done():
		log.Info("Shutdown signal received")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Errorf("Error shutting down server: %v", err)
		}
	}

	if err := storage.Close(); err != nil {
		log.Errorf("Error closing storage: %v", err)
	}
	log.Info("Server stopped")
}

// Hàm main
func main() {
	// Khởi tạo logger
	initLogger()
	defer logger.Close()

	// Khởi tạo các biến toàn cục
	InitGlobal()

	// Khởi tạo registry
	InitRegistry()

	// Khởi tạo dữ liệu mặc định
	InitDefaultData()

	// Chạy Fiber server trên main thread
	main_thread()
}
