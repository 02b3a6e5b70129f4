package main

import (
	"context"

	"rbac_admin/config"
	"rbac_admin/internal/api/initsvc"
	rbacsvc "rbac_admin/internal/api/rbac/service"
	"rbac_admin/internal/global"
	"rbac_admin/internal/logger"
)

// Các đối tượng dùng chung sau khi khởi tạo
var (
	storage  *initsvc.Storage
	services *rbacsvc.Services
)

// Hàm khởi tạo các biến toàn cục
func InitGlobal() {
	initValidator() // Khởi tạo validator
	initConfig()    // Khởi tạo cấu hình server
	initStorage()   // Khởi tạo storage (mongo hoặc memory) và các service
}

// Hàm khởi tạo validator (đăng ký custom validators: no_xss, rbac_name)
func initValidator() {
	global.InitValidator()
	logger.GetAppLogger().Info("Initialized validator")
}

// Hàm khởi tạo cấu hình server
func initConfig() {
	cfg, err := config.NewConfig()
	if err != nil {
		logger.GetAppLogger().Fatalf("Failed to initialize config: %v", err)
	}
	global.MongoDB_ServerConfig = cfg
	logger.GetAppLogger().WithField("storage", cfg.StorageDriver).Info("Initialized server config")
}

// Hàm khởi tạo storage: kết nối database, tạo collection/index, đăng ký collection, dựng service
func initStorage() {
	log := logger.GetAppLogger()
	cfg := global.MongoDB_ServerConfig

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout*3)
	defer cancel()

	var err error
	storage, err = initsvc.OpenStorage(ctx, cfg, true)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	global.MongoDB_Session = storage.Client
	services = rbacsvc.NewServices(storage.Repositories)

	if storage.Client != nil {
		log.WithField("database", cfg.MongoDB_DBName).Info("Connected to MongoDB, indexes ensured")
	} else {
		log.Warn("Using in-memory storage, data is lost on restart")
	}
}
