package main

import (
	"context"

	"rbac_admin/internal/api/initsvc"
	"rbac_admin/internal/global"
	"rbac_admin/internal/logger"
)

// InitDefaultData đồng bộ bộ đếm usercode và seed dữ liệu mặc định (nếu SEED_ON_START)
func InitDefaultData() {
	log := logger.GetAppLogger()
	log.Info("🔄 [INIT] Starting InitDefaultData...")

	cfg := global.MongoDB_ServerConfig
	seedFile := ""
	if cfg.SeedOnStart {
		seedFile = resolvePath(cfg.SeedFile)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout*3)
	defer cancel()
	if err := initsvc.NewInitService(services).InitDefaultData(ctx, seedFile); err != nil {
		log.Fatalf("Failed to initialize default data: %v", err)
	}

	log.Info("✅ [INIT] InitDefaultData completed successfully")
}
