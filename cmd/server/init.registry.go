package main

import (
	"context"
	"strings"

	"rbac_admin/internal/api/events"
	"rbac_admin/internal/global"
	"rbac_admin/internal/logger"
	"rbac_admin/internal/metrics"
)

// InitRegistry đăng ký Prometheus collectors, handler sự kiện thay đổi dữ liệu và log các collection đã đăng ký
func InitRegistry() {
	log := logger.GetAppLogger()

	if global.MongoDB_ServerConfig.MetricsEnabled {
		if err := metrics.Register(nil); err != nil {
			log.Fatalf("Failed to register metrics: %v", err)
		}
		events.OnDataChanged(func(_ context.Context, e events.DataChangeEvent) {
			metrics.RecordMutation(e.Entity, e.Operation)
		})
		log.Info("Initialized metrics registry")
	}

	if names := global.RegistryCollections.Names(); len(names) > 0 {
		log.Infof("Initialized collection registry: %s", strings.Join(names, ", "))
	}
}
