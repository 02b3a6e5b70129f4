// Package initsvc chứa các bước khởi tạo dùng chung cho server và rbacctl:
// tên collection, kết nối storage, index, dữ liệu mặc định.
// Tách ra package riêng để tránh import cycle giữa cmd và rbac/service.
package initsvc

import (
	"context"
	"fmt"

	"rbac_admin/config"
	"rbac_admin/internal/api/rbac/memstore"
	"rbac_admin/internal/api/rbac/models"
	rbacsvc "rbac_admin/internal/api/rbac/service"
	"rbac_admin/internal/database"
	"rbac_admin/internal/global"
	"rbac_admin/internal/logger"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

// InitColNames gán tên các collection từ cấu hình
func InitColNames(cfg *config.Configuration) {
	global.MongoDB_ColNames = global.MongoDB_CollectionNames{
		Permissions: cfg.MongoDB_ColPermission,
		Roles:       cfg.MongoDB_ColRole,
		Users:       cfg.MongoDB_ColUser,
		Counters:    cfg.MongoDB_ColCounter,
	}
}

// InitCollections đăng ký các collection vào global.RegistryCollections
func InitCollections(client *mongo.Client, cfg *config.Configuration) error {
	log := logger.WithModule("init")
	db := client.Database(cfg.MongoDB_DBName)
	for _, name := range global.MongoDB_ColNames.All() {
		registered, err := global.RegistryCollections.Register(name, db.Collection(name))
		if err != nil {
			return fmt.Errorf("register collection %s: %w", name, err)
		}
		if registered {
			log.Debugf("Collection %s registered successfully", name)
		} else {
			log.Warnf("Collection %s already registered", name)
		}
	}
	return nil
}

// EnsureIndexes tạo database/collection còn thiếu và index theo tag `index` của từng model
func EnsureIndexes(ctx context.Context, client *mongo.Client, cfg *config.Configuration) error {
	names := global.MongoDB_ColNames
	if err := database.EnsureDatabaseAndCollections(ctx, client, cfg.MongoDB_DBName, names.All()); err != nil {
		return err
	}

	db := client.Database(cfg.MongoDB_DBName)
	byCollection := map[string]interface{}{
		names.Permissions: models.Permission{},
		names.Roles:       models.Role{},
		names.Users:       models.User{},
	}
	for name, model := range byCollection {
		if err := database.CreateIndexes(ctx, db.Collection(name), model); err != nil {
			return fmt.Errorf("create indexes for %s: %w", name, err)
		}
	}
	return nil
}

// Storage là storage đã mở cùng hàm đóng kết nối
type Storage struct {
	Repositories *rbacsvc.Repositories
	Client       *mongo.Client // nil khi STORAGE_DRIVER=memory
}

// Close đóng kết nối Mongo (nếu có)
func (s *Storage) Close() error {
	return database.CloseInstance(s.Client)
}

// OpenStorage mở storage theo STORAGE_DRIVER. Với mongo: kết nối, đăng ký collection,
// tạo index (nếu ensureIndexes) rồi dựng repository.
func OpenStorage(ctx context.Context, cfg *config.Configuration, ensureIndexes bool) (*Storage, error) {
	InitColNames(cfg)
	if cfg.StorageDriver == config.StorageMemory {
		return &Storage{Repositories: memstore.New().Repositories()}, nil
	}

	client, err := database.GetInstance(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	storage := &Storage{Client: client}

	if ensureIndexes {
		if err := EnsureIndexes(ctx, client, cfg); err != nil {
			_ = storage.Close()
			return nil, err
		}
	}
	if err := InitCollections(client, cfg); err != nil {
		_ = storage.Close()
		return nil, err
	}
	repos, err := rbacsvc.NewMongoRepositories()
	if err != nil {
		_ = storage.Close()
		return nil, err
	}
	storage.Repositories = repos
	return storage, nil
}

// InitService tạo dữ liệu mặc định khi khởi động
type InitService struct {
	services *rbacsvc.Services
}

// NewInitService tạo InitService trên bộ service đã dựng
func NewInitService(services *rbacsvc.Services) *InitService {
	return &InitService{services: services}
}

// InitDefaultData đồng bộ bộ đếm usercode rồi seed permission/role từ seedFile (rỗng = bỏ qua seed)
func (s *InitService) InitDefaultData(ctx context.Context, seedFile string) error {
	log := logger.WithModule("init")

	log.Info("🔄 [INIT] Step 1: Syncing usercode counter...")
	seq, err := s.services.Users.SyncUsercode(ctx)
	if err != nil {
		return fmt.Errorf("sync usercode counter: %w", err)
	}
	log.WithField("seq", seq).Info("✅ [INIT] Step 1: Usercode counter synced")

	if seedFile == "" {
		log.Info("[INIT] Step 2: Seed skipped")
		return nil
	}

	log.Info("🔄 [INIT] Step 2: Seeding default permissions and roles...")
	data, err := rbacsvc.LoadSeedFile(seedFile)
	if err != nil {
		return err
	}
	report, err := s.services.Seed(ctx, data)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"permissionsCreated": report.PermissionsCreated,
		"rolesCreated":       report.RolesCreated,
	}).Info("✅ [INIT] Step 2: Default data seeded")
	return nil
}
