package global

import (
	"rbac_admin/config"
	"rbac_admin/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB_CollectionNames chứa tên các collection trong MongoDB
type MongoDB_CollectionNames struct {
	Permissions string // Tên collection cho quyền
	Roles       string // Tên collection cho vai trò
	Users       string // Tên collection cho người dùng
	Counters    string // Tên collection cho bộ đếm (usercode)
}

// All trả về danh sách tên collection theo thứ tự khởi tạo
func (n MongoDB_CollectionNames) All() []string {
	return []string{n.Permissions, n.Roles, n.Users, n.Counters}
}

// Các biến toàn cục
var Validate *validator.Validate                   // Biến để xác thực dữ liệu
var MongoDB_Session *mongo.Client                  // Phiên kết nối tới MongoDB (nil khi STORAGE_DRIVER=memory)
var MongoDB_ServerConfig *config.Configuration     // Cấu hình của server
var MongoDB_ColNames MongoDB_CollectionNames       // Tên các collection

// Các Registry
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry chứa các collections
