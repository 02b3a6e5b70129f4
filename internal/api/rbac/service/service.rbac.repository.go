// Package rbacsvc chứa nghiệp vụ RBAC: permission, role, user với kiểm tra tồn tại,
// trùng lặp và chuyển trạng thái trước mỗi lần ghi.
package rbacsvc

import (
	"context"
	"strings"

	"rbac_admin/internal/api/rbac/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PermissionRepository lưu trữ permission. FindByName trả về (nil, nil) khi không có.
type PermissionRepository interface {
	FindByName(ctx context.Context, name string) (*models.Permission, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Permission, error)
	List(ctx context.Context, nameContains string) ([]models.Permission, error)
	Insert(ctx context.Context, permission models.Permission) (*models.Permission, error)
	Rename(ctx context.Context, id primitive.ObjectID, newName string) (*models.Permission, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// RoleRepository lưu trữ role.
// AddPermission/RemovePermission ghi có điều kiện và trả về false khi điều kiện không còn đúng.
type RoleRepository interface {
	FindByName(ctx context.Context, name string) (*models.Role, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Role, error)
	List(ctx context.Context, nameContains string) ([]models.Role, error)
	Insert(ctx context.Context, role models.Role) (*models.Role, error)
	Replace(ctx context.Context, id primitive.ObjectID, name string, permissions []primitive.ObjectID) (*models.Role, error)
	AddPermission(ctx context.Context, roleID, permissionID primitive.ObjectID) (bool, error)
	RemovePermission(ctx context.Context, roleID, permissionID primitive.ObjectID) (bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountWithPermission(ctx context.Context, permissionID primitive.ObjectID) (int64, error)
}

// UserRepository lưu trữ user.
// SetRole(role != nil) chỉ ghi khi user chưa có role; SetRole(nil) chỉ ghi khi user đang có role.
// SetDeleted chỉ ghi khi cờ deleted hiện tại khác giá trị mới.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsercode(ctx context.Context, usercode int64) (*models.User, error)
	List(ctx context.Context, query UserQuery) ([]models.User, int64, error)
	Insert(ctx context.Context, user models.User) (*models.User, error)
	Replace(ctx context.Context, user models.User) (*models.User, error)
	SetRole(ctx context.Context, usercode int64, role *primitive.ObjectID) (bool, error)
	SetDeleted(ctx context.Context, usercode int64, deleted bool) (bool, error)
	CountWithRole(ctx context.Context, roleID primitive.ObjectID) (int64, error)
	CountWithRoleName(ctx context.Context, roleName string) (int64, error)
	NextUsercode(ctx context.Context) (int64, error)
	SyncUsercode(ctx context.Context) (int64, error)
}

// Repositories gom ba repository mà các service dùng chung
type Repositories struct {
	Permissions PermissionRepository
	Roles       RoleRepository
	Users       UserRepository
}

// SortDirection là chiều sắp xếp của danh sách user
type SortDirection int

const (
	SortNone SortDirection = 0
	SortAsc  SortDirection = 1
	SortDesc SortDirection = -1
)

// sortableUserFields là các field user được phép sắp xếp
var sortableUserFields = map[string]bool{
	"usercode":  true,
	"name":      true,
	"email":     true,
	"birthdate": true,
	"createdAt": true,
}

// ParseSort chuyển sortBy/sort từ query thành field và chiều sắp xếp.
// sortBy rỗng hoặc không hợp lệ -> không sắp xếp; sort rỗng -> tăng dần; sort khác ASC/DESC -> không sắp xếp.
func ParseSort(sortBy, sort string) (string, SortDirection) {
	if !sortableUserFields[sortBy] {
		return "", SortNone
	}
	switch strings.ToUpper(strings.TrimSpace(sort)) {
	case "", "ASC":
		return sortBy, SortAsc
	case "DESC":
		return sortBy, SortDesc
	default:
		return "", SortNone
	}
}

// UserQuery là điều kiện lọc, phân trang và sắp xếp danh sách user
type UserQuery struct {
	Deleted *bool // nil = tất cả
	Page    int64
	Size    int64
	SortBy  string
	SortDir SortDirection
}
