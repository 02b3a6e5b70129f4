// Package memstore là storage trong bộ nhớ cho các repository RBAC (STORAGE_DRIVER=memory và test).
// Các thao tác ghi có điều kiện được thực hiện dưới cùng một khóa nên có cùng ngữ nghĩa nguyên tử như bản Mongo.
package memstore

import (
	"sort"
	"sync"

	"rbac_admin/internal/api/rbac/models"
	rbacsvc "rbac_admin/internal/api/rbac/service"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store giữ toàn bộ dữ liệu RBAC trong bộ nhớ
type Store struct {
	mu          sync.RWMutex
	permissions map[primitive.ObjectID]models.Permission
	roles       map[primitive.ObjectID]models.Role
	users       map[primitive.ObjectID]models.User
	userSeq     int64
}

// New tạo store rỗng
func New() *Store {
	return &Store{
		permissions: make(map[primitive.ObjectID]models.Permission),
		roles:       make(map[primitive.ObjectID]models.Role),
		users:       make(map[primitive.ObjectID]models.User),
	}
}

// Repositories trả về bộ repository dùng chung store này
func (s *Store) Repositories() *rbacsvc.Repositories {
	return &rbacsvc.Repositories{
		Permissions: s.Permissions(),
		Roles:       s.Roles(),
		Users:       s.Users(),
	}
}

// Permissions trả về PermissionRepository
func (s *Store) Permissions() *PermissionRepository {
	return &PermissionRepository{store: s}
}

// Roles trả về RoleRepository
func (s *Store) Roles() *RoleRepository {
	return &RoleRepository{store: s}
}

// Users trả về UserRepository
func (s *Store) Users() *UserRepository {
	return &UserRepository{store: s}
}

func cloneIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, len(ids))
	copy(out, ids)
	return out
}

func cloneRole(role models.Role) models.Role {
	role.Permissions = cloneIDs(role.Permissions)
	return role
}

func cloneUser(user models.User) models.User {
	if user.Role != nil {
		id := *user.Role
		user.Role = &id
	}
	return user
}

// idSet chuyển danh sách ID thành set để tra cứu
func idSet(ids []primitive.ObjectID) map[primitive.ObjectID]bool {
	set := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// sortByName sắp xếp tăng dần theo tên
func sortByName[T any](items []T, name func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		return name(items[i]) < name(items[j])
	})
}

var (
	_ rbacsvc.PermissionRepository = (*PermissionRepository)(nil)
	_ rbacsvc.RoleRepository       = (*RoleRepository)(nil)
	_ rbacsvc.UserRepository       = (*UserRepository)(nil)
)
