package rbacsvc

import (
	"context"

	"rbac_admin/internal/api/events"
	"rbac_admin/internal/api/rbac/models"
	"rbac_admin/internal/utility"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoleService quản lý role; tên permission được resolve qua PermissionService trước khi ghi
type RoleService struct {
	roles       RoleRepository
	users       UserRepository
	permissions *PermissionService
	hydrator    *Hydrator
}

// NewRoleService tạo RoleService
func NewRoleService(repos *Repositories, permissions *PermissionService, hydrator *Hydrator) *RoleService {
	return &RoleService{
		roles:       repos.Roles,
		users:       repos.Users,
		permissions: permissions,
		hydrator:    hydrator,
	}
}

// FindByName tra cứu chính xác theo tên đã chuẩn hóa; (nil, nil) nếu không có
func (s *RoleService) FindByName(ctx context.Context, name string) (*models.Role, error) {
	return s.roles.FindByName(ctx, utility.NormalizeName(name))
}

// resolvePermissions chuyển danh sách tên thành tập ID, dừng ở tên đầu tiên không tồn tại
func (s *RoleService) resolvePermissions(ctx context.Context, names []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(names))
	seen := map[primitive.ObjectID]bool{}
	for _, name := range names {
		permission, err := s.permissions.FindByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if permission == nil {
			return nil, conflictf("Permission %s not exists", utility.NormalizeName(name))
		}
		if !seen[permission.ID] {
			seen[permission.ID] = true
			ids = append(ids, permission.ID)
		}
	}
	return ids, nil
}

// Create tạo role với tập permission ban đầu (có thể rỗng)
func (s *RoleService) Create(ctx context.Context, name string, permissionNames []string) (*models.RoleView, error) {
	name = utility.NormalizeName(name)
	existing, err := s.roles.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, conflictf("Role already exists")
	}

	ids, err := s.resolvePermissions(ctx, permissionNames)
	if err != nil {
		return nil, err
	}

	created, err := s.roles.Insert(ctx, models.Role{Name: name, Permissions: ids})
	if err != nil {
		return nil, err
	}
	logMutation(ctx, events.DataChangeEvent{Entity: events.EntityRole, Operation: events.OpCreate, Key: name}, "Role created", logrus.Fields{"role": name, "permissions": len(ids)})
	return s.hydrator.Role(ctx, created)
}

// List trả về các role (lọc theo tên chứa filter nếu có), đã hydrate permissions
func (s *RoleService) List(ctx context.Context, nameFilter string) ([]models.RoleView, error) {
	roles, err := s.roles.List(ctx, nameFilter)
	if err != nil {
		return nil, err
	}
	return s.hydrator.Roles(ctx, roles)
}

// Update thay toàn bộ tên và tập permission của role.
// Role chưa tồn tại thì tạo mới (upsert); tên mới trùng role khác thì Conflict.
func (s *RoleService) Update(ctx context.Context, name, newName string, permissionNames []string) (*models.RoleView, error) {
	name = utility.NormalizeName(name)
	newName = utility.NormalizeName(newName)

	role, err := s.roles.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return s.Create(ctx, newName, permissionNames)
	}

	if newName != role.Name {
		other, err := s.roles.FindByName(ctx, newName)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != role.ID {
			return nil, conflictf("Role %s already exists", newName)
		}
	}

	ids, err := s.resolvePermissions(ctx, permissionNames)
	if err != nil {
		return nil, err
	}

	updated, err := s.roles.Replace(ctx, role.ID, newName, ids)
	if err != nil {
		return nil, err
	}
	logMutation(ctx, events.DataChangeEvent{Entity: events.EntityRole, Operation: events.OpUpdate, Key: newName}, "Role updated", logrus.Fields{"role": name, "newName": newName, "permissions": len(ids)})
	return s.hydrator.Role(ctx, updated)
}

// lookupRoleAndPermission resolve cả role và permission cho add/remove permission
func (s *RoleService) lookupRoleAndPermission(ctx context.Context, roleName, permissionName string) (*models.Role, *models.Permission, error) {
	role, err := s.roles.FindByName(ctx, utility.NormalizeName(roleName))
	if err != nil {
		return nil, nil, err
	}
	if role == nil {
		return nil, nil, conflictf("Role not exists")
	}
	permission, err := s.permissions.FindByName(ctx, permissionName)
	if err != nil {
		return nil, nil, err
	}
	if permission == nil {
		return nil, nil, conflictf("Permission not exists")
	}
	return role, permission, nil
}

// AddPermission thêm một permission vào role; Conflict nếu role/permission không tồn tại hoặc đã có
func (s *RoleService) AddPermission(ctx context.Context, roleName, permissionName string) (*models.RoleView, error) {
	role, permission, err := s.lookupRoleAndPermission(ctx, roleName, permissionName)
	if err != nil {
		return nil, err
	}
	if role.HasPermission(permission.ID) {
		return nil, conflictf("Permission already exists on this role")
	}

	// Ghi có điều kiện: request đồng thời đã thêm trước thì không khớp
	ok, err := s.roles.AddPermission(ctx, role.ID, permission.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, conflictf("Permission already exists on this role")
	}

	logMutation(ctx, events.DataChangeEvent{Entity: events.EntityRole, Operation: events.OpUpdate, Key: role.Name}, "Permission added to role", logrus.Fields{"role": role.Name, "permission": permission.Name})
	return s.reload(ctx, role.Name)
}

// RemovePermission gỡ một permission khỏi role; Conflict nếu role/permission không tồn tại hoặc role chưa có
func (s *RoleService) RemovePermission(ctx context.Context, roleName, permissionName string) (*models.RoleView, error) {
	role, permission, err := s.lookupRoleAndPermission(ctx, roleName, permissionName)
	if err != nil {
		return nil, err
	}
	if !role.HasPermission(permission.ID) {
		return nil, conflictf("Permission not exists on this role")
	}

	ok, err := s.roles.RemovePermission(ctx, role.ID, permission.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, conflictf("Permission not exists on this role")
	}

	logMutation(ctx, events.DataChangeEvent{Entity: events.EntityRole, Operation: events.OpUpdate, Key: role.Name}, "Permission removed from role", logrus.Fields{"role": role.Name, "permission": permission.Name})
	return s.reload(ctx, role.Name)
}

// reload đọc lại role sau khi ghi và hydrate
func (s *RoleService) reload(ctx context.Context, name string) (*models.RoleView, error) {
	role, err := s.roles.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, conflictf("Role not exists")
	}
	return s.hydrator.Role(ctx, role)
}

// Delete xóa role; Conflict nếu không tồn tại hoặc còn user đang dùng
func (s *RoleService) Delete(ctx context.Context, name string) error {
	name = utility.NormalizeName(name)
	role, err := s.roles.FindByName(ctx, name)
	if err != nil {
		return err
	}
	if role == nil {
		return conflictf("Role not exists")
	}

	inUse, err := s.users.CountWithRole(ctx, role.ID)
	if err != nil {
		return err
	}
	if inUse > 0 {
		return conflictf("Role %s is assigned to %d user(s)", name, inUse)
	}

	if err := s.roles.Delete(ctx, role.ID); err != nil {
		return err
	}
	logMutation(ctx, events.DataChangeEvent{Entity: events.EntityRole, Operation: events.OpDelete, Key: name}, "Role deleted", logrus.Fields{"role": name})
	return nil
}
