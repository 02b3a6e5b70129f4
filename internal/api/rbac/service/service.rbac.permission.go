package rbacsvc

import (
	"context"

	"rbac_admin/internal/api/events"
	"rbac_admin/internal/api/rbac/models"
	"rbac_admin/internal/utility"

	"github.com/sirupsen/logrus"
)

// PermissionService quản lý permission (lá của chuỗi phụ thuộc)
type PermissionService struct {
	permissions PermissionRepository
	roles       RoleRepository
}

// NewPermissionService tạo PermissionService
func NewPermissionService(repos *Repositories) *PermissionService {
	return &PermissionService{
		permissions: repos.Permissions,
		roles:       repos.Roles,
	}
}

// FindByName tra cứu chính xác theo tên đã chuẩn hóa; (nil, nil) nếu không có
func (s *PermissionService) FindByName(ctx context.Context, name string) (*models.Permission, error) {
	return s.permissions.FindByName(ctx, utility.NormalizeName(name))
}

// Create tạo permission mới; Conflict nếu tên đã tồn tại (không phân biệt hoa thường)
func (s *PermissionService) Create(ctx context.Context, name string) (*models.Permission, error) {
	name = utility.NormalizeName(name)
	existing, err := s.permissions.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, conflictf("Permission already exists")
	}

	created, err := s.permissions.Insert(ctx, models.Permission{Name: name})
	if err != nil {
		return nil, err
	}
	logMutation(ctx, events.DataChangeEvent{Entity: events.EntityPermission, Operation: events.OpCreate, Key: name}, "Permission created", logrus.Fields{"permission": name})
	return created, nil
}

// List trả về toàn bộ permission, hoặc các permission có tên chứa filter (không phân biệt hoa thường)
func (s *PermissionService) List(ctx context.Context, nameFilter string) ([]models.Permission, error) {
	return s.permissions.List(ctx, nameFilter)
}

// Update đổi tên originalName thành newName.
// originalName chưa tồn tại thì tạo mới permission originalName (upsert).
// newName đã tồn tại thì Conflict.
func (s *PermissionService) Update(ctx context.Context, originalName, newName string) (*models.Permission, error) {
	originalName = utility.NormalizeName(originalName)
	newName = utility.NormalizeName(newName)

	original, err := s.permissions.FindByName(ctx, originalName)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return s.Create(ctx, originalName)
	}

	taken, err := s.permissions.FindByName(ctx, newName)
	if err != nil {
		return nil, err
	}
	if taken != nil {
		return nil, conflictf("Permission %s already exists", newName)
	}

	updated, err := s.permissions.Rename(ctx, original.ID, newName)
	if err != nil {
		return nil, err
	}
	logMutation(ctx, events.DataChangeEvent{Entity: events.EntityPermission, Operation: events.OpUpdate, Key: newName}, "Permission renamed", logrus.Fields{"from": originalName, "to": newName})
	return updated, nil
}

// Delete xóa permission; Conflict nếu không tồn tại hoặc còn role đang tham chiếu
func (s *PermissionService) Delete(ctx context.Context, name string) error {
	name = utility.NormalizeName(name)
	permission, err := s.permissions.FindByName(ctx, name)
	if err != nil {
		return err
	}
	if permission == nil {
		return conflictf("Permission not exists")
	}

	inUse, err := s.roles.CountWithPermission(ctx, permission.ID)
	if err != nil {
		return err
	}
	if inUse > 0 {
		return conflictf("Permission %s is used by %d role(s)", name, inUse)
	}

	if err := s.permissions.Delete(ctx, permission.ID); err != nil {
		return err
	}
	logMutation(ctx, events.DataChangeEvent{Entity: events.EntityPermission, Operation: events.OpDelete, Key: name}, "Permission deleted", logrus.Fields{"permission": name})
	return nil
}
