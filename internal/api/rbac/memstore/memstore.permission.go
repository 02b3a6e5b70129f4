package memstore

import (
	"context"
	"fmt"

	"rbac_admin/internal/api/rbac/models"
	"rbac_admin/internal/common"
	"rbac_admin/internal/utility"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PermissionRepository lưu permission trong Store
type PermissionRepository struct {
	store *Store
}

// findByNameLocked yêu cầu đã giữ khóa
func (r *PermissionRepository) findByNameLocked(name string) (models.Permission, bool) {
	for _, permission := range r.store.permissions {
		if permission.Name == name {
			return permission, true
		}
	}
	return models.Permission{}, false
}

func (r *PermissionRepository) FindByName(ctx context.Context, name string) (*models.Permission, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	permission, ok := r.findByNameLocked(name)
	if !ok {
		return nil, nil
	}
	return &permission, nil
}

func (r *PermissionRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Permission, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	result := make([]models.Permission, 0, len(ids))
	for id := range idSet(ids) {
		if permission, ok := r.store.permissions[id]; ok {
			result = append(result, permission)
		}
	}
	return result, nil
}

func (r *PermissionRepository) List(ctx context.Context, nameContains string) ([]models.Permission, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	result := make([]models.Permission, 0, len(r.store.permissions))
	for _, permission := range r.store.permissions {
		if utility.ContainsFold(permission.Name, nameContains) {
			result = append(result, permission)
		}
	}
	sortByName(result, func(p models.Permission) string { return p.Name })
	return result, nil
}

func (r *PermissionRepository) Insert(ctx context.Context, permission models.Permission) (*models.Permission, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.findByNameLocked(permission.Name); exists {
		return nil, fmt.Errorf("permission %s: %w", permission.Name, common.ErrDuplicate)
	}
	now := utility.CurrentTimeInMilli()
	permission.ID = primitive.NewObjectID()
	permission.CreatedAt = now
	permission.UpdatedAt = now
	r.store.permissions[permission.ID] = permission
	return &permission, nil
}

func (r *PermissionRepository) Rename(ctx context.Context, id primitive.ObjectID, newName string) (*models.Permission, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	permission, ok := r.store.permissions[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	if other, exists := r.findByNameLocked(newName); exists && other.ID != id {
		return nil, fmt.Errorf("permission %s: %w", newName, common.ErrDuplicate)
	}
	permission.Name = newName
	permission.UpdatedAt = utility.CurrentTimeInMilli()
	r.store.permissions[id] = permission
	return &permission, nil
}

func (r *PermissionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.permissions, id)
	return nil
}
