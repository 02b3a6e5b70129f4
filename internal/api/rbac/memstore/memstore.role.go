package memstore

import (
	"context"
	"fmt"

	"rbac_admin/internal/api/rbac/models"
	"rbac_admin/internal/common"
	"rbac_admin/internal/utility"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoleRepository lưu role trong Store
type RoleRepository struct {
	store *Store
}

func (r *RoleRepository) findByNameLocked(name string) (models.Role, bool) {
	for _, role := range r.store.roles {
		if role.Name == name {
			return role, true
		}
	}
	return models.Role{}, false
}

func (r *RoleRepository) FindByName(ctx context.Context, name string) (*models.Role, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	role, ok := r.findByNameLocked(name)
	if !ok {
		return nil, nil
	}
	role = cloneRole(role)
	return &role, nil
}

func (r *RoleRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Role, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	result := make([]models.Role, 0, len(ids))
	for id := range idSet(ids) {
		if role, ok := r.store.roles[id]; ok {
			result = append(result, cloneRole(role))
		}
	}
	return result, nil
}

func (r *RoleRepository) List(ctx context.Context, nameContains string) ([]models.Role, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	result := make([]models.Role, 0, len(r.store.roles))
	for _, role := range r.store.roles {
		if utility.ContainsFold(role.Name, nameContains) {
			result = append(result, cloneRole(role))
		}
	}
	sortByName(result, func(role models.Role) string { return role.Name })
	return result, nil
}

func (r *RoleRepository) Insert(ctx context.Context, role models.Role) (*models.Role, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.findByNameLocked(role.Name); exists {
		return nil, fmt.Errorf("role %s: %w", role.Name, common.ErrDuplicate)
	}
	now := utility.CurrentTimeInMilli()
	role = cloneRole(role)
	role.ID = primitive.NewObjectID()
	role.CreatedAt = now
	role.UpdatedAt = now
	r.store.roles[role.ID] = role
	created := cloneRole(role)
	return &created, nil
}

func (r *RoleRepository) Replace(ctx context.Context, id primitive.ObjectID, name string, permissions []primitive.ObjectID) (*models.Role, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	role, ok := r.store.roles[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	if other, exists := r.findByNameLocked(name); exists && other.ID != id {
		return nil, fmt.Errorf("role %s: %w", name, common.ErrDuplicate)
	}
	role.Name = name
	role.Permissions = cloneIDs(permissions)
	role.UpdatedAt = utility.CurrentTimeInMilli()
	r.store.roles[id] = role
	updated := cloneRole(role)
	return &updated, nil
}

func (r *RoleRepository) AddPermission(ctx context.Context, roleID, permissionID primitive.ObjectID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	role, ok := r.store.roles[roleID]
	if !ok || role.HasPermission(permissionID) {
		return false, nil
	}
	role.Permissions = append(cloneIDs(role.Permissions), permissionID)
	role.UpdatedAt = utility.CurrentTimeInMilli()
	r.store.roles[roleID] = role
	return true, nil
}

func (r *RoleRepository) RemovePermission(ctx context.Context, roleID, permissionID primitive.ObjectID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	role, ok := r.store.roles[roleID]
	if !ok || !role.HasPermission(permissionID) {
		return false, nil
	}
	kept := make([]primitive.ObjectID, 0, len(role.Permissions))
	for _, id := range role.Permissions {
		if id != permissionID {
			kept = append(kept, id)
		}
	}
	role.Permissions = kept
	role.UpdatedAt = utility.CurrentTimeInMilli()
	r.store.roles[roleID] = role
	return true, nil
}

func (r *RoleRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.roles, id)
	return nil
}

func (r *RoleRepository) CountWithPermission(ctx context.Context, permissionID primitive.ObjectID) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var count int64
	for _, role := range r.store.roles {
		if role.HasPermission(permissionID) {
			count++
		}
	}
	return count, nil
}
