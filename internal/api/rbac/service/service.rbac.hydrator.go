package rbacsvc

import (
	"context"

	"rbac_admin/internal/api/rbac/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Hydrator thay các ID tham chiếu bằng bản ghi đầy đủ trước khi trả về client.
// Tra cứu theo lô; ID không còn tồn tại bị bỏ qua.
type Hydrator struct {
	permissions PermissionRepository
	roles       RoleRepository
}

// NewHydrator tạo Hydrator
func NewHydrator(permissions PermissionRepository, roles RoleRepository) *Hydrator {
	return &Hydrator{permissions: permissions, roles: roles}
}

// Role hydrate một role
func (h *Hydrator) Role(ctx context.Context, role *models.Role) (*models.RoleView, error) {
	views, err := h.Roles(ctx, []models.Role{*role})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Roles hydrate danh sách role, giữ thứ tự permission như trong role
func (h *Hydrator) Roles(ctx context.Context, roles []models.Role) ([]models.RoleView, error) {
	ids := []primitive.ObjectID{}
	seen := map[primitive.ObjectID]bool{}
	for _, r := range roles {
		for _, id := range r.Permissions {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	byID := map[primitive.ObjectID]models.Permission{}
	if len(ids) > 0 {
		permissions, err := h.permissions.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, p := range permissions {
			byID[p.ID] = p
		}
	}

	views := make([]models.RoleView, 0, len(roles))
	for _, r := range roles {
		view := models.RoleView{
			ID:          r.ID,
			Name:        r.Name,
			Permissions: make([]models.Permission, 0, len(r.Permissions)),
			CreatedAt:   r.CreatedAt,
			UpdatedAt:   r.UpdatedAt,
		}
		for _, id := range r.Permissions {
			if p, ok := byID[id]; ok {
				view.Permissions = append(view.Permissions, p)
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// User hydrate một user
func (h *Hydrator) User(ctx context.Context, user *models.User) (*models.UserView, error) {
	views, err := h.Users(ctx, []models.User{*user})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Users hydrate danh sách user: role rồi tới permissions của role
func (h *Hydrator) Users(ctx context.Context, users []models.User) ([]models.UserView, error) {
	ids := []primitive.ObjectID{}
	seen := map[primitive.ObjectID]bool{}
	for _, u := range users {
		if u.Role != nil && !seen[*u.Role] {
			seen[*u.Role] = true
			ids = append(ids, *u.Role)
		}
	}

	byID := map[primitive.ObjectID]models.RoleView{}
	if len(ids) > 0 {
		roles, err := h.roles.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		roleViews, err := h.Roles(ctx, roles)
		if err != nil {
			return nil, err
		}
		for _, v := range roleViews {
			byID[v.ID] = v
		}
	}

	views := make([]models.UserView, 0, len(users))
	for _, u := range users {
		view := models.UserView{
			ID:        u.ID,
			Usercode:  u.Usercode,
			Name:      u.Name,
			Email:     u.Email,
			Birthdate: u.Birthdate,
			Deleted:   u.Deleted,
			CreatedAt: u.CreatedAt,
			UpdatedAt: u.UpdatedAt,
		}
		if u.Role != nil {
			if role, ok := byID[*u.Role]; ok {
				view.Role = &role
			}
		}
		views = append(views, view)
	}
	return views, nil
}
