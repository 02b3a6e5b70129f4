package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"

	basemodels "rbac_admin/internal/api/base/models"
	"rbac_admin/internal/api/rbac/models"
	rbacsvc "rbac_admin/internal/api/rbac/service"
	"rbac_admin/internal/common"
	"rbac_admin/internal/utility"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository lưu user trong Store
type UserRepository struct {
	store *Store
}

func (r *UserRepository) findLocked(match func(models.User) bool) (models.User, bool) {
	for _, user := range r.store.users {
		if match(user) {
			return user, true
		}
	}
	return models.User{}, false
}

func (r *UserRepository) findOne(match func(models.User) bool) *models.User {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	user, ok := r.findLocked(match)
	if !ok {
		return nil
	}
	user = cloneUser(user)
	return &user
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(func(u models.User) bool { return u.Email == email }), nil
}

func (r *UserRepository) FindByUsercode(ctx context.Context, usercode int64) (*models.User, error) {
	return r.findOne(func(u models.User) bool { return u.Usercode == usercode }), nil
}

// userLess so sánh hai user theo field được phép sắp xếp
func userLess(a, b models.User, field string) int {
	switch field {
	case "usercode":
		return compareInt(a.Usercode, b.Usercode)
	case "name":
		return strings.Compare(a.Name, b.Name)
	case "email":
		return strings.Compare(a.Email, b.Email)
	case "birthdate":
		return a.Birthdate.Compare(b.Birthdate)
	case "createdAt":
		return compareInt(a.CreatedAt, b.CreatedAt)
	}
	return 0
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (r *UserRepository) List(ctx context.Context, query rbacsvc.UserQuery) ([]models.User, int64, error) {
	if query.Page < 1 || query.Size < 1 {
		return nil, 0, common.ErrInvalidInput
	}

	r.store.mu.RLock()
	matched := make([]models.User, 0, len(r.store.users))
	for _, user := range r.store.users {
		if query.Deleted == nil || user.Deleted == *query.Deleted {
			matched = append(matched, cloneUser(user))
		}
	}
	r.store.mu.RUnlock()

	// Không chỉ định sort: giữ thứ tự tạo (usercode tăng dần), giống thứ tự tự nhiên của collection
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Usercode < matched[j].Usercode })
	if query.SortBy != "" && query.SortDir != rbacsvc.SortNone {
		sort.SliceStable(matched, func(i, j int) bool {
			return userLess(matched[i], matched[j], query.SortBy)*int(query.SortDir) < 0
		})
	}

	total := int64(len(matched))
	start := basemodels.Skip(query.Page, query.Size)
	if start >= total {
		return []models.User{}, total, nil
	}
	end := start + query.Size
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (r *UserRepository) Insert(ctx context.Context, user models.User) (*models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.findLocked(func(u models.User) bool { return u.Email == user.Email }); exists {
		return nil, fmt.Errorf("user email %s: %w", user.Email, common.ErrDuplicate)
	}
	if _, exists := r.findLocked(func(u models.User) bool { return u.Usercode == user.Usercode }); exists {
		return nil, fmt.Errorf("usercode %d: %w", user.Usercode, common.ErrDuplicate)
	}
	now := utility.CurrentTimeInMilli()
	user = cloneUser(user)
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.store.users[user.ID] = user
	created := cloneUser(user)
	return &created, nil
}

func (r *UserRepository) Replace(ctx context.Context, user models.User) (*models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	current, ok := r.store.users[user.ID]
	if !ok {
		return nil, common.ErrNotFound
	}
	if other, exists := r.findLocked(func(u models.User) bool { return u.Email == user.Email }); exists && other.ID != user.ID {
		return nil, fmt.Errorf("user email %s: %w", user.Email, common.ErrDuplicate)
	}
	replaced := cloneUser(user)
	replaced.Usercode = current.Usercode
	replaced.Deleted = current.Deleted
	replaced.CreatedAt = current.CreatedAt
	replaced.UpdatedAt = utility.CurrentTimeInMilli()
	r.store.users[user.ID] = replaced
	out := cloneUser(replaced)
	return &out, nil
}

// update áp dụng mutate cho user có usercode nếu guard đúng, dưới khóa ghi
func (r *UserRepository) update(usercode int64, guard func(models.User) bool, mutate func(*models.User)) bool {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.findLocked(func(u models.User) bool { return u.Usercode == usercode })
	if !ok || !guard(user) {
		return false
	}
	mutate(&user)
	user.UpdatedAt = utility.CurrentTimeInMilli()
	r.store.users[user.ID] = user
	return true
}

func (r *UserRepository) SetRole(ctx context.Context, usercode int64, role *primitive.ObjectID) (bool, error) {
	assign := role != nil
	return r.update(usercode,
		func(u models.User) bool { return u.HasRole() != assign },
		func(u *models.User) {
			if assign {
				id := *role
				u.Role = &id
			} else {
				u.Role = nil
			}
		},
	), nil
}

func (r *UserRepository) SetDeleted(ctx context.Context, usercode int64, deleted bool) (bool, error) {
	return r.update(usercode,
		func(u models.User) bool { return u.Deleted != deleted },
		func(u *models.User) { u.Deleted = deleted },
	), nil
}

func (r *UserRepository) CountWithRole(ctx context.Context, roleID primitive.ObjectID) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var count int64
	for _, user := range r.store.users {
		if user.Role != nil && *user.Role == roleID {
			count++
		}
	}
	return count, nil
}

func (r *UserRepository) CountWithRoleName(ctx context.Context, roleName string) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var count int64
	for _, user := range r.store.users {
		if user.Role == nil {
			continue
		}
		if role, ok := r.store.roles[*user.Role]; ok && role.Name == roleName {
			count++
		}
	}
	return count, nil
}

func (r *UserRepository) NextUsercode(ctx context.Context) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.userSeq++
	return r.store.userSeq, nil
}

func (r *UserRepository) SyncUsercode(ctx context.Context) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, user := range r.store.users {
		if user.Usercode > r.store.userSeq {
			r.store.userSeq = user.Usercode
		}
	}
	return r.store.userSeq, nil
}
