package rbacsvc

import (
	"context"
	"time"

	basemodels "rbac_admin/internal/api/base/models"
	"rbac_admin/internal/api/events"
	"rbac_admin/internal/api/rbac/models"
	"rbac_admin/internal/utility"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserSpec là dữ liệu đầy đủ của user khi tạo/cập nhật. RoleName rỗng = không gán role.
type UserSpec struct {
	Name      string
	Email     string
	Birthdate time.Time
	RoleName  string
}

// UserService quản lý user; tên role được resolve qua RoleService trước khi ghi
type UserService struct {
	users    UserRepository
	roles    *RoleService
	hydrator *Hydrator
}

// NewUserService tạo UserService
func NewUserService(repos *Repositories, roles *RoleService, hydrator *Hydrator) *UserService {
	return &UserService{
		users:    repos.Users,
		roles:    roles,
		hydrator: hydrator,
	}
}

// FindByEmail tra cứu theo email và hydrate; (nil, nil) nếu không có
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.UserView, error) {
	user, err := s.users.FindByEmail(ctx, utility.NormalizeEmail(email))
	if err != nil || user == nil {
		return nil, err
	}
	return s.hydrator.User(ctx, user)
}

// FindByUsercode tra cứu theo usercode và hydrate; (nil, nil) nếu không có
func (s *UserService) FindByUsercode(ctx context.Context, usercode int64) (*models.UserView, error) {
	user, err := s.users.FindByUsercode(ctx, usercode)
	if err != nil || user == nil {
		return nil, err
	}
	return s.hydrator.User(ctx, user)
}

// resolveRole trả về ID role theo tên; nil nếu roleName rỗng
func (s *UserService) resolveRole(ctx context.Context, roleName string) (*primitive.ObjectID, error) {
	if roleName == "" {
		return nil, nil
	}
	role, err := s.roles.FindByName(ctx, roleName)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, conflictf("Role: %s not allowed", utility.NormalizeName(roleName))
	}
	id := role.ID
	return &id, nil
}

// Create tạo user mới; usercode được cấp từ bộ đếm nguyên tử
func (s *UserService) Create(ctx context.Context, spec UserSpec) (*models.UserView, error) {
	email := utility.NormalizeEmail(spec.Email)
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, conflictf("User with email: %s. Already exists", email)
	}

	roleID, err := s.resolveRole(ctx, spec.RoleName)
	if err != nil {
		return nil, err
	}

	usercode, err := s.users.NextUsercode(ctx)
	if err != nil {
		return nil, err
	}

	created, err := s.users.Insert(ctx, models.User{
		Usercode:  usercode,
		Name:      spec.Name,
		Email:     email,
		Birthdate: spec.Birthdate,
		Role:      roleID,
	})
	if err != nil {
		return nil, err
	}
	logMutation(ctx, userEvent(events.OpCreate, usercode), "User created", logrus.Fields{"usercode": usercode, "role": spec.RoleName})
	return s.hydrator.User(ctx, created)
}

// List trả về một trang user (lọc theo deleted nếu có), đã hydrate role
func (s *UserService) List(ctx context.Context, query UserQuery) (*basemodels.PaginateResult[models.UserView], error) {
	users, total, err := s.users.List(ctx, query)
	if err != nil {
		return nil, err
	}
	views, err := s.hydrator.Users(ctx, users)
	if err != nil {
		return nil, err
	}
	return basemodels.NewPaginateResult(views, query.Page, query.Size, total), nil
}

// Update thay name/email/birthdate/role của user, không đổi deleted.
// Usercode chưa tồn tại thì tạo mới (upsert, usercode mới được cấp từ bộ đếm).
func (s *UserService) Update(ctx context.Context, usercode int64, spec UserSpec) (*models.UserView, error) {
	user, err := s.users.FindByUsercode(ctx, usercode)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return s.Create(ctx, spec)
	}

	email := utility.NormalizeEmail(spec.Email)
	if email != user.Email {
		other, err := s.users.FindByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, conflictf("Email: %s. Already exists", email)
		}
	}

	roleID, err := s.resolveRole(ctx, spec.RoleName)
	if err != nil {
		return nil, err
	}

	user.Name = spec.Name
	user.Email = email
	user.Birthdate = spec.Birthdate
	user.Role = roleID
	updated, err := s.users.Replace(ctx, *user)
	if err != nil {
		return nil, err
	}
	logMutation(ctx, userEvent(events.OpUpdate, usercode), "User updated", logrus.Fields{"usercode": usercode})
	return s.hydrator.User(ctx, updated)
}

// mustFindUser trả về user hoặc Conflict nếu usercode không tồn tại
func (s *UserService) mustFindUser(ctx context.Context, usercode int64) (*models.User, error) {
	user, err := s.users.FindByUsercode(ctx, usercode)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, conflictf("User with usercode %d not exists", usercode)
	}
	return user, nil
}

// reload đọc lại user sau khi ghi và hydrate
func (s *UserService) reload(ctx context.Context, usercode int64) (*models.UserView, error) {
	user, err := s.mustFindUser(ctx, usercode)
	if err != nil {
		return nil, err
	}
	return s.hydrator.User(ctx, user)
}

// AddRole gán role cho user chưa có role
func (s *UserService) AddRole(ctx context.Context, usercode int64, roleName string) (*models.UserView, error) {
	user, err := s.mustFindUser(ctx, usercode)
	if err != nil {
		return nil, err
	}
	hasRole, err := s.hasLiveRole(ctx, user)
	if err != nil {
		return nil, err
	}
	if hasRole {
		return nil, conflictf("User with usercode: %d already have a role", usercode)
	}

	role, err := s.roles.FindByName(ctx, roleName)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, conflictf("Role %s is not available", utility.NormalizeName(roleName))
	}

	roleID := role.ID
	ok, err := s.users.SetRole(ctx, usercode, &roleID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, conflictf("User with usercode: %d already have a role", usercode)
	}

	logMutation(ctx, userEvent(events.OpUpdate, usercode), "Role assigned to user", logrus.Fields{"usercode": usercode, "role": role.Name})
	return s.reload(ctx, usercode)
}

// hasLiveRole cho biết user đang tham chiếu một role còn tồn tại.
// Tham chiếu treo (role bị xóa ngoài API) được gỡ để user có thể nhận role mới.
func (s *UserService) hasLiveRole(ctx context.Context, user *models.User) (bool, error) {
	if !user.HasRole() {
		return false, nil
	}
	found, err := s.roles.roles.FindByIDs(ctx, []primitive.ObjectID{*user.Role})
	if err != nil {
		return false, err
	}
	if len(found) > 0 {
		return true, nil
	}
	if _, err := s.users.SetRole(ctx, user.Usercode, nil); err != nil {
		return false, err
	}
	return false, nil
}

// RemoveRole gỡ role khỏi user đang có role
func (s *UserService) RemoveRole(ctx context.Context, usercode int64) (*models.UserView, error) {
	user, err := s.mustFindUser(ctx, usercode)
	if err != nil {
		return nil, err
	}
	if !user.HasRole() {
		return nil, conflictf("User with usercode: %d. Has no role assigned", usercode)
	}

	ok, err := s.users.SetRole(ctx, usercode, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, conflictf("User with usercode: %d. Has no role assigned", usercode)
	}

	logMutation(ctx, userEvent(events.OpUpdate, usercode), "Role removed from user", logrus.Fields{"usercode": usercode})
	return s.reload(ctx, usercode)
}

// SoftDelete đánh dấu deleted=true; Conflict nếu đã bị xóa
func (s *UserService) SoftDelete(ctx context.Context, usercode int64) (*models.UserView, error) {
	return s.setDeleted(ctx, usercode, true, "User with usercode %d is already deleted")
}

// Restore đánh dấu deleted=false; Conflict nếu chưa bị xóa
func (s *UserService) Restore(ctx context.Context, usercode int64) (*models.UserView, error) {
	return s.setDeleted(ctx, usercode, false, "User with usercode %d is not deleted")
}

func (s *UserService) setDeleted(ctx context.Context, usercode int64, deleted bool, conflictMsg string) (*models.UserView, error) {
	user, err := s.mustFindUser(ctx, usercode)
	if err != nil {
		return nil, err
	}
	if user.Deleted == deleted {
		return nil, conflictf(conflictMsg, usercode)
	}

	ok, err := s.users.SetDeleted(ctx, usercode, deleted)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, conflictf(conflictMsg, usercode)
	}

	logMutation(ctx, userEvent(deletedOp(deleted), usercode), "User deleted flag changed", logrus.Fields{"usercode": usercode, "deleted": deleted})
	return s.reload(ctx, usercode)
}

// CountUsersWithRole đếm số user đang tham chiếu role có tên roleName
func (s *UserService) CountUsersWithRole(ctx context.Context, roleName string) (int64, error) {
	return s.users.CountWithRoleName(ctx, utility.NormalizeName(roleName))
}

// SyncUsercode nâng bộ đếm usercode lên ít nhất bằng usercode lớn nhất đã lưu
func (s *UserService) SyncUsercode(ctx context.Context) (int64, error) {
	seq, err := s.users.SyncUsercode(ctx)
	if err != nil {
		return 0, err
	}
	logMutation(ctx, events.DataChangeEvent{Entity: events.EntityCounter, Operation: events.OpSync, Key: "usercode"}, "Usercode counter synced", logrus.Fields{"seq": seq})
	return seq, nil
}
