package rbacsvc

// Services gom ba service theo chuỗi phụ thuộc Permission <- Role <- User
type Services struct {
	Permissions *PermissionService
	Roles       *RoleService
	Users       *UserService
}

// NewServices khởi tạo các service trên cùng một bộ repository
func NewServices(repos *Repositories) *Services {
	hydrator := NewHydrator(repos.Permissions, repos.Roles)
	permissions := NewPermissionService(repos)
	roles := NewRoleService(repos, permissions, hydrator)
	users := NewUserService(repos, roles, hydrator)
	return &Services{
		Permissions: permissions,
		Roles:       roles,
		Users:       users,
	}
}
