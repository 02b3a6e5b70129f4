package rbacdto

// RoleInput dùng cho tạo và cập nhật toàn bộ role.
type RoleInput struct {
	Name        string               `json:"name" validate:"required,rbac_name"`
	Permissions []PermissionRefInput `json:"permissions,omitempty" validate:"omitempty,dive"`
}

// PermissionNames trả về tên các permission theo thứ tự gửi lên
func (in RoleInput) PermissionNames() []string {
	names := make([]string, 0, len(in.Permissions))
	for _, p := range in.Permissions {
		names = append(names, p.Name)
	}
	return names
}

// RoleRefInput tham chiếu một role theo tên.
type RoleRefInput struct {
	Name string `json:"name" validate:"required,rbac_name"`
}
