package rbacdto

// PermissionCreateInput dùng cho tạo permission.
type PermissionCreateInput struct {
	Name string `json:"name" validate:"required,rbac_name"`
}

// PermissionUpdateInput dùng cho đổi tên permission.
type PermissionUpdateInput struct {
	OriginalName string `json:"originalName" validate:"required,rbac_name"`
	NewName      string `json:"newName" validate:"required,rbac_name"`
}

// PermissionRefInput tham chiếu một permission theo tên (trong role hoặc add/remove permission).
type PermissionRefInput struct {
	Name string `json:"name" validate:"required,rbac_name"`
}

// NameParam là tham số :name trên URL (permission hoặc role).
type NameParam struct {
	Name string `uri:"name" validate:"required,rbac_name"`
}

// NameFilterQuery là bộ lọc ?name= của các danh sách permission/role.
type NameFilterQuery struct {
	Name string `query:"name" validate:"omitempty,max=64"`
}
