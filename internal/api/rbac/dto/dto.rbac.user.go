package rbacdto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Date nhận ngày dạng "2006-01-02" hoặc RFC3339
type Date struct {
	time.Time
}

// UnmarshalJSON parse "YYYY-MM-DD" hoặc RFC3339
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("birthdate must be a string: %w", err)
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("birthdate %q is not a date (YYYY-MM-DD or RFC3339)", s)
}

// MarshalJSON ghi ngày theo RFC3339
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time.Format(time.RFC3339))
}

// UserInput dùng cho tạo và cập nhật toàn bộ user.
type UserInput struct {
	Name      string        `json:"name" validate:"required,no_xss,max=128"`
	Email     string        `json:"email" validate:"required,email"`
	Birthdate *Date         `json:"birthdate" validate:"required"`
	Role      *RoleRefInput `json:"role,omitempty" validate:"omitempty"`
}

// RoleName trả về tên role, rỗng nếu không gửi role
func (in UserInput) RoleName() string {
	if in.Role == nil {
		return ""
	}
	return in.Role.Name
}

// UserRoleInput dùng cho gán role cho user.
type UserRoleInput struct {
	Usercode int64  `json:"usercode" validate:"required,gt=0"`
	RoleName string `json:"roleName" validate:"required,rbac_name"`
}

// UserListQuery là tham số phân trang/sắp xếp của danh sách user.
type UserListQuery struct {
	Page   int64  `validate:"gt=0"`
	Size   int64  `validate:"gt=0,lte=1000"`
	SortBy string `validate:"omitempty,max=32"`
	Sort   string `validate:"omitempty,max=8"`
}
