package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoleView là Role đã hydrate: ID permission được thay bằng bản ghi đầy đủ
type RoleView struct {
	ID          primitive.ObjectID `json:"id"`
	Name        string             `json:"name"`
	Permissions []Permission       `json:"permissions"`
	CreatedAt   int64              `json:"createdAt"`
	UpdatedAt   int64              `json:"updatedAt"`
}

// UserView là User đã hydrate role (và permissions của role)
type UserView struct {
	ID        primitive.ObjectID `json:"id"`
	Usercode  int64              `json:"usercode"`
	Name      string             `json:"name"`
	Email     string             `json:"email"`
	Birthdate time.Time          `json:"birthdate"`
	Role      *RoleView          `json:"role"`
	Deleted   bool               `json:"deleted"`
	CreatedAt int64              `json:"createdAt"`
	UpdatedAt int64              `json:"updatedAt"`
}

// PermissionNames trả về tên các permission của role
func (v *RoleView) PermissionNames() []string {
	names := make([]string, 0, len(v.Permissions))
	for _, p := range v.Permissions {
		names = append(names, p.Name)
	}
	return names
}
