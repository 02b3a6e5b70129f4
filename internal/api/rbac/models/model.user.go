// Package models - User thuộc domain rbac.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User là tài khoản với usercode tuần tự, email duy nhất, tối đa một role và cờ xóa mềm.
// Role = nil nghĩa là chưa gán role (lưu null).
type User struct {
	ID        primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Usercode  int64               `json:"usercode" bson:"usercode" index:"unique"`
	Name      string              `json:"name" bson:"name"`
	Email     string              `json:"email" bson:"email" index:"unique"`
	Birthdate time.Time           `json:"birthdate" bson:"birthdate"`
	Role      *primitive.ObjectID `json:"role" bson:"role" index:"single:1"`
	Deleted   bool                `json:"deleted" bson:"deleted" index:"single:1"`
	CreatedAt int64               `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64               `json:"updatedAt" bson:"updatedAt"`
}

// HasRole cho biết user đã được gán role
func (u *User) HasRole() bool {
	return u.Role != nil
}

// Counter là bộ đếm tuần tự, dùng để cấp usercode
type Counter struct {
	ID  string `json:"id" bson:"_id"`
	Seq int64  `json:"seq" bson:"seq"`
}

// UserCounterID là _id của counter cấp usercode
const UserCounterID = "users"
