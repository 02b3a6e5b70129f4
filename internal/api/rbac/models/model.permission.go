// Package models - Permission thuộc domain rbac.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Permission là một quyền có tên duy nhất (đã chuẩn hóa viết hoa)
type Permission struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name" index:"unique"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}
