// Package models - Role thuộc domain rbac.
package models

import (
	"slices"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role nhóm các permission theo ID. Permissions luôn khác nil (rỗng = không có quyền nào).
type Role struct {
	ID          primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string               `json:"name" bson:"name" index:"unique"`
	Permissions []primitive.ObjectID `json:"permissions" bson:"permissions" index:"single:1"`
	CreatedAt   int64                `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64                `json:"updatedAt" bson:"updatedAt"`
}

// HasPermission kiểm tra role đã chứa permission id
func (r *Role) HasPermission(id primitive.ObjectID) bool {
	return slices.Contains(r.Permissions, id)
}
