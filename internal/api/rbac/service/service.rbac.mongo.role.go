package rbacsvc

import (
	"context"

	basesvc "rbac_admin/internal/api/base/service"
	"rbac_admin/internal/api/rbac/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRoleRepository lưu role trong MongoDB
type MongoRoleRepository struct {
	*basesvc.BaseServiceMongoImpl[models.Role]
}

// NewMongoRoleRepository tạo repository trên collection roles
func NewMongoRoleRepository(collection *mongo.Collection) *MongoRoleRepository {
	return &MongoRoleRepository{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Role](collection),
	}
}

// withPermissions đảm bảo Permissions khác nil (null trong db -> [])
func withPermissions(role models.Role) models.Role {
	if role.Permissions == nil {
		role.Permissions = []primitive.ObjectID{}
	}
	return role
}

func (r *MongoRoleRepository) FindByName(ctx context.Context, name string) (*models.Role, error) {
	role, err := absentAsNil(r.FindOne(ctx, bson.M{"name": name}, nil))
	if role != nil {
		*role = withPermissions(*role)
	}
	return role, err
}

func (r *MongoRoleRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Role, error) {
	roles, err := r.FindManyByIds(ctx, ids)
	for i := range roles {
		roles[i] = withPermissions(roles[i])
	}
	return roles, err
}

func (r *MongoRoleRepository) List(ctx context.Context, nameContains string) ([]models.Role, error) {
	roles, err := r.Find(ctx, nameFilter(nameContains), options.Find().SetSort(nameAsc))
	for i := range roles {
		roles[i] = withPermissions(roles[i])
	}
	return roles, err
}

func (r *MongoRoleRepository) Insert(ctx context.Context, role models.Role) (*models.Role, error) {
	created, err := r.InsertOne(ctx, withPermissions(role))
	if err != nil {
		return nil, err
	}
	created = withPermissions(created)
	return &created, nil
}

func (r *MongoRoleRepository) Replace(ctx context.Context, id primitive.ObjectID, name string, permissions []primitive.ObjectID) (*models.Role, error) {
	if permissions == nil {
		permissions = []primitive.ObjectID{}
	}
	updated, err := r.FindOneAndUpdate(ctx, bson.M{"_id": id}, basesvc.UpdateData{
		Set: map[string]interface{}{"name": name, "permissions": permissions},
	}, nil)
	if err != nil {
		return nil, err
	}
	updated = withPermissions(updated)
	return &updated, nil
}

// AddPermission chỉ ghi khi role chưa chứa permission
func (r *MongoRoleRepository) AddPermission(ctx context.Context, roleID, permissionID primitive.ObjectID) (bool, error) {
	matched, err := r.UpdateOne(ctx,
		bson.M{"_id": roleID, "permissions": bson.M{"$ne": permissionID}},
		basesvc.UpdateData{Push: map[string]interface{}{"permissions": permissionID}},
	)
	return matched > 0, err
}

// RemovePermission chỉ ghi khi role đang chứa permission
func (r *MongoRoleRepository) RemovePermission(ctx context.Context, roleID, permissionID primitive.ObjectID) (bool, error) {
	matched, err := r.UpdateOne(ctx,
		bson.M{"_id": roleID, "permissions": permissionID},
		basesvc.UpdateData{Pull: map[string]interface{}{"permissions": permissionID}},
	)
	return matched > 0, err
}

func (r *MongoRoleRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *MongoRoleRepository) CountWithPermission(ctx context.Context, permissionID primitive.ObjectID) (int64, error) {
	return r.CountDocuments(ctx, bson.M{"permissions": permissionID})
}
