package rbacsvc

import (
	"context"
	"errors"

	basesvc "rbac_admin/internal/api/base/service"
	"rbac_admin/internal/api/rbac/models"
	"rbac_admin/internal/common"
	"rbac_admin/internal/utility"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// nameAsc sắp xếp danh sách permission/role theo tên
var nameAsc = bson.D{{Key: "name", Value: 1}}

// absentAsNil chuyển ErrNotFound thành (nil, nil) cho các hàm FindByX
func absentAsNil[T any](doc T, err error) (*T, error) {
	if errors.Is(err, common.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// nameFilter tạo filter tên chứa chuỗi con (không phân biệt hoa thường)
func nameFilter(nameContains string) bson.M {
	if nameContains == "" {
		return bson.M{}
	}
	return bson.M{"name": bson.M{"$regex": utility.ContainsFoldRegex(nameContains)}}
}

// MongoPermissionRepository lưu permission trong MongoDB
type MongoPermissionRepository struct {
	*basesvc.BaseServiceMongoImpl[models.Permission]
}

// NewMongoPermissionRepository tạo repository trên collection permissions
func NewMongoPermissionRepository(collection *mongo.Collection) *MongoPermissionRepository {
	return &MongoPermissionRepository{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Permission](collection),
	}
}

func (r *MongoPermissionRepository) FindByName(ctx context.Context, name string) (*models.Permission, error) {
	return absentAsNil(r.FindOne(ctx, bson.M{"name": name}, nil))
}

func (r *MongoPermissionRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Permission, error) {
	return r.FindManyByIds(ctx, ids)
}

func (r *MongoPermissionRepository) List(ctx context.Context, nameContains string) ([]models.Permission, error) {
	return r.Find(ctx, nameFilter(nameContains), options.Find().SetSort(nameAsc))
}

func (r *MongoPermissionRepository) Insert(ctx context.Context, permission models.Permission) (*models.Permission, error) {
	created, err := r.InsertOne(ctx, permission)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *MongoPermissionRepository) Rename(ctx context.Context, id primitive.ObjectID, newName string) (*models.Permission, error) {
	updated, err := r.FindOneAndUpdate(ctx, bson.M{"_id": id}, basesvc.UpdateData{
		Set: map[string]interface{}{"name": newName},
	}, nil)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *MongoPermissionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
