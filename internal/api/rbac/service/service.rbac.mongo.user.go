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

// MongoUserRepository lưu user trong MongoDB; usercode được cấp từ collection counters
type MongoUserRepository struct {
	*basesvc.BaseServiceMongoImpl[models.User]
	counters       *basesvc.BaseServiceMongoImpl[models.Counter]
	roleCollection string
}

// NewMongoUserRepository tạo repository trên collection users.
// roleCollection dùng cho $lookup khi đếm user theo tên role.
func NewMongoUserRepository(users, counters *mongo.Collection, roleCollection string) *MongoUserRepository {
	return &MongoUserRepository{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.User](users),
		counters:             basesvc.NewBaseServiceMongo[models.Counter](counters),
		roleCollection:       roleCollection,
	}
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return absentAsNil(r.FindOne(ctx, bson.M{"email": email}, nil))
}

func (r *MongoUserRepository) FindByUsercode(ctx context.Context, usercode int64) (*models.User, error) {
	return absentAsNil(r.FindOne(ctx, bson.M{"usercode": usercode}, nil))
}

func (r *MongoUserRepository) List(ctx context.Context, query UserQuery) ([]models.User, int64, error) {
	filter := bson.M{}
	if query.Deleted != nil {
		filter["deleted"] = *query.Deleted
	}
	opts := options.Find()
	if query.SortBy != "" && query.SortDir != SortNone {
		opts.SetSort(bson.D{{Key: query.SortBy, Value: int(query.SortDir)}})
	}

	page, err := r.FindWithPagination(ctx, filter, query.Page, query.Size, opts)
	if err != nil {
		return nil, 0, err
	}
	return page.Content, page.Total, nil
}

func (r *MongoUserRepository) Insert(ctx context.Context, user models.User) (*models.User, error) {
	created, err := r.InsertOne(ctx, user)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *MongoUserRepository) Replace(ctx context.Context, user models.User) (*models.User, error) {
	updated, err := r.FindOneAndUpdate(ctx, bson.M{"_id": user.ID}, basesvc.UpdateData{
		Set: map[string]interface{}{
			"name":      user.Name,
			"email":     user.Email,
			"birthdate": user.Birthdate,
			"role":      user.Role,
		},
	}, nil)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// SetRole: gán khi role hiện tại là null, gỡ khi role hiện tại khác null
func (r *MongoUserRepository) SetRole(ctx context.Context, usercode int64, role *primitive.ObjectID) (bool, error) {
	filter := bson.M{"usercode": usercode, "role": nil}
	if role == nil {
		filter["role"] = bson.M{"$ne": nil}
	}
	matched, err := r.UpdateOne(ctx, filter, basesvc.UpdateData{
		Set: map[string]interface{}{"role": role},
	})
	return matched > 0, err
}

func (r *MongoUserRepository) SetDeleted(ctx context.Context, usercode int64, deleted bool) (bool, error) {
	matched, err := r.UpdateOne(ctx,
		bson.M{"usercode": usercode, "deleted": !deleted},
		basesvc.UpdateData{Set: map[string]interface{}{"deleted": deleted}},
	)
	return matched > 0, err
}

func (r *MongoUserRepository) CountWithRole(ctx context.Context, roleID primitive.ObjectID) (int64, error) {
	return r.CountDocuments(ctx, bson.M{"role": roleID})
}

// CountWithRoleName đếm user theo tên role bằng $lookup sang collection roles
func (r *MongoUserRepository) CountWithRoleName(ctx context.Context, roleName string) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"role": bson.M{"$ne": nil}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         r.roleCollection,
			"localField":   "role",
			"foreignField": "_id",
			"as":           "roles",
		}}},
		{{Key: "$match", Value: bson.M{"roles.name": roleName}}},
		{{Key: "$count", Value: "count"}},
	}

	var results []struct {
		Count int64 `bson:"count"`
	}
	if err := r.Aggregate(ctx, pipeline, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Count, nil
}

// NextUsercode tăng bộ đếm nguyên tử ($inc, upsert) và trả về giá trị mới
func (r *MongoUserRepository) NextUsercode(ctx context.Context) (int64, error) {
	counter, err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": models.UserCounterID},
		basesvc.UpdateData{Inc: map[string]interface{}{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}

// SyncUsercode nâng bộ đếm lên usercode lớn nhất đang có ($max)
func (r *MongoUserRepository) SyncUsercode(ctx context.Context) (int64, error) {
	var maxUsercode int64
	last, err := absentAsNil(r.FindOne(ctx, bson.M{}, options.FindOne().SetSort(bson.D{{Key: "usercode", Value: -1}})))
	if err != nil {
		return 0, err
	}
	if last != nil {
		maxUsercode = last.Usercode
	}

	counter, err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": models.UserCounterID},
		basesvc.UpdateData{Max: map[string]interface{}{"seq": maxUsercode}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}
