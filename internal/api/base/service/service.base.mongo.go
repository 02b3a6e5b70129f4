// package basesvc cung cấp các service cơ bản cho việc tương tác với MongoDB
package basesvc

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	basemodels "rbac_admin/internal/api/base/models"
	"rbac_admin/internal/common"
	"rbac_admin/internal/utility"
)

// UpdateData định nghĩa các operator cập nhật được hỗ trợ
type UpdateData struct {
	Set         map[string]interface{} `bson:"$set,omitempty"`         // Các trường cần update
	SetOnInsert map[string]interface{} `bson:"$setOnInsert,omitempty"` // Các trường chỉ set khi upsert tạo mới
	Unset       map[string]interface{} `bson:"$unset,omitempty"`       // Các trường cần xóa
	Inc         map[string]interface{} `bson:"$inc,omitempty"`         // Tăng giá trị số
	Max         map[string]interface{} `bson:"$max,omitempty"`         // Chỉ ghi nếu giá trị mới lớn hơn
	Push        map[string]interface{} `bson:"$push,omitempty"`        // Thêm vào array
	AddToSet    map[string]interface{} `bson:"$addToSet,omitempty"`    // Thêm vào set
	Pull        map[string]interface{} `bson:"$pull,omitempty"`        // Xóa khỏi array
}

// withUpdatedAt trả về bản sao có thêm updatedAt vào $set
func (u UpdateData) withUpdatedAt() UpdateData {
	set := make(map[string]interface{}, len(u.Set)+1)
	for k, v := range u.Set {
		set[k] = v
	}
	set["updatedAt"] = time.Now().UnixMilli()
	u.Set = set
	return u
}

// BaseServiceMongoImpl triển khai các thao tác cơ bản trên một collection
// Type Parameters:
//   - T: Kiểu dữ liệu của model
type BaseServiceMongoImpl[T any] struct {
	collection *mongo.Collection // Collection MongoDB
}

// NewBaseServiceMongo tạo mới một BaseServiceMongoImpl
func NewBaseServiceMongo[T any](collection *mongo.Collection) *BaseServiceMongoImpl[T] {
	return &BaseServiceMongoImpl[T]{
		collection: collection,
	}
}

// Collection trả về collection MongoDB
func (s *BaseServiceMongoImpl[T]) Collection() *mongo.Collection {
	return s.collection
}

// InsertOne tạo mới một bản ghi, tự thêm createdAt/updatedAt và đọc lại document vừa tạo
func (s *BaseServiceMongoImpl[T]) InsertOne(ctx context.Context, data T) (T, error) {
	var zero T

	dataMap, err := utility.ToMap(data)
	if err != nil {
		return zero, common.ErrInvalidFormat
	}

	now := time.Now().UnixMilli()
	dataMap["createdAt"] = now
	dataMap["updatedAt"] = now

	result, err := s.collection.InsertOne(ctx, dataMap)
	if err != nil {
		return zero, common.ConvertMongoError(err)
	}

	var created T
	if err := s.collection.FindOne(ctx, bson.M{"_id": result.InsertedID}).Decode(&created); err != nil {
		return zero, common.ConvertMongoError(err)
	}
	return created, nil
}

// FindOne tìm một bản ghi; không có thì trả về common.ErrNotFound
func (s *BaseServiceMongoImpl[T]) FindOne(ctx context.Context, filter interface{}, opts *options.FindOneOptions) (T, error) {
	var zero T
	if filter == nil {
		filter = bson.D{}
	}
	if opts == nil {
		opts = options.FindOne()
	}

	var result T
	if err := s.collection.FindOne(ctx, filter, opts).Decode(&result); err != nil {
		return zero, common.ConvertMongoError(err)
	}
	return result, nil
}

// Find tìm tất cả bản ghi khớp filter. Kết quả luôn khác nil.
func (s *BaseServiceMongoImpl[T]) Find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]T, error) {
	if filter == nil {
		filter = bson.D{}
	}
	if opts == nil {
		opts = options.Find()
	}

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	results := []T{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return results, nil
}

// FindManyByIds tìm các bản ghi theo danh sách ID (id không tồn tại bị bỏ qua)
func (s *BaseServiceMongoImpl[T]) FindManyByIds(ctx context.Context, ids []primitive.ObjectID) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}
	return s.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
}

// CountDocuments đếm số bản ghi khớp filter
func (s *BaseServiceMongoImpl[T]) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	if filter == nil {
		filter = bson.D{}
	}
	count, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return count, nil
}

// UpdateOne cập nhật một bản ghi, trả về số document khớp filter (0 = filter không khớp)
func (s *BaseServiceMongoImpl[T]) UpdateOne(ctx context.Context, filter interface{}, update UpdateData) (int64, error) {
	result, err := s.collection.UpdateOne(ctx, filter, update.withUpdatedAt())
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return result.MatchedCount, nil
}

// FindOneAndUpdate cập nhật và trả về document (mặc định là bản sau khi cập nhật)
func (s *BaseServiceMongoImpl[T]) FindOneAndUpdate(ctx context.Context, filter interface{}, update UpdateData, opts *options.FindOneAndUpdateOptions) (T, error) {
	var zero T
	if filter == nil {
		filter = bson.D{}
	}
	if opts == nil {
		opts = options.FindOneAndUpdate()
	}
	if opts.ReturnDocument == nil {
		opts.SetReturnDocument(options.After)
	}

	var result T
	if err := s.collection.FindOneAndUpdate(ctx, filter, update.withUpdatedAt(), opts).Decode(&result); err != nil {
		return zero, common.ConvertMongoError(err)
	}
	return result, nil
}

// ReplaceOne thay thế toàn bộ document (giữ createdAt), trả về document mới
func (s *BaseServiceMongoImpl[T]) ReplaceOne(ctx context.Context, filter interface{}, data T) (T, error) {
	var zero T

	dataMap, err := utility.ToMap(data)
	if err != nil {
		return zero, common.ErrInvalidFormat
	}
	delete(dataMap, "_id")
	delete(dataMap, "createdAt")

	return s.FindOneAndUpdate(ctx, filter, UpdateData{Set: dataMap}, nil)
}

// DeleteOne xóa một bản ghi, trả về số document đã xóa
func (s *BaseServiceMongoImpl[T]) DeleteOne(ctx context.Context, filter interface{}) (int64, error) {
	result, err := s.collection.DeleteOne(ctx, filter)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return result.DeletedCount, nil
}

// Aggregate chạy pipeline và decode toàn bộ kết quả vào results (con trỏ tới slice)
func (s *BaseServiceMongoImpl[T]) Aggregate(ctx context.Context, pipeline interface{}, results interface{}) error {
	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, results); err != nil {
		return common.ConvertMongoError(err)
	}
	return nil
}

// FindWithPagination đếm tổng và lấy một trang dữ liệu song song.
// page, limit phải > 0.
func (s *BaseServiceMongoImpl[T]) FindWithPagination(ctx context.Context, filter interface{}, page, limit int64, opts *options.FindOptions) (*basemodels.PaginateResult[T], error) {
	if filter == nil {
		filter = bson.D{}
	}
	if opts == nil {
		opts = options.Find()
	}
	if page < 1 || limit < 1 {
		return nil, common.ErrInvalidInput
	}
	opts.SetSkip(basemodels.Skip(page, limit))
	opts.SetLimit(limit)

	var (
		total int64
		items []T
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.CountDocuments(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = s.Find(gctx, filter, opts)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return basemodels.NewPaginateResult(items, page, limit, total), nil
}
