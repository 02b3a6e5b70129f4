package database

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"rbac_admin/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureDatabaseAndCollections tạo các collection còn thiếu (database được Mongo tạo cùng collection đầu tiên).
func EnsureDatabaseAndCollections(ctx context.Context, client *mongo.Client, dbName string, collections []string) error {
	log := logger.WithModule("database").WithField("database", dbName)

	dbList, err := client.ListDatabaseNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to list databases: %w", err)
	}
	if !slices.Contains(dbList, dbName) {
		log.Infof("Database %s does not exist, will create automatically by creating collections", dbName)
	}

	db := client.Database(dbName)
	collList, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	for _, collectionName := range collections {
		if slices.Contains(collList, collectionName) {
			continue
		}
		log.Infof("Collection %s chưa tồn tại, tạo mới.", collectionName)
		if err := db.CreateCollection(ctx, collectionName); err != nil {
			return fmt.Errorf("failed to create collection %s: %w", collectionName, err)
		}
	}

	log.Info("Database and collections are ensured")
	return nil
}

// indexSpec là một index đọc được từ tag `index` của model
type indexSpec struct {
	Name   string
	Keys   bson.D
	Unique bool
	Sparse bool
}

// options chuyển indexSpec sang IndexOptions của driver
func (s indexSpec) options() *options.IndexOptions {
	opts := options.Index().SetName(s.Name)
	if s.Unique {
		opts.SetUnique(true)
	}
	if s.Sparse {
		opts.SetSparse(true)
	}
	return opts
}

// parseOrder: Trích xuất thứ tự sắp xếp từ tag (1 hoặc -1)
func parseOrder(config map[string]string) int {
	if config["order"] == "-1" || config["single"] == "-1" {
		return -1
	}
	return 1
}

// parseIndexTag: Phân tách tag index.
// Ví dụ: `index:"unique"`, `index:"single:-1"`, `index:"unique,sparse"`, `index:"compound:role_deleted"`.
// Nhiều cấu hình cách nhau bởi ";".
func parseIndexTag(tag string) []map[string]string {
	result := []map[string]string{}
	for _, part := range strings.Split(tag, ";") {
		entry := map[string]string{}
		for _, subPart := range strings.Split(part, ",") {
			subPart = strings.TrimSpace(subPart)
			if subPart == "" {
				continue
			}
			key, value, _ := strings.Cut(subPart, ":")
			entry[key] = value
		}
		if len(entry) > 0 {
			result = append(result, entry)
		}
	}
	return result
}

// bsonFieldName lấy tên field từ tag bson (bỏ các option như omitempty)
func bsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("bson"), ",")
	return name
}

// indexSpecsFromModel đọc toàn bộ index khai báo trên model
func indexSpecsFromModel(model interface{}) []indexSpec {
	modelType := reflect.TypeOf(model)
	if modelType.Kind() == reflect.Ptr {
		modelType = modelType.Elem()
	}

	specs := []indexSpec{}
	compound := map[string]*indexSpec{}
	compoundOrder := []string{}

	for i := 0; i < modelType.NumField(); i++ {
		field := modelType.Field(i)
		tag, ok := field.Tag.Lookup("index")
		if !ok {
			continue
		}
		bsonField := bsonFieldName(field)
		if bsonField == "" || bsonField == "-" {
			continue
		}

		for _, config := range parseIndexTag(tag) {
			_, sparse := config["sparse"]
			if _, ok := config["unique"]; ok {
				specs = append(specs, indexSpec{
					Name:   bsonField + "_unique",
					Keys:   bson.D{{Key: bsonField, Value: 1}},
					Unique: true,
					Sparse: sparse,
				})
			}
			if _, ok := config["single"]; ok {
				specs = append(specs, indexSpec{
					Name:   bsonField + "_single",
					Keys:   bson.D{{Key: bsonField, Value: parseOrder(config)}},
					Sparse: sparse,
				})
			}
			if groupName, ok := config["compound"]; ok && groupName != "" {
				group, exists := compound[groupName]
				if !exists {
					group = &indexSpec{Name: groupName, Unique: strings.Contains(groupName, "_unique")}
					compound[groupName] = group
					compoundOrder = append(compoundOrder, groupName)
				}
				group.Keys = append(group.Keys, bson.E{Key: bsonField, Value: parseOrder(config)})
				group.Sparse = group.Sparse || sparse
			}
		}
	}

	for _, name := range compoundOrder {
		specs = append(specs, *compound[name])
	}
	return specs
}

// compareIndex so sánh index đang có với cấu hình mới (keys + unique)
func compareIndex(existingIndex bson.M, spec indexSpec) bool {
	existingKeys, ok := existingIndex["key"].(bson.M)
	if !ok || len(existingKeys) != len(spec.Keys) {
		return false
	}

	for _, key := range spec.Keys {
		existingValue, exists := existingKeys[key.Key]
		if !exists {
			return false
		}
		newVal, _ := key.Value.(int)
		switch ev := existingValue.(type) {
		case int32:
			if int(ev) != newVal {
				return false
			}
		case int64:
			if int(ev) != newVal {
				return false
			}
		case float64:
			if int(ev) != newVal {
				return false
			}
		default:
			return false
		}
	}

	unique, _ := existingIndex["unique"].(bool)
	return unique == spec.Unique
}

// checkAndReplaceIndex tạo index, hoặc xóa rồi tạo lại nếu cấu hình đã thay đổi
func checkAndReplaceIndex(ctx context.Context, collection *mongo.Collection, existingIndexes map[string]bson.M, spec indexSpec) error {
	log := logger.WithModule("database").WithFields(map[string]interface{}{
		"collection": collection.Name(),
		"index":      spec.Name,
	})

	if existingIndex, exists := existingIndexes[spec.Name]; exists {
		if compareIndex(existingIndex, spec) {
			log.Debug("Index đã tồn tại và đúng cấu hình, bỏ qua")
			return nil
		}
		if _, err := collection.Indexes().DropOne(ctx, spec.Name); err != nil {
			return fmt.Errorf("không thể xóa index %s: %w", spec.Name, err)
		}
		log.Info("Đã xóa index cũ")
	}

	if _, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    spec.Keys,
		Options: spec.options(),
	}); err != nil {
		return fmt.Errorf("không thể tạo index %s: %w", spec.Name, err)
	}
	log.Info("Đã tạo index")
	return nil
}

// CreateIndexes tạo các index khai báo bằng tag `index` trên model cho collection
func CreateIndexes(ctx context.Context, collection *mongo.Collection, model interface{}) error {
	cursor, err := collection.Indexes().List(ctx)
	if err != nil {
		return fmt.Errorf("không thể lấy danh sách index: %w", err)
	}
	defer cursor.Close(ctx)

	existingIndexes := map[string]bson.M{}
	for cursor.Next(ctx) {
		var indexInfo bson.M
		if err := cursor.Decode(&indexInfo); err != nil {
			return fmt.Errorf("không thể giải mã thông tin index: %w", err)
		}
		if name, ok := indexInfo["name"].(string); ok {
			existingIndexes[name] = indexInfo
		}
	}
	if err := cursor.Err(); err != nil {
		return fmt.Errorf("không thể lấy danh sách index: %w", err)
	}

	for _, spec := range indexSpecsFromModel(model) {
		if err := checkAndReplaceIndex(ctx, collection, existingIndexes, spec); err != nil {
			return err
		}
	}
	return nil
}
