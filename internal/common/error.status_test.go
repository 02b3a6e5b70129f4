package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStatusOf(t *testing.T) {
	assert.Equal(t, StatusOK, StatusOf(nil))
	assert.Equal(t, StatusConflict, StatusOf(NewError(ErrCodeBusinessState, "trùng", StatusConflict, nil)))
	assert.Equal(t, StatusNotFound, StatusOf(fmt.Errorf("bọc: %w", ErrNotFound)))
	assert.Equal(t, StatusInternalServerError, StatusOf(errors.New("lỗi lạ")))
}

func TestErrorIs(t *testing.T) {
	err := NewError(ErrCodeDatabaseQuery, "Không tìm thấy dữ liệu", StatusNotFound, nil)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrDuplicate))
}

func TestConvertMongoError(t *testing.T) {
	assert.Nil(t, ConvertMongoError(nil))
	assert.Equal(t, ErrNotFound, ConvertMongoError(mongo.ErrNoDocuments))

	dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key"}}}
	converted := ConvertMongoError(dup)
	assert.Equal(t, StatusConflict, StatusOf(converted))

	// Lỗi hệ thống giữ nguyên
	own := NewError(ErrCodeBusinessState, "đã tồn tại", StatusConflict, nil)
	assert.Same(t, own, ConvertMongoError(own))

	other := ConvertMongoError(errors.New("boom"))
	assert.Equal(t, StatusInternalServerError, StatusOf(other))
	assert.ErrorContains(t, errors.Unwrap(other), "boom")
}
