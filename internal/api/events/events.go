// Package events phát sự kiện khi dữ liệu rbac thay đổi.
// Service gọi EmitDataChanged sau mỗi thao tác ghi thành công; metrics, audit, ... đăng ký qua OnDataChanged.
package events

import (
	"context"
	"sync"

	"rbac_admin/internal/logger"
)

// Các loại thao tác
const (
	OpCreate  = "create"
	OpUpdate  = "update"
	OpUpsert  = "upsert"
	OpDelete  = "delete"
	OpRestore = "restore"
	OpSync    = "sync"
)

// Các entity phát sự kiện
const (
	EntityPermission = "permission"
	EntityRole       = "role"
	EntityUser       = "user"
	EntityCounter    = "counter"
)

// DataChangeEvent mô tả một thay đổi. Key là khóa nghiệp vụ (tên permission/role, usercode).
type DataChangeEvent struct {
	Entity    string
	Operation string
	Key       string
}

// DataChangeHandler xử lý sự kiện thay đổi dữ liệu.
type DataChangeHandler func(ctx context.Context, e DataChangeEvent)

var (
	handlers   []DataChangeHandler
	handlersMu sync.RWMutex
)

// OnDataChanged đăng ký handler. Gọi khi khởi động.
func OnDataChanged(h DataChangeHandler) {
	handlersMu.Lock()
	defer handlersMu.Unlock()
	handlers = append(handlers, h)
}

// Reset xóa toàn bộ handler
func Reset() {
	handlersMu.Lock()
	defer handlersMu.Unlock()
	handlers = nil
}

// EmitDataChanged gọi lần lượt các handler trên goroutine hiện tại.
// Handler panic được recover và ghi log, các handler sau vẫn chạy.
func EmitDataChanged(ctx context.Context, e DataChangeEvent) {
	handlersMu.RLock()
	list := make([]DataChangeHandler, len(handlers))
	copy(list, handlers)
	handlersMu.RUnlock()

	for _, h := range list {
		func(fn DataChangeHandler) {
			defer func() {
				if r := recover(); r != nil {
					logger.WithModule("events").WithFields(map[string]interface{}{
						"entity":    e.Entity,
						"operation": e.Operation,
						"panic":     r,
					}).Error("Data change handler panic recovered")
				}
			}()
			fn(ctx, e)
		}(h)
	}
}
