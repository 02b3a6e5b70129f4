package rbacsvc

import (
	"context"
	"fmt"
	"strconv"

	"rbac_admin/internal/api/events"
	"rbac_admin/internal/common"
	"rbac_admin/internal/logger"

	"github.com/sirupsen/logrus"
)

// conflictf tạo lỗi 409 cho mọi vi phạm tồn tại, trùng lặp hoặc chuyển trạng thái
func conflictf(format string, args ...interface{}) error {
	return common.NewError(common.ErrCodeBusinessState, fmt.Sprintf(format, args...), common.StatusConflict, nil)
}

// IsConflict cho biết err là lỗi 409
func IsConflict(err error) bool {
	return err != nil && common.StatusOf(err) == common.StatusConflict
}

// logMutation ghi log Info cho một thao tác ghi thành công rồi phát sự kiện thay đổi
func logMutation(ctx context.Context, event events.DataChangeEvent, action string, fields logrus.Fields) {
	logger.WithContext(ctx).WithField("module", "rbac").WithFields(fields).Info(action)
	events.EmitDataChanged(ctx, event)
}

func userEvent(op string, usercode int64) events.DataChangeEvent {
	return events.DataChangeEvent{Entity: events.EntityUser, Operation: op, Key: strconv.FormatInt(usercode, 10)}
}

func deletedOp(deleted bool) string {
	if deleted {
		return events.OpDelete
	}
	return events.OpRestore
}
