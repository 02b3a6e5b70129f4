package logger

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// FilterHook đánh dấu (không xóa) các entry không thuộc module/level được cho phép.
// AsyncHook bỏ qua entry đã bị đánh dấu.
type FilterHook struct {
	allowedModules map[string]bool
	allowedLevels  map[string]bool
}

// NewFilterHook tạo filter hook từ cấu hình
func NewFilterHook(cfg *LogConfig) *FilterHook {
	return &FilterHook{
		allowedModules: parseFilter(cfg.FilterModules),
		allowedLevels:  parseFilter(cfg.FilterLevels),
	}
}

// parseFilter: "a,b,c" -> {a,b,c}; rỗng hoặc có "*" -> nil (cho phép tất cả)
func parseFilter(filterStr string) map[string]bool {
	result := make(map[string]bool)
	for _, part := range strings.Split(filterStr, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if part == "*" {
			return nil
		}
		result[part] = true
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

// Levels trả về các log levels mà hook này xử lý
func (h *FilterHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire đánh dấu entry bị lọc bằng field _filtered
func (h *FilterHook) Fire(entry *logrus.Entry) error {
	if h.allowedLevels != nil && !h.allowedLevels[entry.Level.String()] {
		entry.Data[filteredKey] = true
		return nil
	}
	if h.allowedModules != nil {
		// Entry không gắn module luôn được giữ
		if module, ok := entry.Data["module"].(string); ok && !h.allowedModules[strings.ToLower(module)] {
			entry.Data[filteredKey] = true
		}
	}
	return nil
}
