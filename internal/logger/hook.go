package logger

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"

	"github.com/sirupsen/logrus"
)

// filteredKey là field FilterHook dùng để đánh dấu entry bị lọc
const filteredKey = "_filtered"

// AsyncHook ghi log bất đồng bộ: Fire chỉ đẩy entry vào channel,
// một goroutine riêng format và ghi ra các writers.
type AsyncHook struct {
	writers    []io.Writer
	entries    chan *logrus.Entry
	wg         sync.WaitGroup
	mu         sync.Mutex
	closed     bool
	bufferSize int
}

// NewAsyncHookWithWriters tạo async hook với nhiều writers.
// bufferSize <= 0 thì dùng 1000.
func NewAsyncHookWithWriters(writers []io.Writer, bufferSize int) *AsyncHook {
	if bufferSize <= 0 {
		bufferSize = 1000
	}

	hook := &AsyncHook{
		writers:    writers,
		entries:    make(chan *logrus.Entry, bufferSize),
		bufferSize: bufferSize,
	}

	hook.wg.Add(1)
	go hook.processEntries()

	return hook
}

// Levels trả về các log levels mà hook này xử lý
func (h *AsyncHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire không block: channel đầy thì bỏ entry
func (h *AsyncHook) Fire(entry *logrus.Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		// Hook đã đóng: ghi trực tiếp
		return h.write(entry)
	}

	// logrus gắn buffer từ pool vào entry sau khi chạy hooks, nên phải đưa bản sao vào hàng đợi
	queued := *entry
	queued.Buffer = nil
	select {
	case h.entries <- &queued:
	default:
	}
	return nil
}

// processEntries chạy trong goroutine riêng, có recover để panic của logger không làm sập server
func (h *AsyncHook) processEntries() {
	defer h.wg.Done()

	for entry := range h.entries {
		func() {
			defer func() {
				if r := recover(); r != nil {
					// Không thể dùng logger ở đây vì sẽ tạo vòng lặp
					fmt.Fprintf(os.Stderr, "[LOGGER PANIC] Logger goroutine panic recovered: %v\n", r)
					debug.PrintStack()
				}
			}()
			_ = h.write(entry)
		}()
	}
}

func (h *AsyncHook) write(entry *logrus.Entry) error {
	if filtered, ok := entry.Data[filteredKey].(bool); ok && filtered {
		return nil
	}
	if _, ok := entry.Data[filteredKey]; ok {
		clean := *entry
		clean.Data = make(logrus.Fields, len(entry.Data))
		for k, v := range entry.Data {
			if k != filteredKey {
				clean.Data[k] = v
			}
		}
		entry = &clean
	}

	var data []byte
	var err error
	if entry.Logger != nil && entry.Logger.Formatter != nil {
		data, err = entry.Logger.Formatter.Format(entry)
	} else {
		var line string
		line, err = entry.String()
		data = []byte(line)
	}
	if err != nil {
		return err
	}

	// Một writer lỗi không chặn các writer khác
	for _, writer := range h.writers {
		_, _ = writer.Write(data)
	}
	return nil
}

// Close đóng hook và đợi tất cả entries được ghi xong
func (h *AsyncHook) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	close(h.entries)
	h.mu.Unlock()

	h.wg.Wait()
	return nil
}
