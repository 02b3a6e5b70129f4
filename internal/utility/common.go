package utility

import "time"

// CurrentTimeInMilli trả về timestamp hiện tại (mili giây)
func CurrentTimeInMilli() int64 {
	return time.Now().UnixMilli()
}
