package worker

import (
	"context"
	"time"

	"rbac_admin/internal/logger"
)

// UsercodeSyncer là phần của UserService mà worker cần
type UsercodeSyncer interface {
	SyncUsercode(ctx context.Context) (int64, error)
}

// UsercodeSyncWorker định kỳ nâng bộ đếm usercode lên bằng usercode lớn nhất đã lưu.
// Cần khi user được ghi thẳng vào collection (import, restore backup) không qua bộ đếm.
type UsercodeSyncWorker struct {
	syncer   UsercodeSyncer
	interval time.Duration
	timeout  time.Duration
	lastSeq  int64
}

// NewUsercodeSyncWorker tạo worker; interval < 1 giây thì dùng 1 giây
func NewUsercodeSyncWorker(syncer UsercodeSyncer, interval, timeout time.Duration) *UsercodeSyncWorker {
	if interval < time.Second {
		interval = time.Second
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &UsercodeSyncWorker{
		syncer:   syncer,
		interval: interval,
		timeout:  timeout,
		lastSeq:  -1,
	}
}

// Start chạy cho tới khi ctx bị hủy
func (w *UsercodeSyncWorker) Start(ctx context.Context) {
	log := logger.WithModule("worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithField("interval", w.interval.String()).Info("🔄 [USERCODE_SYNC] Starting Usercode Sync Worker...")

	for {
		select {
		case <-ctx.Done():
			log.Info("🔄 [USERCODE_SYNC] Usercode Sync Worker stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

// runOnce đồng bộ một lần; panic/lỗi chỉ được log, lần sau chạy tiếp
func (w *UsercodeSyncWorker) runOnce(ctx context.Context) {
	log := logger.WithModule("worker")
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("🔄 [USERCODE_SYNC] Panic khi đồng bộ bộ đếm, sẽ tiếp tục ở lần chạy tiếp theo")
		}
	}()

	runCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	seq, err := w.syncer.SyncUsercode(runCtx)
	if err != nil {
		log.WithError(err).Error("🔄 [USERCODE_SYNC] Failed to sync usercode counter")
		return
	}
	// Không đổi thì không log
	if seq != w.lastSeq {
		log.WithField("seq", seq).Info("🔄 [USERCODE_SYNC] Usercode counter synced")
		w.lastSeq = seq
	}
}
