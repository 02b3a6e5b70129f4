package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeSyncer struct {
	calls atomic.Int64
	err   error
	panic bool
}

func (f *fakeSyncer) SyncUsercode(ctx context.Context) (int64, error) {
	n := f.calls.Add(1)
	if f.panic {
		panic("boom")
	}
	return n, f.err
}

func TestUsercodeSyncWorker_RunsUntilCancelled(t *testing.T) {
	syncer := &fakeSyncer{}
	w := NewUsercodeSyncWorker(syncer, time.Second, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return syncer.calls.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestUsercodeSyncWorker_RunOnceSurvivesFailures(t *testing.T) {
	w := NewUsercodeSyncWorker(&fakeSyncer{err: errors.New("db down")}, 0, 0)
	assert.Equal(t, time.Second, w.interval)
	assert.NotPanics(t, func() { w.runOnce(context.Background()) })
	assert.Equal(t, int64(-1), w.lastSeq)

	w = NewUsercodeSyncWorker(&fakeSyncer{panic: true}, time.Second, time.Second)
	assert.NotPanics(t, func() { w.runOnce(context.Background()) })

	w = NewUsercodeSyncWorker(&fakeSyncer{}, time.Second, time.Second)
	w.runOnce(context.Background())
	assert.Equal(t, int64(1), w.lastSeq)
}
