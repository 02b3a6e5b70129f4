package logger

import (
	"bytes"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestParseFilter(t *testing.T) {
	assert.Nil(t, parseFilter(""))
	assert.Nil(t, parseFilter("*"))
	assert.Nil(t, parseFilter("rbac, *"))
	assert.Equal(t, map[string]bool{"rbac": true, "database": true}, parseFilter(" RBAC ,database,"))
}

func TestFilterHook_MarksEntries(t *testing.T) {
	hook := NewFilterHook(&LogConfig{FilterModules: "rbac", FilterLevels: "info,error"})
	l := logrus.New()

	debugEntry := logrus.NewEntry(l).WithField("module", "rbac")
	debugEntry.Level = logrus.DebugLevel
	assert.NoError(t, hook.Fire(debugEntry))
	assert.Equal(t, true, debugEntry.Data[filteredKey])

	otherModule := logrus.NewEntry(l).WithField("module", "database")
	otherModule.Level = logrus.InfoLevel
	assert.NoError(t, hook.Fire(otherModule))
	assert.Equal(t, true, otherModule.Data[filteredKey])

	kept := logrus.NewEntry(l).WithField("module", "rbac")
	kept.Level = logrus.ErrorLevel
	assert.NoError(t, hook.Fire(kept))
	assert.NotContains(t, kept.Data, filteredKey)

	noModule := logrus.NewEntry(l).WithField("x", 1)
	noModule.Level = logrus.InfoLevel
	assert.NoError(t, hook.Fire(noModule))
	assert.NotContains(t, noModule.Data, filteredKey)
}

func TestAsyncHook_WritesAndDropsFiltered(t *testing.T) {
	var buf bytes.Buffer
	hook := NewAsyncHookWithWriters([]io.Writer{&buf}, 10)

	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})
	l.AddHook(NewFilterHook(&LogConfig{FilterModules: "rbac", FilterLevels: "*"}))
	l.AddHook(hook)

	l.WithField("module", "rbac").Info("permission created")
	l.WithField("module", "database").Info("ping")
	assert.NoError(t, hook.Close())

	out := buf.String()
	assert.Contains(t, out, "permission created")
	assert.NotContains(t, out, "ping")
	assert.NotContains(t, out, filteredKey)

	// Sau khi đóng, hook ghi trực tiếp
	l.WithField("module", "rbac").Warn("after close")
	assert.Contains(t, buf.String(), "after close")
}
