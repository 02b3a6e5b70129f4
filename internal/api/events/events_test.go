package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmitDataChanged(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var got []DataChangeEvent
	OnDataChanged(func(ctx context.Context, e DataChangeEvent) {
		panic("boom")
	})
	OnDataChanged(func(ctx context.Context, e DataChangeEvent) {
		got = append(got, e)
	})

	EmitDataChanged(context.Background(), DataChangeEvent{Entity: EntityRole, Operation: OpDelete, Key: "ADMIN"})
	assert.Equal(t, []DataChangeEvent{{Entity: EntityRole, Operation: OpDelete, Key: "ADMIN"}}, got)
}

func TestEmitWithoutHandlers(t *testing.T) {
	Reset()
	assert.NotPanics(t, func() {
		EmitDataChanged(context.Background(), DataChangeEvent{Entity: EntityUser, Operation: OpCreate, Key: "1"})
	})
}
