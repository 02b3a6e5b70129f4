package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaginateResult(t *testing.T) {
	first := NewPaginateResult([]int{1, 2}, 1, 10, 25)
	assert.Equal(t, int64(3), first.TotalPages)
	assert.False(t, first.HasPrevPage)
	assert.True(t, first.HasNextPage)
	require.NotNil(t, first.NextPage)
	assert.Equal(t, int64(2), *first.NextPage)
	assert.Nil(t, first.PrevPage)

	last := NewPaginateResult([]int{}, 3, 10, 25)
	assert.False(t, last.HasNextPage)
	assert.True(t, last.HasPrevPage)
	assert.Nil(t, last.NextPage)
	require.NotNil(t, last.PrevPage)
	assert.Equal(t, int64(2), *last.PrevPage)

	// Trang vượt quá tổng số trang không có trang trước/sau
	beyond := NewPaginateResult[int](nil, 5, 10, 25)
	assert.False(t, beyond.HasNextPage)
	assert.False(t, beyond.HasPrevPage)
	assert.NotNil(t, beyond.Content)

	empty := NewPaginateResult[int](nil, 1, 10, 0)
	assert.Equal(t, int64(0), empty.TotalPages)
	assert.False(t, empty.HasNextPage)
	assert.False(t, empty.HasPrevPage)
}

func TestSkip(t *testing.T) {
	tests := []struct {
		page, size, want int64
	}{
		{1, 10, 0},
		{3, 10, 20},
		{0, 10, 0},
		{2, 0, 0},
		{1_000_000_000_000_000_000, 10, math.MaxInt64},
		{math.MaxInt64, math.MaxInt64, math.MaxInt64},
		{math.MaxInt64/10 + 1, 10, math.MaxInt64/10*10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Skip(tt.page, tt.size), "page=%d size=%d", tt.page, tt.size)
	}
}

func TestNewPaginateResult_HugePage(t *testing.T) {
	result := NewPaginateResult[int](nil, 1_000_000_000_000_000_000, 10, 25)
	assert.Empty(t, result.Content)
	assert.False(t, result.HasNextPage)
	assert.False(t, result.HasPrevPage)
	assert.Nil(t, result.NextPage)
	assert.Nil(t, result.PrevPage)
}
