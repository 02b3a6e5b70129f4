// Package models chứa các kiểu dùng chung cho layer repository/base (kết quả phân trang).
package models

import "math"

// PaginateResult là envelope phân trang trả về cho client
type PaginateResult[T any] struct {
	Content     []T    `json:"content"`     // Danh sách các mục trong trang
	Page        int64  `json:"page"`        // Trang hiện tại (bắt đầu từ 1)
	Size        int64  `json:"size"`        // Số mục tối đa trên mỗi trang
	Total       int64  `json:"total"`       // Tổng số mục
	TotalPages  int64  `json:"totalPages"`  // Tổng số trang
	HasNextPage bool   `json:"hasNextPage"` // Còn trang sau
	HasPrevPage bool   `json:"hasPrevPage"` // Có trang trước
	NextPage    *int64 `json:"nextPage"`    // null nếu không có trang sau
	PrevPage    *int64 `json:"prevPage"`    // null nếu không có trang trước
}

// Skip trả về số mục bỏ qua cho page/size.
// (page-1)*size vượt int64 thì trả về math.MaxInt64: trang rỗng.
func Skip(page, size int64) int64 {
	if page < 1 || size < 1 {
		return 0
	}
	if page-1 > math.MaxInt64/size {
		return math.MaxInt64
	}
	return (page - 1) * size
}

// NewPaginateResult tính các trường phân trang từ page, size và total.
// page, size phải > 0 (đã được kiểm tra ở handler).
func NewPaginateResult[T any](content []T, page, size, total int64) *PaginateResult[T] {
	if content == nil {
		content = []T{}
	}

	var totalPages int64
	if total > 0 && size > 0 {
		totalPages = (total + size - 1) / size
	}

	result := &PaginateResult[T]{
		Content:     content,
		Page:        page,
		Size:        size,
		Total:       total,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1 && page <= totalPages,
	}
	if result.HasNextPage {
		next := page + 1
		result.NextPage = &next
	}
	if result.HasPrevPage {
		prev := page - 1
		result.PrevPage = &prev
	}
	return result
}
