package utility

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NormalizeName chuẩn hóa tên permission/role: trim và viết hoa
func NormalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// NormalizeEmail chuẩn hóa email: trim và viết thường
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ContainsFoldRegex tạo regex tìm chuỗi con không phân biệt hoa thường, ký tự đặc biệt được escape
func ContainsFoldRegex(sub string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(sub), Options: "i"}
}

// ContainsFold kiểm tra s có chứa sub (không phân biệt hoa thường)
func ContainsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
