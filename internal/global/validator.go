package global

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// rbacNamePattern: tên permission/role sau khi trim
var rbacNamePattern = regexp.MustCompile(`^[A-Za-z0-9_.:\-]{1,64}$`)

// InitValidator khởi tạo và đăng ký các custom validator
func InitValidator() {
	Validate = NewValidator()
}

// NewValidator tạo validator mới đã đăng ký các custom tag (no_xss, rbac_name)
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("no_xss", validateNoXSS)
	_ = v.RegisterValidation("rbac_name", validateRBACName)
	return v
}

// validateNoXSS kiểm tra XSS
func validateNoXSS(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	dangerousPatterns := []string{
		"<script",
		"javascript:",
		"onerror=",
		"onload=",
		"onclick=",
		"onmouseover=",
		"eval(",
		"document.cookie",
		"document.write",
		"innerhtml",
		"fromcharcode",
		"window.location",
		"<iframe",
		"<object",
		"<embed",
	}

	value = strings.ToLower(value)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(value, pattern) {
			return false
		}
	}
	return true
}

// validateRBACName kiểm tra tên permission/role: chữ, số, "_", "-", ".", ":" (1..64 ký tự sau trim)
func validateRBACName(fl validator.FieldLevel) bool {
	return rbacNamePattern.MatchString(strings.TrimSpace(fl.Field().String()))
}
