package global

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name string `validate:"required,rbac_name"`
	Note string `validate:"omitempty,no_xss"`
}

func TestNewValidator_CustomTags(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Struct(sample{Name: "user:read"}))
	assert.NoError(t, v.Struct(sample{Name: "  READ  "}))
	assert.NoError(t, v.Struct(sample{Name: "READ", Note: "plain text"}))

	assert.Error(t, v.Struct(sample{Name: "read all"}))
	assert.Error(t, v.Struct(sample{Name: strings.Repeat("A", 65)}))
	assert.Error(t, v.Struct(sample{Name: "READ", Note: "<SCRIPT>alert(1)</script>"}))
}
