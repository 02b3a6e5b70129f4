package utility

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "READ", NormalizeName("  read "))
	assert.Equal(t, "a@x.com", NormalizeEmail(" A@X.com "))
}

func TestContainsFoldRegex(t *testing.T) {
	re := ContainsFoldRegex("a.b")
	assert.Equal(t, `a\.b`, re.Pattern)
	assert.Equal(t, "i", re.Options)

	assert.True(t, ContainsFold("USER_READ", "read"))
	assert.False(t, ContainsFold("USER_READ", "write"))
}

func TestToMap(t *testing.T) {
	type doc struct {
		Name string  `bson:"name"`
		Role *string `bson:"role"`
		Skip string  `bson:"skip,omitempty"`
	}
	m, err := ToMap(doc{Name: "A"})
	assert.NoError(t, err)
	assert.Equal(t, "A", m["name"])
	assert.Contains(t, m, "role")
	assert.Nil(t, m["role"])
	assert.NotContains(t, m, "skip")
}
