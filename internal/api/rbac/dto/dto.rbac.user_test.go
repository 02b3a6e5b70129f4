package rbacdto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_UnmarshalJSON(t *testing.T) {
	var in UserInput
	require.NoError(t, json.Unmarshal([]byte(`{"name":"A","email":"a@x.com","birthdate":"1990-05-17","role":{"name":"viewer"}}`), &in))
	require.NotNil(t, in.Birthdate)
	assert.Equal(t, time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC), in.Birthdate.Time)
	assert.Equal(t, "viewer", in.RoleName())

	require.NoError(t, json.Unmarshal([]byte(`{"birthdate":"1990-05-17T10:00:00+02:00"}`), &in))
	assert.Equal(t, time.Date(1990, 5, 17, 8, 0, 0, 0, time.UTC), in.Birthdate.Time)

	assert.Error(t, json.Unmarshal([]byte(`{"birthdate":"17/05/1990"}`), &in))
	assert.Error(t, json.Unmarshal([]byte(`{"birthdate":19900517}`), &in))
}

func TestRoleInput_PermissionNames(t *testing.T) {
	in := RoleInput{Name: "VIEWER", Permissions: []PermissionRefInput{{Name: "READ"}, {Name: "LIST"}}}
	assert.Equal(t, []string{"READ", "LIST"}, in.PermissionNames())
	assert.Empty(t, RoleInput{}.PermissionNames())
}
