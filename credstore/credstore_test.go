package credstore

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleStringAndValid(t *testing.T) {
	assert.Equal(t, "admin", RoleAdmin.String())
	assert.Equal(t, "student", RoleStudent.String())
	assert.Equal(t, "viewer", RoleViewer.String())
	assert.Equal(t, "role(99)", Role(99).String())

	for _, role := range Roles {
		assert.True(t, role.Valid(), role.String())
	}
	assert.False(t, Role(99).Valid())
}

func TestParseRole(t *testing.T) {
	for _, role := range Roles {
		parsed, err := ParseRole(role.String())
		require.NoError(t, err)
		assert.Equal(t, role, parsed)
	}

	_, err := ParseRole("superuser")
	assert.ErrorIs(t, err, ErrUnknownRole)
	_, err = ParseRole("")
	assert.ErrorIs(t, err, ErrUnknownRole)
	_, err = ParseRole("Admin")
	assert.ErrorIs(t, err, ErrUnknownRole, "role names are case-sensitive")
}

func TestRoleJSON(t *testing.T) {
	data, err := json.Marshal(RoleViewer)
	require.NoError(t, err)
	assert.Equal(t, `"viewer"`, string(data))

	var role Role
	require.NoError(t, json.Unmarshal([]byte(`"admin"`), &role))
	assert.Equal(t, RoleAdmin, role)

	assert.Error(t, json.Unmarshal([]byte(`"superuser"`), &role))
	assert.Error(t, json.Unmarshal([]byte(`7`), &role))

	_, err = json.Marshal(Role(99))
	assert.Error(t, err)
}
