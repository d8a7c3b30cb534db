package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermissionValid(t *testing.T) {
	for _, p := range []Permission{
		PermissionDashboard,
		PermissionCollegeManagement,
		PermissionContentEditing,
		PermissionViewData,
	} {
		assert.True(t, p.Valid(), "expected %q to be valid", p)
	}

	assert.False(t, Permission("superuser").Valid())
	assert.False(t, Permission("").Valid())
}

func TestPermissionsHas(t *testing.T) {
	perms := Permissions{Dashboard: true, ViewData: true}

	assert.True(t, perms.Has(PermissionDashboard))
	assert.True(t, perms.Has(PermissionViewData))
	assert.False(t, perms.Has(PermissionCollegeManagement))
	assert.False(t, perms.Has(PermissionContentEditing))
	assert.False(t, perms.Has(Permission("unknown")))
}

func TestNewAdmin(t *testing.T) {
	admin := NewAdmin("Admin", "admin@example.com", "hashed")

	assert.Equal(t, RoleAdmin, admin.Role)
	assert.Equal(t, AllPermissions(), admin.Permissions)
	assert.True(t, admin.IsAdmin())
	assert.NotEqual(t, admin.ID.String(), "00000000-0000-0000-0000-000000000000")
}

func TestNewSubAdmin(t *testing.T) {
	t.Run("permissions taken verbatim from input", func(t *testing.T) {
		sub := NewSubAdmin("Sub", "sub@example.com", "hashed", Permissions{Dashboard: true})

		assert.Equal(t, RoleSubAdmin, sub.Role)
		assert.True(t, sub.Permissions.Dashboard)
		assert.False(t, sub.Permissions.CollegeManagement)
		assert.False(t, sub.IsAdmin())
	})

	t.Run("zero value permissions grant nothing", func(t *testing.T) {
		sub := NewSubAdmin("Sub", "sub@example.com", "hashed", Permissions{})

		for _, p := range []Permission{
			PermissionDashboard,
			PermissionCollegeManagement,
			PermissionContentEditing,
			PermissionViewData,
		} {
			assert.False(t, sub.HasPermission(p))
		}
	})
}

func TestHasPermissionAdminBypass(t *testing.T) {
	// Admin passes every permission check even when the stored flags are off
	admin := &User{Role: RoleAdmin, Permissions: Permissions{}}

	assert.True(t, admin.HasPermission(PermissionDashboard))
	assert.True(t, admin.HasPermission(PermissionViewData))
}

func TestUserJSONNeverExposesPasswordHash(t *testing.T) {
	user := NewSubAdmin("Sub", "sub@example.com", "super-secret-hash", Permissions{})

	raw, err := json.Marshal(user)
	require.NoError(t, err)

	assert.NotContains(t, string(raw), "super-secret-hash")
	assert.NotContains(t, string(raw), "password")

	// All four permission keys are always present in the serialized form
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	perms, ok := decoded["permissions"].(map[string]interface{})
	require.True(t, ok)
	for _, key := range []string{"dashboard", "collegeManagement", "contentEditing", "viewData"} {
		_, present := perms[key]
		assert.True(t, present, "permissions key %q missing", key)
	}
}
