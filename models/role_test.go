package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestParsePermissions(t *testing.T) {
	tests := []struct {
		name     string
		csv      string
		expected []string
	}{
		{name: "empty string", csv: "", expected: []string{}},
		{name: "single", csv: "read:services", expected: []string{"read:services"}},
		{name: "trims whitespace", csv: " read:services , create:services ", expected: []string{"create:services", "read:services"}},
		{name: "drops empty entries", csv: "read:releases,,  ,", expected: []string{"read:releases"}},
		{name: "deduplicates", csv: "read:releases,read:releases", expected: []string{"read:releases"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := ParsePermissions(tt.csv)
			assert.Equal(t, tt.expected, set.List())
		})
	}
}

func TestPermissionSet_String(t *testing.T) {
	set := ParsePermissions("b:x, a:y")
	assert.Equal(t, "a:y,b:x", set.String())
	assert.True(t, set.Contains("a:y"))
	assert.False(t, set.Contains("a"))
}

func TestRole_Grants(t *testing.T) {
	tests := []struct {
		name       string
		role       Role
		permission string
		expected   bool
	}{
		{
			name:       "admin bypasses empty permissions",
			role:       Role{Name: AdminRoleName},
			permission: "delete:anything",
			expected:   true,
		},
		{
			name:       "admin bypasses unrelated permissions",
			role:       Role{Name: AdminRoleName, Permissions: strPtr("read:services")},
			permission: "create:roles",
			expected:   true,
		},
		{
			name:       "member permission",
			role:       Role{Name: "viewer", Permissions: strPtr("read:services, read:releases")},
			permission: "read:releases",
			expected:   true,
		},
		{
			name:       "missing permission",
			role:       Role{Name: "viewer", Permissions: strPtr("read:services")},
			permission: "create:services",
			expected:   false,
		},
		{
			name:       "nil permissions grant nothing",
			role:       Role{Name: "empty"},
			permission: "read:services",
			expected:   false,
		},
		{
			name:       "prefix is not membership",
			role:       Role{Name: "viewer", Permissions: strPtr("read:services")},
			permission: "read:service",
			expected:   false,
		},
		{
			name:       "role named like admin is not admin",
			role:       Role{Name: "Admin", Permissions: strPtr("")},
			permission: "read:services",
			expected:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role := tt.role
			assert.Equal(t, tt.expected, role.Grants(tt.permission))
		})
	}
}

func TestRole_SetPermissionsRefreshesCache(t *testing.T) {
	role := Role{Name: "viewer", Permissions: strPtr("read:services")}
	assert.True(t, role.Grants("read:services"))

	role.SetPermissions(strPtr("read:releases"))
	assert.False(t, role.Grants("read:services"))
	assert.True(t, role.Grants("read:releases"))

	role.SetPermissions(nil)
	assert.False(t, role.Grants("read:releases"))
}

func TestUser_HasPermission(t *testing.T) {
	assert.False(t, (&User{}).HasPermission("read:services"))

	user := User{Role: &Role{Name: "viewer", Permissions: strPtr("read:services")}}
	assert.True(t, user.HasPermission("read:services"))
	assert.False(t, user.HasPermission("create:services"))
}

func TestUser_DisplayName(t *testing.T) {
	assert.Equal(t, "a@example.com", (&User{Email: "a@example.com"}).DisplayName())
	assert.Equal(t, "Ada", (&User{Email: "a@example.com", FullName: strPtr("Ada")}).DisplayName())
}
