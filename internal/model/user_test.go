package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleAtLeast(t *testing.T) {
	levels := []string{RoleUser, RoleManager, RoleAdmin}
	for i, role := range levels {
		for j, minimum := range levels {
			assert.Equal(t, i >= j, RoleAtLeast(role, minimum), "RoleAtLeast(%q, %q)", role, minimum)
		}
	}
}

func TestRoleAtLeastUnknownRoles(t *testing.T) {
	for _, tt := range []struct{ role, minimum string }{
		{"unknown", RoleUser},
		{"Admin", RoleUser},
		{RoleAdmin, "unknown"},
		{RoleAdmin, ""},
		{"", RoleUser},
		{"", ""},
	} {
		assert.False(t, RoleAtLeast(tt.role, tt.minimum), "RoleAtLeast(%q, %q)", tt.role, tt.minimum)
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleAdmin, RoleManager, RoleUser} {
		assert.True(t, ValidRole(role), role)
	}
	for _, role := range []string{"", "root", "ADMIN", "manager "} {
		assert.False(t, ValidRole(role), role)
	}
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword(""))
	assert.Error(t, ValidatePassword("short"))
	assert.Error(t, ValidatePassword(strings.Repeat("x", MinPasswordLength-1)))
	assert.NoError(t, ValidatePassword(strings.Repeat("x", MinPasswordLength)))
	assert.NoError(t, ValidatePassword("a-valid-password"))

	err := ValidatePassword("1234567")
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "8 characters")
	}
}
