// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePermissionList(t *testing.T) {
	perms, err := ParsePermissionList(" write, READ ,,write")
	require.NoError(t, err)
	assert.Equal(t, []Permission{PermRead, PermWrite}, perms)

	_, err = ParsePermissionList("read,fly")
	require.ErrorIs(t, err, ErrUnknownPermission)
}

func TestTogglePermission(t *testing.T) {
	perms := TogglePermission(nil, PermDelete)
	perms = TogglePermission(perms, PermRead)
	assert.Equal(t, []Permission{PermRead, PermDelete}, perms)

	perms = TogglePermission(perms, PermDelete)
	assert.Equal(t, []Permission{PermRead}, perms)
}

func TestNormalizePermissionsKeepsUnknownLast(t *testing.T) {
	got := NormalizePermissions([]Permission{"fly", PermManageUsers, PermRead, "fly"})
	assert.Equal(t, []Permission{PermRead, PermManageUsers, "fly"}, got)
}

func TestJoinPermissions(t *testing.T) {
	assert.Equal(t, "read, write, delete, manage_users, manage_roles", JoinPermissions(AllPermissions()))
	assert.Equal(t, "", JoinPermissions(nil))
}

func TestParsePolicies(t *testing.T) {
	s, err := ParseIDStrategy("")
	require.NoError(t, err)
	assert.Equal(t, IDSequence, s)

	p, err := ParseDeletePolicy("Cascade")
	require.NoError(t, err)
	assert.Equal(t, DeletePolicyCascade, p)

	_, err = ParseEditUniqueness("loose")
	require.ErrorIs(t, err, ErrUnknownPolicy)
}

func TestSameName(t *testing.T) {
	assert.True(t, SameName("Admin", "aDMIN"))
	assert.True(t, SameName("Éditeur", "éDITEUR"))
	assert.False(t, SameName("Admin", "Admins"))
}
