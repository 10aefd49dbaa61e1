// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package rbac

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// SEED DATA
// =============================================================================

func TestNewDirectory_Seed(t *testing.T) {
	d := NewDirectory()

	users := d.Users()
	require.Len(t, users, 2)
	assert.Equal(t, User{ID: 1, Name: "John Doe", Email: "john@example.com", Role: "Admin", Status: StatusActive}, users[0])
	assert.Equal(t, User{ID: 2, Name: "Jane Smith", Email: "jane@example.com", Role: "User", Status: StatusActive}, users[1])

	roles := d.Roles()
	require.Len(t, roles, 2)
	assert.Equal(t, "Admin", roles[0].Name)
	assert.Equal(t, AllPermissions(), roles[0].Permissions)
	assert.Equal(t, "User", roles[1].Name)
	assert.Equal(t, []Permission{PermRead}, roles[1].Permissions)

	assert.Equal(t, []string{"Admin", "User"}, d.RoleNames())
	assert.Equal(t, Policies{IDStrategy: IDSequence, DeletePolicy: DeletePolicyIgnore}, d.Policies())
}

func TestDirectory_RolesAreCopies(t *testing.T) {
	d := NewDirectory()

	roles := d.Roles()
	roles[1].Permissions[0] = PermDelete
	roles[1].Name = "Changed"

	r, ok := d.Role(2)
	require.True(t, ok)
	assert.Equal(t, "User", r.Name)
	assert.Equal(t, []Permission{PermRead}, r.Permissions)
}

// =============================================================================
// USERS
// =============================================================================

func TestDirectory_AddUser(t *testing.T) {
	d := NewDirectory()

	u := d.AddUser(UserInput{Name: "Bob", Email: "bob@x.io", Role: "User"})
	assert.Equal(t, 3, u.ID)
	assert.Equal(t, StatusActive, u.Status)

	users := d.Users()
	require.Len(t, users, 3)
	assert.Equal(t, u, users[2])
}

func TestDirectory_UpdateUser(t *testing.T) {
	d := NewDirectory()

	ok := d.UpdateUser(2, User{ID: 99, Name: "Jane Roe", Email: "roe@example.com", Role: "Admin", Status: "Suspended"})
	require.True(t, ok)

	u, found := d.User(2)
	require.True(t, found)
	assert.Equal(t, User{ID: 2, Name: "Jane Roe", Email: "roe@example.com", Role: "Admin", Status: "Suspended"}, u)
	_, found = d.User(99)
	assert.False(t, found)
}

func TestDirectory_MissingIDsAreNoOps(t *testing.T) {
	d := NewDirectory()
	before := d.Users()
	beforeRoles := d.Roles()

	assert.False(t, d.UpdateUser(42, User{Name: "Ghost"}))
	assert.False(t, d.DeleteUser(42))
	assert.False(t, d.UpdateRole(42, Role{Name: "Ghost"}))
	res, err := d.DeleteRole(42)
	require.NoError(t, err)
	assert.False(t, res.Removed)

	assert.Equal(t, before, d.Users())
	assert.Equal(t, beforeRoles, d.Roles())
}

func TestDirectory_DeleteUserKeepsOrder(t *testing.T) {
	d := NewDirectory()
	d.AddUser(UserInput{Name: "Bob", Email: "bob@x.io", Role: "User"})

	require.True(t, d.DeleteUser(2))

	users := d.Users()
	require.Len(t, users, 2)
	assert.Equal(t, 1, users[0].ID)
	assert.Equal(t, 3, users[1].ID)
}

// =============================================================================
// ID STRATEGIES
// =============================================================================

func TestDirectory_SequenceIDsNeverReused(t *testing.T) {
	d := NewDirectory()

	require.True(t, d.DeleteUser(2))
	u := d.AddUser(UserInput{Name: "Bob", Email: "bob@x.io", Role: "User"})
	assert.Equal(t, 3, u.ID)

	r := d.AddRole(RoleInput{Name: "Editor", Permissions: []Permission{PermWrite}})
	assert.Equal(t, 3, r.ID)
}

func TestDirectory_PositionalIDsCanCollide(t *testing.T) {
	d := NewDirectory(WithPolicies(Policies{IDStrategy: IDPositional}))

	require.True(t, d.DeleteUser(1))
	u := d.AddUser(UserInput{Name: "Bob", Email: "bob@x.io", Role: "User"})
	assert.Equal(t, 2, u.ID)

	// Both records carry id 2, so an update touches both.
	require.True(t, d.UpdateUser(2, User{Name: "Same", Email: "same@x.io", Role: "User", Status: StatusActive}))
	for _, u := range d.Users() {
		assert.Equal(t, "Same", u.Name)
	}

	require.True(t, d.DeleteUser(2))
	assert.Equal(t, 0, d.UserCount())
}

func TestDirectory_SetPolicies(t *testing.T) {
	d := NewDirectory()
	d.SetPolicies(Policies{DeletePolicy: DeletePolicyBlock})
	assert.Equal(t, Policies{IDStrategy: IDSequence, DeletePolicy: DeletePolicyBlock}, d.Policies())

	d.SetPolicies(Policies{IDStrategy: IDPositional})
	assert.Equal(t, IDPositional, d.Policies().IDStrategy)
	assert.Equal(t, DeletePolicyBlock, d.Policies().DeletePolicy)
}

// =============================================================================
// ROLES
// =============================================================================

func TestDirectory_AddRoleNormalizesPermissions(t *testing.T) {
	d := NewDirectory()

	r := d.AddRole(RoleInput{Name: "Ops", Permissions: []Permission{PermManageRoles, PermRead, PermRead}})
	assert.Equal(t, []Permission{PermRead, PermManageRoles}, r.Permissions)
	assert.True(t, d.RoleExists("Ops"))
	assert.False(t, d.RoleExists("ops"))
}

func TestDirectory_UpdateRole(t *testing.T) {
	d := NewDirectory()

	require.True(t, d.UpdateRole(2, Role{Name: "Member", Permissions: []Permission{PermWrite, PermRead}}))
	r, _ := d.Role(2)
	assert.Equal(t, Role{ID: 2, Name: "Member", Permissions: []Permission{PermRead, PermWrite}}, r)

	// Users keep the old name unless the cascade policy is on.
	jane, _ := d.User(2)
	assert.Equal(t, "User", jane.Role)
}

func TestDirectory_UpdateRoleCascadeRename(t *testing.T) {
	d := NewDirectory(WithPolicies(Policies{DeletePolicy: DeletePolicyCascade}))

	require.True(t, d.UpdateRole(2, Role{Name: "Member", Permissions: []Permission{PermRead}}))
	jane, _ := d.User(2)
	assert.Equal(t, "Member", jane.Role)
	john, _ := d.User(1)
	assert.Equal(t, "Admin", john.Role)
}

func TestDirectory_DeleteRolePolicies(t *testing.T) {
	t.Run("ignore leaves dangling references", func(t *testing.T) {
		d := NewDirectory()

		res, err := d.DeleteRole(2)
		require.NoError(t, err)
		assert.True(t, res.Removed)
		require.Len(t, res.Orphaned, 1)
		assert.Equal(t, "Jane Smith", res.Orphaned[0].Name)

		assert.Equal(t, 1, d.RoleCount())
		jane, ok := d.User(2)
		require.True(t, ok)
		assert.Equal(t, "User", jane.Role)
		assert.False(t, d.RoleExists("User"))
	})

	t.Run("block keeps a role in use", func(t *testing.T) {
		d := NewDirectory(WithPolicies(Policies{DeletePolicy: DeletePolicyBlock}))

		res, err := d.DeleteRole(2)
		require.ErrorIs(t, err, ErrRoleInUse)
		assert.False(t, res.Removed)
		assert.Equal(t, 2, d.RoleCount())

		r := d.AddRole(RoleInput{Name: "Unused", Permissions: []Permission{PermRead}})
		res, err = d.DeleteRole(r.ID)
		require.NoError(t, err)
		assert.True(t, res.Removed)
	})

	t.Run("cascade removes holders", func(t *testing.T) {
		d := NewDirectory(WithPolicies(Policies{DeletePolicy: DeletePolicyCascade}))

		res, err := d.DeleteRole(2)
		require.NoError(t, err)
		assert.True(t, res.Removed)
		require.Len(t, res.Cascaded, 1)
		assert.Equal(t, 1, d.UserCount())
		_, ok := d.User(2)
		assert.False(t, ok)
	})
}

// =============================================================================
// LOGGING
// =============================================================================

func TestDirectory_LogsMutations(t *testing.T) {
	var buf bytes.Buffer
	d := NewDirectory(
		WithLogger(zerolog.New(&buf)),
		WithPolicies(Policies{DeletePolicy: DeletePolicyBlock}),
	)

	d.AddUser(UserInput{Name: "Bob", Email: "bob@x.io", Role: "User"})
	_, _ = d.DeleteRole(1)

	out := buf.String()
	assert.Contains(t, out, `"message":"user_added"`)
	assert.Contains(t, out, `"name":"Bob"`)
	assert.Contains(t, out, `"message":"role_delete_blocked"`)
}

func TestWithSeed(t *testing.T) {
	d := NewDirectory(WithSeed(nil, []Role{{ID: 7, Name: "Solo", Permissions: []Permission{PermRead}}}))

	assert.Equal(t, 0, d.UserCount())
	r := d.AddRole(RoleInput{Name: "Next", Permissions: []Permission{PermRead}})
	assert.Equal(t, 8, r.ID)
	u := d.AddUser(UserInput{Name: "First", Email: "first@x.io", Role: "Solo"})
	assert.Equal(t, 1, u.ID)
}
