// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package rbac

import (
	"github.com/rs/zerolog"
)

// =============================================================================
// DIRECTORY
// =============================================================================

// Directory owns the user and role stores and applies the configured
// policies. It is the dashboard's single source of truth and is meant to be
// driven from one goroutine (the UI event loop or the shell loop).
type Directory struct {
	users *UserStore
	roles *RoleStore

	deletePolicy DeletePolicy
	idStrategy   IDStrategy

	log zerolog.Logger
}

// Policies groups the directory behaviours that can change at runtime.
type Policies struct {
	IDStrategy   IDStrategy
	DeletePolicy DeletePolicy
}

// DirectoryOption configures a Directory.
type DirectoryOption func(*directoryOptions)

type directoryOptions struct {
	policies Policies
	log      zerolog.Logger
	users    []User
	roles    []Role
}

// WithPolicies sets the id strategy and role delete policy.
func WithPolicies(p Policies) DirectoryOption {
	return func(o *directoryOptions) {
		o.policies = p
	}
}

// WithLogger sets the logger used for mutation events.
func WithLogger(log zerolog.Logger) DirectoryOption {
	return func(o *directoryOptions) {
		o.log = log
	}
}

// WithSeed replaces the built-in seed data.
func WithSeed(users []User, roles []Role) DirectoryOption {
	return func(o *directoryOptions) {
		o.users = users
		o.roles = roles
	}
}

// NewDirectory creates a directory holding the seed users and roles.
func NewDirectory(opts ...DirectoryOption) *Directory {
	o := directoryOptions{
		policies: Policies{IDStrategy: IDSequence, DeletePolicy: DeletePolicyIgnore},
		log:      zerolog.Nop(),
		users:    SeedUsers(),
		roles:    SeedRoles(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.policies.IDStrategy == "" {
		o.policies.IDStrategy = IDSequence
	}
	if o.policies.DeletePolicy == "" {
		o.policies.DeletePolicy = DeletePolicyIgnore
	}

	return &Directory{
		users:        NewUserStore(o.policies.IDStrategy, o.users),
		roles:        NewRoleStore(o.policies.IDStrategy, o.roles),
		deletePolicy: o.policies.DeletePolicy,
		idStrategy:   o.policies.IDStrategy,
		log:          o.log,
	}
}

// Policies returns the policies currently in effect.
func (d *Directory) Policies() Policies {
	return Policies{IDStrategy: d.idStrategy, DeletePolicy: d.deletePolicy}
}

// SetPolicies changes policies in place. Existing records are untouched.
func (d *Directory) SetPolicies(p Policies) {
	if p.IDStrategy != "" {
		d.idStrategy = p.IDStrategy
		d.users.setStrategy(p.IDStrategy)
		d.roles.setStrategy(p.IDStrategy)
	}
	if p.DeletePolicy != "" {
		d.deletePolicy = p.DeletePolicy
	}
}

// =============================================================================
// READ ACCESS
// =============================================================================

// Users returns a copy of the user sequence.
func (d *Directory) Users() []User { return d.users.All() }

// Roles returns a copy of the role sequence.
func (d *Directory) Roles() []Role { return d.roles.All() }

// RoleNames returns the role names in display order.
func (d *Directory) RoleNames() []string { return d.roles.Names() }

// UserCount returns the number of users.
func (d *Directory) UserCount() int { return d.users.Len() }

// RoleCount returns the number of roles.
func (d *Directory) RoleCount() int { return d.roles.Len() }

// User returns the user with the given id.
func (d *Directory) User(id int) (User, bool) { return d.users.Get(id) }

// Role returns the role with the given id.
func (d *Directory) Role(id int) (Role, bool) { return d.roles.Get(id) }

// RoleExists reports whether a role with exactly this name exists.
func (d *Directory) RoleExists(name string) bool {
	for _, n := range d.roles.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// UsersWithRole returns the users whose role is exactly name.
func (d *Directory) UsersWithRole(name string) []User {
	var out []User
	for _, u := range d.users.users {
		if u.Role == name {
			out = append(out, u)
		}
	}
	return out
}

// =============================================================================
// USER MUTATIONS
// =============================================================================

// AddUser appends a new active user.
func (d *Directory) AddUser(in UserInput) User {
	u := d.users.Add(in)
	d.log.Info().
		Int("id", u.ID).
		Str("name", u.Name).
		Str("role", u.Role).
		Msg("user_added")
	return u
}

// UpdateUser replaces the user with the given id. Unknown ids are a no-op
// and report false.
func (d *Directory) UpdateUser(id int, u User) bool {
	if d.users.Update(id, u) == 0 {
		d.log.Debug().Int("id", id).Msg("user_update_missing")
		return false
	}
	d.log.Info().Int("id", id).Str("name", u.Name).Str("role", u.Role).Msg("user_updated")
	return true
}

// DeleteUser removes the user with the given id. Unknown ids are a no-op
// and report false.
func (d *Directory) DeleteUser(id int) bool {
	if d.users.Delete(id) == 0 {
		d.log.Debug().Int("id", id).Msg("user_delete_missing")
		return false
	}
	d.log.Info().Int("id", id).Msg("user_deleted")
	return true
}

// =============================================================================
// ROLE MUTATIONS
// =============================================================================

// AddRole appends a new role.
func (d *Directory) AddRole(in RoleInput) Role {
	r := d.roles.Add(in)
	d.log.Info().
		Int("id", r.ID).
		Str("name", r.Name).
		Str("permissions", JoinPermissions(r.Permissions)).
		Msg("role_added")
	return r
}

// UpdateRole replaces the role with the given id. Under DeletePolicyCascade
// a rename is carried over to every user holding the old name.
func (d *Directory) UpdateRole(id int, r Role) bool {
	old, ok := d.roles.Get(id)
	if !ok {
		d.log.Debug().Int("id", id).Msg("role_update_missing")
		return false
	}
	d.roles.Update(id, r)

	renamed := 0
	if d.deletePolicy == DeletePolicyCascade && old.Name != r.Name {
		for i := range d.users.users {
			if d.users.users[i].Role == old.Name {
				d.users.users[i].Role = r.Name
				renamed++
			}
		}
	}

	d.log.Info().
		Int("id", id).
		Str("name", r.Name).
		Str("permissions", JoinPermissions(NormalizePermissions(r.Permissions))).
		Int("users_renamed", renamed).
		Msg("role_updated")
	return true
}

// RoleDeletion describes the effect of DeleteRole.
type RoleDeletion struct {
	// Removed is false when no role had the id.
	Removed bool
	// Role is the deleted role.
	Role Role
	// Orphaned lists users left with a dangling role under DeletePolicyIgnore.
	Orphaned []User
	// Cascaded lists users removed under DeletePolicyCascade.
	Cascaded []User
}

// DeleteRole removes the role with the given id, applying the delete policy
// to users that reference it. Under DeletePolicyBlock a role still in use is
// kept and ErrRoleInUse returned.
func (d *Directory) DeleteRole(id int) (RoleDeletion, error) {
	r, ok := d.roles.Get(id)
	if !ok {
		d.log.Debug().Int("id", id).Msg("role_delete_missing")
		return RoleDeletion{}, nil
	}

	holders := d.UsersWithRole(r.Name)
	res := RoleDeletion{Role: r}

	switch d.deletePolicy {
	case DeletePolicyBlock:
		if len(holders) > 0 {
			d.log.Warn().
				Int("id", id).
				Str("name", r.Name).
				Int("users", len(holders)).
				Msg("role_delete_blocked")
			return res, ErrRoleInUse
		}
	case DeletePolicyCascade:
		d.users.deleteWhere(func(u User) bool { return u.Role == r.Name })
		res.Cascaded = holders
	default:
		res.Orphaned = holders
	}

	d.roles.Delete(id)
	res.Removed = true
	d.log.Info().
		Int("id", id).
		Str("name", r.Name).
		Str("policy", string(d.deletePolicy)).
		Int("users_affected", len(holders)).
		Msg("role_deleted")
	return res, nil
}
