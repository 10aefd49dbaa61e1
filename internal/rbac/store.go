// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package rbac

// =============================================================================
// USER STORE
// =============================================================================

// UserStore is the ordered sequence of users.
//
// Update and Delete act on every record carrying the id, the same way a
// map/filter pass over the sequence would; with IDSequence ids are unique so
// that is at most one record.
type UserStore struct {
	users []User
	ids   *idAllocator
}

// NewUserStore creates a store holding a copy of seed.
func NewUserStore(strategy IDStrategy, seed []User) *UserStore {
	s := &UserStore{
		users: append([]User(nil), seed...),
		ids:   newIDAllocator(strategy),
	}
	for _, u := range s.users {
		s.ids.observe(u.ID)
	}
	return s
}

// All returns a copy of the users in display order.
func (s *UserStore) All() []User {
	return append([]User(nil), s.users...)
}

// Len returns the number of users.
func (s *UserStore) Len() int {
	return len(s.users)
}

// Get returns the first user with the given id.
func (s *UserStore) Get(id int) (User, bool) {
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

// Add appends a user built from in. The status is always StatusActive.
func (s *UserStore) Add(in UserInput) User {
	u := User{
		ID:     s.ids.allocate(len(s.users)),
		Name:   in.Name,
		Email:  in.Email,
		Role:   in.Role,
		Status: StatusActive,
	}
	s.users = append(s.users, u)
	return u
}

// Update replaces every field of the user with the given id except the id.
// It returns the number of records replaced.
func (s *UserStore) Update(id int, u User) int {
	u.ID = id
	n := 0
	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i] = u
			n++
		}
	}
	return n
}

// Delete removes the users with the given id and returns how many went.
func (s *UserStore) Delete(id int) int {
	return s.deleteWhere(func(u User) bool { return u.ID == id })
}

func (s *UserStore) deleteWhere(match func(User) bool) int {
	kept := s.users[:0:0]
	for _, u := range s.users {
		if !match(u) {
			kept = append(kept, u)
		}
	}
	removed := len(s.users) - len(kept)
	if removed > 0 {
		s.users = kept
	}
	return removed
}

// setStrategy switches id assignment without losing the sequence position.
func (s *UserStore) setStrategy(strategy IDStrategy) {
	s.ids.strategy = strategy
}

// =============================================================================
// ROLE STORE
// =============================================================================

// RoleStore is the ordered sequence of roles.
type RoleStore struct {
	roles []Role
	ids   *idAllocator
}

// NewRoleStore creates a store holding a copy of seed.
func NewRoleStore(strategy IDStrategy, seed []Role) *RoleStore {
	s := &RoleStore{ids: newIDAllocator(strategy)}
	for _, r := range seed {
		s.roles = append(s.roles, r.Clone())
		s.ids.observe(r.ID)
	}
	return s
}

// All returns a deep copy of the roles in display order.
func (s *RoleStore) All() []Role {
	out := make([]Role, len(s.roles))
	for i, r := range s.roles {
		out[i] = r.Clone()
	}
	return out
}

// Len returns the number of roles.
func (s *RoleStore) Len() int {
	return len(s.roles)
}

// Get returns the first role with the given id.
func (s *RoleStore) Get(id int) (Role, bool) {
	for _, r := range s.roles {
		if r.ID == id {
			return r.Clone(), true
		}
	}
	return Role{}, false
}

// Names returns role names in display order.
func (s *RoleStore) Names() []string {
	names := make([]string, len(s.roles))
	for i, r := range s.roles {
		names[i] = r.Name
	}
	return names
}

// Add appends a role built from in.
func (s *RoleStore) Add(in RoleInput) Role {
	r := Role{
		ID:          s.ids.allocate(len(s.roles)),
		Name:        in.Name,
		Permissions: NormalizePermissions(in.Permissions),
	}
	s.roles = append(s.roles, r)
	return r.Clone()
}

// Update replaces every field of the role with the given id except the id.
func (s *RoleStore) Update(id int, r Role) int {
	r = r.Clone()
	r.ID = id
	r.Permissions = NormalizePermissions(r.Permissions)
	n := 0
	for i := range s.roles {
		if s.roles[i].ID == id {
			s.roles[i] = r.Clone()
			n++
		}
	}
	return n
}

// Delete removes the roles with the given id and returns how many went.
func (s *RoleStore) Delete(id int) int {
	kept := s.roles[:0:0]
	for _, r := range s.roles {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	removed := len(s.roles) - len(kept)
	if removed > 0 {
		s.roles = kept
	}
	return removed
}

func (s *RoleStore) setStrategy(strategy IDStrategy) {
	s.ids.strategy = strategy
}
