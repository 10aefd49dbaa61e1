// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package rbac

// StatusActive is the status every newly created user receives.
const StatusActive = "Active"

// User is one row of the user table. Role holds a role name, not an id.
type User struct {
	ID     int    `json:"id" toml:"id"`
	Name   string `json:"name" toml:"name"`
	Email  string `json:"email" toml:"email"`
	Role   string `json:"role" toml:"role"`
	Status string `json:"status" toml:"status"`
}

// Input returns the editable fields of u, as used to pre-fill the edit form.
func (u User) Input() UserInput {
	return UserInput{Name: u.Name, Email: u.Email, Role: u.Role}
}

// UserInput carries the fields of the user form.
type UserInput struct {
	Name  string
	Email string
	Role  string
}

// Role is one row of the role table.
type Role struct {
	ID          int          `json:"id" toml:"id"`
	Name        string       `json:"name" toml:"name"`
	Permissions []Permission `json:"permissions" toml:"permissions"`
}

// Input returns the editable fields of r, as used to pre-fill the edit form.
func (r Role) Input() RoleInput {
	return RoleInput{Name: r.Name, Permissions: append([]Permission(nil), r.Permissions...)}
}

// Clone returns a copy of r that shares no slice storage.
func (r Role) Clone() Role {
	r.Permissions = append([]Permission(nil), r.Permissions...)
	return r
}

// RoleInput carries the fields of the role form.
type RoleInput struct {
	Name        string
	Permissions []Permission
}

// SeedUsers returns the users present before any interaction.
func SeedUsers() []User {
	return []User{
		{ID: 1, Name: "John Doe", Email: "john@example.com", Role: "Admin", Status: StatusActive},
		{ID: 2, Name: "Jane Smith", Email: "jane@example.com", Role: "User", Status: StatusActive},
	}
}

// SeedRoles returns the roles present before any interaction.
func SeedRoles() []Role {
	return []Role{
		{ID: 1, Name: "Admin", Permissions: AllPermissions()},
		{ID: 2, Name: "User", Permissions: []Permission{PermRead}},
	}
}
