// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package rbac holds the dashboard's in-memory user and role directory.
//
// Nothing in this package is persisted and nothing is enforced: roles and
// permissions are plain data that an administrator edits. The package owns the
// data-consistency rules applied while editing.
//
// # Key Types
//
//   - Directory: the container that owns both stores and applies policies
//   - UserStore, RoleStore: ordered sequences keyed by integer id
//   - Validator: form validation producing FieldErrors
//   - Permission: one of the fixed capability strings
//
// # Usage
//
//	dir := rbac.NewDirectory()
//	v := rbac.NewValidator()
//
//	in := rbac.UserInput{Name: "Bob", Email: "bob@x.com", Role: "User"}
//	if errs := v.User(in); errs.Empty() {
//	    dir.AddUser(in)
//	}
//
// # Policies
//
// Three behaviours are configurable because the seed implementation left them
// open: id assignment (IDStrategy), role deletion while users still reference
// the role (DeletePolicy), and whether a role being edited collides with its
// own name (EditUniqueness).
package rbac
