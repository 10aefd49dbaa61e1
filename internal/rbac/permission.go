// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package rbac

import (
	"fmt"
	"strings"
)

// Permission is one atomic capability string from a fixed set.
type Permission string

const (
	PermRead        Permission = "read"
	PermWrite       Permission = "write"
	PermDelete      Permission = "delete"
	PermManageUsers Permission = "manage_users"
	PermManageRoles Permission = "manage_roles"
)

// allPermissions is the canonical display order.
var allPermissions = []Permission{
	PermRead,
	PermWrite,
	PermDelete,
	PermManageUsers,
	PermManageRoles,
}

// AllPermissions returns every known permission in canonical order.
func AllPermissions() []Permission {
	out := make([]Permission, len(allPermissions))
	copy(out, allPermissions)
	return out
}

// Valid reports whether p is one of the known permissions.
func (p Permission) Valid() bool {
	for _, known := range allPermissions {
		if p == known {
			return true
		}
	}
	return false
}

func (p Permission) String() string {
	return string(p)
}

// ParsePermission converts a user-supplied string into a Permission.
func ParsePermission(s string) (Permission, error) {
	p := Permission(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPermission, s)
	}
	return p, nil
}

// ParsePermissionList parses a comma separated list such as "read,write".
// Empty items are skipped and duplicates collapse.
func ParsePermissionList(s string) ([]Permission, error) {
	var perms []Permission
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		p, err := ParsePermission(part)
		if err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return NormalizePermissions(perms), nil
}

// NormalizePermissions removes duplicates and orders the set canonically.
// Unknown values are kept at the end so validation can report them.
func NormalizePermissions(perms []Permission) []Permission {
	seen := make(map[Permission]bool, len(perms))
	for _, p := range perms {
		seen[p] = true
	}

	out := make([]Permission, 0, len(seen))
	for _, p := range allPermissions {
		if seen[p] {
			out = append(out, p)
			delete(seen, p)
		}
	}
	for _, p := range perms {
		if seen[p] {
			out = append(out, p)
			delete(seen, p)
		}
	}
	return out
}

// HasPermission reports whether perms contains p.
func HasPermission(perms []Permission, p Permission) bool {
	for _, have := range perms {
		if have == p {
			return true
		}
	}
	return false
}

// TogglePermission adds p when absent and removes it when present.
func TogglePermission(perms []Permission, p Permission) []Permission {
	if HasPermission(perms, p) {
		out := make([]Permission, 0, len(perms))
		for _, have := range perms {
			if have != p {
				out = append(out, have)
			}
		}
		return out
	}
	return NormalizePermissions(append(append([]Permission(nil), perms...), p))
}

// JoinPermissions renders perms the way the role table shows them.
func JoinPermissions(perms []Permission) string {
	parts := make([]string, len(perms))
	for i, p := range perms {
		parts[i] = string(p)
	}
	return strings.Join(parts, ", ")
}
