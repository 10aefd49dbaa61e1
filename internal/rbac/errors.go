// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package rbac

import "errors"

var (
	// ErrRoleInUse is returned by DeleteRole under DeletePolicyBlock when at
	// least one user still references the role.
	ErrRoleInUse = errors.New("role is assigned to one or more users")

	// ErrUnknownPermission is returned when parsing a permission outside the fixed set.
	ErrUnknownPermission = errors.New("unknown permission")

	// ErrUnknownPolicy is returned when parsing a policy name that does not exist.
	ErrUnknownPolicy = errors.New("unknown policy")
)
