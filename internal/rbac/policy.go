// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package rbac

import (
	"fmt"
	"strings"
)

// IDStrategy selects how new records get their id.
type IDStrategy string

const (
	// IDSequence hands out ids from a counter that only grows, so ids are
	// never reused after a delete.
	IDSequence IDStrategy = "sequence"
	// IDPositional assigns len(sequence)+1, which can repeat an id that is
	// still in use once a record has been deleted.
	IDPositional IDStrategy = "positional"
)

// DeletePolicy selects what happens to users when their role is deleted.
type DeletePolicy string

const (
	// DeletePolicyIgnore removes the role and leaves users pointing at a
	// role name that no longer exists.
	DeletePolicyIgnore DeletePolicy = "ignore"
	// DeletePolicyBlock refuses to delete a role that is still assigned.
	DeletePolicyBlock DeletePolicy = "block"
	// DeletePolicyCascade removes every user holding the role. Renames
	// under this policy are propagated to users.
	DeletePolicyCascade DeletePolicy = "cascade"
)

// EditUniqueness selects how the role-name uniqueness check treats the role
// being edited.
type EditUniqueness string

const (
	// EditExcludeSelf skips the edited role when scanning for duplicates.
	EditExcludeSelf EditUniqueness = "exclude_self"
	// EditStrict scans every role, so saving a role without renaming it
	// reports a duplicate.
	EditStrict EditUniqueness = "strict"
)

// ParseIDStrategy parses a strategy name; empty selects IDSequence.
func ParseIDStrategy(s string) (IDStrategy, error) {
	switch IDStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", IDSequence:
		return IDSequence, nil
	case IDPositional:
		return IDPositional, nil
	}
	return "", fmt.Errorf("%w: id strategy %q (want sequence or positional)", ErrUnknownPolicy, s)
}

// ParseDeletePolicy parses a policy name; empty selects DeletePolicyIgnore.
func ParseDeletePolicy(s string) (DeletePolicy, error) {
	switch DeletePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", DeletePolicyIgnore:
		return DeletePolicyIgnore, nil
	case DeletePolicyBlock:
		return DeletePolicyBlock, nil
	case DeletePolicyCascade:
		return DeletePolicyCascade, nil
	}
	return "", fmt.Errorf("%w: role delete policy %q (want ignore, block or cascade)", ErrUnknownPolicy, s)
}

// ParseEditUniqueness parses a uniqueness mode; empty selects EditExcludeSelf.
func ParseEditUniqueness(s string) (EditUniqueness, error) {
	switch EditUniqueness(strings.ToLower(strings.TrimSpace(s))) {
	case "", EditExcludeSelf:
		return EditExcludeSelf, nil
	case EditStrict:
		return EditStrict, nil
	}
	return "", fmt.Errorf("%w: edit uniqueness %q (want exclude_self or strict)", ErrUnknownPolicy, s)
}
