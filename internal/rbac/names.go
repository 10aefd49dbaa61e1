// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package rbac

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// foldName maps a name to its case-insensitive comparison key.
// cases.Caser is not safe for concurrent use, so one is built per call.
func foldName(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// SameName reports whether two role names are equal ignoring case.
func SameName(a, b string) bool {
	return foldName(a) == foldName(b)
}
