// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"

	"github.com/muesli/termenv"
)

func TestStatusKind_Indicator(t *testing.T) {
	testCases := []struct {
		kind StatusKind
		want string
	}{
		{StatusInfo, "[i]"},
		{StatusSuccess, "[OK]"},
		{StatusWarning, "[!]"},
		{StatusError, "[X]"},
	}

	for _, tc := range testCases {
		if got := tc.kind.Indicator(); got != tc.want {
			t.Errorf("Indicator() = %q, want %q", got, tc.want)
		}
	}
}

func TestRenderStatus(t *testing.T) {
	theme := NewThemeFor(testRenderer(termenv.Ascii), ModeDark)

	out := theme.RenderStatus(StatusSuccess, "Created user Bob")
	if !strings.Contains(out, "[OK] Created user Bob") {
		t.Errorf("RenderStatus = %q", out)
	}

	out = theme.RenderStatus(StatusError, "Role is assigned to 1 user")
	if !strings.Contains(out, "[X] Role is assigned") {
		t.Errorf("error status should carry [X]: %q", out)
	}
}
