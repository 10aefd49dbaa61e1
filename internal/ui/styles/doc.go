// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the rbacdash dashboard.

# Color System (colors.go)

All colors are Lip Gloss AdaptiveColor values, so the same palette serves
dark and light terminals:

	Purple, Cyan, Emerald - accents (tabs, focus, success)
	Rose, Amber           - errors and warnings
	Surface, SurfaceDim   - modal and header backgrounds
	TextPrimary ... TextInverse - text hierarchy

Status lines always carry a shape ([OK], [X], [!], [i]) next to their color.

# Theme System (theme.go)

Theme binds every style to one lipgloss.Renderer. The mode comes from the
[ui] theme setting:

	auto  - ask the terminal for its background
	dark  - force the Dark side of every AdaptiveColor
	light - force the Light side

	theme := styles.NewTheme(cfg.UI.Theme)
	title := theme.HeaderTitle.Render("RBAC Dashboard")

# Responsive Layout

GetLayoutMode maps the terminal width to LayoutNarrow, LayoutMedium or
LayoutWide; the table drops its Status column when narrow.
*/
package styles
