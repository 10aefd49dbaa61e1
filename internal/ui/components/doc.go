// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the reusable pieces of the dashboard screen.

# Display Components

Header (header.go) - Title bar with the view tabs and their counts.
Table (table.go) - Width-aware table with a selection cursor.
StatusBar (statusbar.go) - Last action outcome plus short key help.

# Overlays

ConfirmDialog (confirm.go) - Yes/no modal shown before a delete.
InfoOverlay (overlay.go) - Markdown document rendered with glamour.

Overlays report whether they consumed a message:

	if cmd, handled := dialog.Update(msg); handled {
		return m, cmd
	}

All components take a *styles.Theme and must be given the new one after a
theme change.
*/
package components
