// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rbacdash/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// StatusBar shows the outcome of the last action and the short key help.
type StatusBar struct {
	help     help.Model
	keys     help.KeyMap
	kind     styles.StatusKind
	message  string
	Width    int
	ShowHelp bool

	theme *styles.Theme
}

// NewStatusBar creates an empty status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	s := &StatusBar{help: help.New(), Width: 80, ShowHelp: true}
	s.SetTheme(theme)
	return s
}

// SetTheme switches the theme.
func (s *StatusBar) SetTheme(theme *styles.Theme) {
	s.theme = theme
	s.help.Styles.ShortKey = theme.ShortcutKey
	s.help.Styles.ShortDesc = theme.ShortcutDesc
	s.help.Styles.ShortSeparator = theme.Muted
	s.help.Styles.Ellipsis = theme.Muted
}

// SetKeys sets the bindings shown in the help line.
func (s *StatusBar) SetKeys(keys help.KeyMap) {
	s.keys = keys
}

// SetWidth updates the width; the help line is cut with an ellipsis.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
	s.help.Width = width - 2
}

// SetMessage replaces the status line.
func (s *StatusBar) SetMessage(kind styles.StatusKind, message string) {
	s.kind = kind
	s.message = message
}

// Clear removes the status line.
func (s *StatusBar) Clear() {
	s.message = ""
	s.kind = styles.StatusInfo
}

// Message returns the current status text and kind.
func (s *StatusBar) Message() (styles.StatusKind, string) {
	return s.kind, s.message
}

// View renders the status bar.
func (s *StatusBar) View() string {
	var lines []string
	if s.message != "" {
		lines = append(lines, s.theme.RenderStatus(s.kind, s.message))
	}
	if s.ShowHelp && s.keys != nil {
		lines = append(lines, s.help.View(s.keys))
	}
	if len(lines) == 0 {
		return ""
	}
	return s.theme.StatusBar.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
