// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rbacdash/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Tab is one entry of the view switcher.
type Tab struct {
	Label string
	Count int
}

// Header renders the title bar and the view tabs.
type Header struct {
	Title    string
	Subtitle string
	Tabs     []Tab
	Active   int
	Width    int
	theme    *styles.Theme
}

// NewHeader creates a header with the dashboard title.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title:    "RBAC Dashboard",
		Subtitle: "s settings  ? help",
		Width:    80,
		theme:    theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetTheme switches the theme.
func (h *Header) SetTheme(theme *styles.Theme) {
	h.theme = theme
}

// SetTabs replaces the tabs and the active index.
func (h *Header) SetTabs(tabs []Tab, active int) {
	h.Tabs = tabs
	h.Active = active
}

// View renders the header.
func (h *Header) View() string {
	width := h.Width
	if width < 40 {
		width = 40
	}
	innerWidth := width - 6

	title := h.theme.HeaderTitle.Render("# " + h.Title)
	sub := h.theme.HeaderSubtitle.Render(h.Subtitle)
	gap := innerWidth - lipgloss.Width(title) - lipgloss.Width(sub)
	if gap < 1 {
		gap = 1
	}
	bar := h.theme.Header.Width(width - 2).Render(title + strings.Repeat(" ", gap) + sub)

	if len(h.Tabs) == 0 {
		return bar
	}
	return lipgloss.JoinVertical(lipgloss.Left, bar, h.renderTabs())
}

func (h *Header) renderTabs() string {
	parts := make([]string, len(h.Tabs))
	for i, tab := range h.Tabs {
		label := fmt.Sprintf("%d %s (%d)", i+1, tab.Label, tab.Count)
		if i == h.Active {
			parts[i] = h.theme.TabActive.Render(label)
		} else {
			parts[i] = h.theme.Tab.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}
