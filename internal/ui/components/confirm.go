// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rbacdash/internal/ui/styles"
)

// =============================================================================
// CONFIRM DIALOG
// =============================================================================

// ConfirmRequest describes what the dialog asks about. Payload travels back
// untouched in the response so the caller knows what was confirmed.
type ConfirmRequest struct {
	Title        string
	Message      string
	ConfirmLabel string
	Payload      any
}

// ConfirmResponseMsg is sent when the dialog closes.
type ConfirmResponseMsg struct {
	Request   ConfirmRequest
	Confirmed bool
}

// Button options
const (
	ButtonConfirm = 0
	ButtonCancel  = 1
	ButtonCount   = 2
)

// ConfirmDialog is a blocking yes/no modal used before destructive actions.
// While visible it consumes every key press.
type ConfirmDialog struct {
	req      ConfirmRequest
	visible  bool
	selected int
	width    int
	height   int

	theme *styles.Theme
}

// NewConfirmDialog creates a hidden dialog.
func NewConfirmDialog(theme *styles.Theme) *ConfirmDialog {
	return &ConfirmDialog{
		theme:    theme,
		selected: ButtonCancel,
	}
}

// =============================================================================
// CONFIRM DIALOG METHODS
// =============================================================================

// Show displays the dialog. Cancel starts selected.
func (d *ConfirmDialog) Show(req ConfirmRequest) {
	if req.ConfirmLabel == "" {
		req.ConfirmLabel = "Delete"
	}
	d.req = req
	d.visible = true
	d.selected = ButtonCancel
}

// Hide hides the dialog without answering.
func (d *ConfirmDialog) Hide() {
	d.visible = false
	d.req = ConfirmRequest{}
}

// IsVisible returns whether the dialog is visible.
func (d *ConfirmDialog) IsVisible() bool {
	return d.visible
}

// Selected returns the highlighted button.
func (d *ConfirmDialog) Selected() int {
	return d.selected
}

// SetSize updates the dialog dimensions.
func (d *ConfirmDialog) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// SetTheme switches the theme, e.g. after a config reload.
func (d *ConfirmDialog) SetTheme(theme *styles.Theme) {
	d.theme = theme
}

// =============================================================================
// BUBBLE TEA METHODS
// =============================================================================

// Update handles key events. It reports whether the message was consumed.
func (d *ConfirmDialog) Update(msg tea.Msg) (tea.Cmd, bool) {
	if !d.visible {
		return nil, false
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, false
	}

	switch keyMsg.String() {
	case "left", "h", "right", "l", "tab", "shift+tab":
		d.selected = (d.selected + 1) % ButtonCount

	case "enter", " ":
		return d.answer(d.selected == ButtonConfirm), true

	case "esc", "n", "N":
		return d.answer(false), true

	case "y", "Y":
		return d.answer(true), true
	}

	// Modal: nothing behind the dialog sees the key.
	return nil, true
}

func (d *ConfirmDialog) answer(confirmed bool) tea.Cmd {
	req := d.req
	d.Hide()
	return func() tea.Msg {
		return ConfirmResponseMsg{Request: req, Confirmed: confirmed}
	}
}

// =============================================================================
// VIEW RENDERING
// =============================================================================

// View renders the dialog, centered when a size is known.
func (d *ConfirmDialog) View() string {
	if !d.visible {
		return ""
	}

	boxWidth := 50
	if d.width > 0 && d.width < 60 {
		boxWidth = d.width - 6
	}
	if boxWidth < 30 {
		boxWidth = 30
	}

	var content strings.Builder
	title := d.req.Title
	if title == "" {
		title = "Confirm"
	}
	content.WriteString(d.theme.ModalTitle.Render(title))
	content.WriteString("\n")
	content.WriteString(d.theme.Renderer().NewStyle().Width(boxWidth - 6).Render(d.req.Message))
	content.WriteString("\n\n")
	content.WriteString(d.renderButtons())
	content.WriteString("\n\n")
	content.WriteString(d.theme.Muted.Render("y=Yes  n/Esc=No  Tab=Switch"))

	box := d.theme.ModalBox.
		BorderForeground(styles.Rose).
		Width(boxWidth).
		Render(content.String())

	if d.width > 0 && d.height > 0 {
		return lipgloss.Place(d.width, d.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}

func (d *ConfirmDialog) renderButtons() string {
	confirm := d.theme.Button.MarginRight(1).Render(d.req.ConfirmLabel)
	if d.selected == ButtonConfirm {
		confirm = d.theme.ButtonDanger.MarginRight(1).Render(d.req.ConfirmLabel)
	}

	cancel := d.theme.Button.Render("Cancel")
	if d.selected == ButtonCancel {
		cancel = d.theme.ButtonActive.Render("Cancel")
	}

	return lipgloss.JoinHorizontal(lipgloss.Center, confirm, cancel)
}
