// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rbacdash/internal/rbac"
	"github.com/jeranaias/rbacdash/internal/ui/styles"
)

// =============================================================================
// MODAL STATE
// =============================================================================

// ModalState is the state of a view's create/edit modal.
type ModalState int

const (
	ModalClosed ModalState = iota
	ModalCreate
	ModalEdit
)

// String returns the state name.
func (s ModalState) String() string {
	switch s {
	case ModalCreate:
		return "open-create"
	case ModalEdit:
		return "open-edit"
	default:
		return "closed"
	}
}

// IsOpen reports whether the modal is shown.
func (s ModalState) IsOpen() bool {
	return s != ModalClosed
}

// =============================================================================
// FORM HELPERS
// =============================================================================

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 36
	ti.Prompt = "> "
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

// wrapFocus moves focus by delta within count fields.
func wrapFocus(focus, delta, count int) int {
	return ((focus+delta)%count + count) % count
}

func fieldNames(errs rbac.FieldErrors) []string {
	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type formView struct {
	theme *styles.Theme
	b     strings.Builder
}

func (f *formView) title(s string) {
	f.b.WriteString(f.theme.ModalTitle.Render(s))
	f.b.WriteString("\n")
}

func (f *formView) label(s string, focused bool) {
	if focused {
		f.b.WriteString(f.theme.FieldLabelFocused.Render(s))
	} else {
		f.b.WriteString(f.theme.FieldLabel.Render(s))
	}
	f.b.WriteString("\n")
}

func (f *formView) line(s string) {
	f.b.WriteString(s)
	f.b.WriteString("\n")
}

func (f *formView) fieldError(msg string) {
	if msg != "" {
		f.b.WriteString(f.theme.FieldError.Render(msg))
		f.b.WriteString("\n")
	}
	f.b.WriteString("\n")
}

func (f *formView) buttons(submit string, submitFocused, cancelFocused bool) {
	ok := f.theme.Button.MarginRight(1).Render(submit)
	if submitFocused {
		ok = f.theme.ButtonActive.MarginRight(1).Render(submit)
	}
	cancel := f.theme.Button.Render("Cancel")
	if cancelFocused {
		cancel = f.theme.ButtonActive.Render("Cancel")
	}
	f.b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, ok, cancel))
}

func (f *formView) render(width int) string {
	boxWidth := 48
	if width > 0 && width-6 < boxWidth {
		boxWidth = width - 6
	}
	if boxWidth < 30 {
		boxWidth = 30
	}
	return f.theme.ModalBox.Width(boxWidth).Render(f.b.String())
}
