// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/rbacdash/internal/ui/styles"
)

// =============================================================================
// INFO OVERLAY
// =============================================================================

// InfoOverlay shows a read-only markdown document (help, settings) over the
// dashboard. Any of esc, q, enter or the key that opened it closes it.
type InfoOverlay struct {
	title    string
	markdown string
	rendered string
	toggle   string
	visible  bool
	width    int
	height   int

	theme *styles.Theme
}

// NewInfoOverlay creates a hidden overlay.
func NewInfoOverlay(theme *styles.Theme) *InfoOverlay {
	return &InfoOverlay{theme: theme}
}

// Show renders markdown and displays it. toggle is the key that opened the
// overlay; pressing it again closes it.
func (o *InfoOverlay) Show(title, markdown, toggle string) {
	o.title = title
	o.markdown = markdown
	o.toggle = toggle
	o.visible = true
	o.render()
}

// Hide hides the overlay.
func (o *InfoOverlay) Hide() {
	o.visible = false
}

// IsVisible returns whether the overlay is visible.
func (o *InfoOverlay) IsVisible() bool {
	return o.visible
}

// Title returns the title of the current document.
func (o *InfoOverlay) Title() string {
	return o.title
}

// SetSize updates the dimensions and re-wraps the document.
func (o *InfoOverlay) SetSize(width, height int) {
	o.width = width
	o.height = height
	if o.visible {
		o.render()
	}
}

// SetTheme switches the theme and re-renders.
func (o *InfoOverlay) SetTheme(theme *styles.Theme) {
	o.theme = theme
	if o.visible {
		o.render()
	}
}

func (o *InfoOverlay) wrapWidth() int {
	w := 70
	if o.width > 0 && o.width-10 < w {
		w = o.width - 10
	}
	if w < 30 {
		w = 30
	}
	return w
}

// render converts the markdown with glamour, falling back to the raw text
// when the renderer cannot be built.
func (o *InfoOverlay) render() {
	style := "light"
	if o.theme.IsDark {
		style = "dark"
	}
	if o.theme.ColorProfile == termenv.Ascii {
		style = "notty"
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(o.wrapWidth()),
	)
	if err != nil {
		o.rendered = o.markdown
		return
	}
	out, err := r.Render(o.markdown)
	if err != nil {
		o.rendered = o.markdown
		return
	}
	o.rendered = strings.Trim(out, "\n")
}

// Update consumes key presses while visible.
func (o *InfoOverlay) Update(msg tea.Msg) (tea.Cmd, bool) {
	if !o.visible {
		return nil, false
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, false
	}
	switch k := keyMsg.String(); k {
	case "esc", "q", "enter":
		o.Hide()
	default:
		if k == o.toggle {
			o.Hide()
		}
	}
	return nil, true
}

// View renders the overlay.
func (o *InfoOverlay) View() string {
	if !o.visible {
		return ""
	}

	var content strings.Builder
	content.WriteString(o.theme.ModalTitle.Render(o.title))
	content.WriteString("\n")
	content.WriteString(o.rendered)
	content.WriteString("\n\n")
	content.WriteString(o.theme.Muted.Render("Esc or q to close"))

	box := o.theme.ModalBox.Width(o.wrapWidth() + 6).Render(content.String())
	if o.width > 0 && o.height > 0 {
		return lipgloss.Place(o.width, o.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
