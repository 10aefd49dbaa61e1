// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme modes accepted by NewTheme.
const (
	ModeAuto  = "auto"
	ModeDark  = "dark"
	ModeLight = "light"
)

// ParseMode validates a theme mode; empty selects ModeAuto.
func ParseMode(s string) (string, error) {
	switch m := strings.ToLower(strings.TrimSpace(s)); m {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeDark, ModeLight:
		return m, nil
	}
	return "", fmt.Errorf("unknown theme %q (want auto, dark or light)", s)
}

// Theme holds all the styled components for the dashboard.
// Styles are bound to a renderer whose background is either detected from the
// terminal (auto) or forced by the configured mode.
type Theme struct {
	// Terminal capabilities
	Mode         string
	IsDark       bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	renderer *lipgloss.Renderer

	// ==========================================================================
	// HEADER AND TABS
	// ==========================================================================

	App            lipgloss.Style
	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style
	Tab            lipgloss.Style
	TabActive      lipgloss.Style

	// ==========================================================================
	// TABLE
	// ==========================================================================

	TableHeader      lipgloss.Style
	TableRow         lipgloss.Style
	TableRowSelected lipgloss.Style
	TableEmpty       lipgloss.Style
	Badge            lipgloss.Style
	Dangling         lipgloss.Style

	// ==========================================================================
	// MODAL AND FORM
	// ==========================================================================

	ModalBox          lipgloss.Style
	ModalTitle        lipgloss.Style
	FieldLabel        lipgloss.Style
	FieldLabelFocused lipgloss.Style
	FieldError        lipgloss.Style
	Option            lipgloss.Style
	OptionFocused     lipgloss.Style
	Button            lipgloss.Style
	ButtonActive      lipgloss.Style
	ButtonDanger      lipgloss.Style

	// ==========================================================================
	// STATUS BAR
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	Muted        lipgloss.Style

	// ==========================================================================
	// ACCESSIBILITY: Status indicator styles with shapes and high contrast
	// ==========================================================================

	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	InfoStyle    lipgloss.Style
}

// NewTheme creates a theme on the default renderer. An invalid mode falls
// back to auto.
func NewTheme(mode string) *Theme {
	return NewThemeFor(lipgloss.DefaultRenderer(), mode)
}

// NewThemeFor creates a theme bound to r. Forcing dark or light changes the
// renderer's background setting.
func NewThemeFor(r *lipgloss.Renderer, mode string) *Theme {
	m, err := ParseMode(mode)
	if err != nil {
		m = ModeAuto
	}

	switch m {
	case ModeDark:
		r.SetHasDarkBackground(true)
	case ModeLight:
		r.SetHasDarkBackground(false)
	}

	t := &Theme{
		Mode:         m,
		IsDark:       r.HasDarkBackground(),
		ColorProfile: r.ColorProfile(),
		renderer:     r,
	}
	t.initStyles()
	return t
}

// Renderer returns the renderer the styles are bound to.
func (t *Theme) Renderer() *lipgloss.Renderer {
	return t.renderer
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	s := t.renderer.NewStyle

	t.App = s().Padding(0, 1)

	// Header
	t.Header = s().
		Background(SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(0, 2)

	t.HeaderTitle = s().
		Bold(true).
		Foreground(Cyan)

	t.HeaderSubtitle = s().
		Foreground(TextSecondary).
		Italic(true)

	t.Tab = s().
		Foreground(TextSecondary).
		Padding(0, 2)

	t.TabActive = s().
		Bold(true).
		Foreground(TextInverse).
		Background(Purple).
		Padding(0, 2)

	// Table
	t.TableHeader = s().
		Bold(true).
		Foreground(TextSecondary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay)

	t.TableRow = s().
		Foreground(TextPrimary)

	t.TableRowSelected = s().
		Bold(true).
		Foreground(TextPrimary).
		Background(SelectionBg)

	t.TableEmpty = s().
		Foreground(TextMuted).
		Italic(true).
		Padding(1, 2)

	t.Badge = s().
		Foreground(Emerald).
		Bold(true)

	t.Dangling = s().
		Foreground(Amber).
		Italic(true)

	// Modal
	t.ModalBox = s().
		Background(Surface).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(1, 2)

	t.ModalTitle = s().
		Bold(true).
		Foreground(Purple).
		MarginBottom(1)

	t.FieldLabel = s().
		Foreground(TextSecondary)

	t.FieldLabelFocused = s().
		Bold(true).
		Foreground(Cyan)

	t.FieldError = s().
		Foreground(Rose)

	t.Option = s().
		Foreground(TextPrimary)

	t.OptionFocused = s().
		Bold(true).
		Foreground(Cyan)

	t.Button = s().
		Foreground(TextSecondary).
		Background(Overlay).
		Padding(0, 2)

	t.ButtonActive = s().
		Bold(true).
		Foreground(TextInverse).
		Background(Cyan).
		Padding(0, 2)

	t.ButtonDanger = s().
		Bold(true).
		Foreground(TextInverse).
		Background(Rose).
		Padding(0, 2)

	// Status bar
	t.StatusBar = s().
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ShortcutKey = s().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = s().
		Foreground(TextMuted)

	t.Muted = s().
		Foreground(TextMuted)

	t.SuccessStyle = s().
		Foreground(SuccessHighContrast).
		Bold(true)

	t.ErrorStyle = s().
		Foreground(ErrorHighContrast).
		Bold(true)

	t.WarningStyle = s().
		Foreground(WarningHighContrast).
		Bold(true)

	t.InfoStyle = s().
		Foreground(InfoHighContrast).
		Bold(true)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
