// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the bindings active while no modal is open.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Add       key.Binding
	Edit      key.Binding
	Delete    key.Binding
	NextView  key.Binding
	UsersView key.Binding
	RolesView key.Binding
	Settings  key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the default dashboard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "previous row"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "next row"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e/Enter", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d/Del", "delete"),
		),
		NextView: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "switch view"),
		),
		UsersView: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "users"),
		),
		RolesView: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "roles"),
		),
		Settings: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "settings"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q/C-c", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.Delete, k.NextView, k.Help, k.Quit}
}

// FullHelp returns the bindings grouped for the help overlay.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Navigation
		{k.Up, k.Down, k.NextView, k.UsersView, k.RolesView},
		// Actions
		{k.Add, k.Edit, k.Delete},
		// Screens
		{k.Settings, k.Help, k.Quit},
	}
}

// =============================================================================
// FORM KEY MAP
// =============================================================================

// FormKeyMap defines the bindings active inside a user or role modal.
type FormKeyMap struct {
	NextField key.Binding
	PrevField key.Binding
	Choose    key.Binding
	Toggle    key.Binding
	Submit    key.Binding
	Cancel    key.Binding
}

// DefaultFormKeyMap returns the default modal bindings.
func DefaultFormKeyMap() FormKeyMap {
	return FormKeyMap{
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("Tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("S-Tab", "previous field"),
		),
		Choose: key.NewBinding(
			key.WithKeys("left", "right"),
			key.WithHelp("left/right", "choose role"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("Space", "toggle permission"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "save"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "cancel"),
		),
	}
}

// ShortHelp returns the bindings shown while a modal is open.
func (k FormKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Choose, k.Toggle, k.Submit, k.Cancel}
}

// FullHelp returns the modal bindings as one group.
func (k FormKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.NextField, k.PrevField, k.Choose, k.Toggle, k.Submit, k.Cancel}}
}

// =============================================================================
// HELP TEXT
// =============================================================================

// helpMarkdown renders the key maps as the help overlay document.
func helpMarkdown(keys KeyMap, form FormKeyMap) string {
	var b strings.Builder
	b.WriteString("## Dashboard\n\n")
	writeBindings(&b, keys.FullHelp())
	b.WriteString("\n## Forms\n\n")
	writeBindings(&b, form.FullHelp())
	b.WriteString("\nIn the role form Enter saves and Esc closes wherever the cursor is.\n")
	return b.String()
}

func writeBindings(b *strings.Builder, groups [][]key.Binding) {
	b.WriteString("| Key | Action |\n|---|---|\n")
	for _, group := range groups {
		for _, binding := range group {
			h := binding.Help()
			fmt.Fprintf(b, "| `%s` | %s |\n", h.Key, h.Desc)
		}
	}
}
