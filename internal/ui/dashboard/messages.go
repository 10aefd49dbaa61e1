// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rbacdash/internal/config"
	"github.com/jeranaias/rbacdash/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// ConfigReloadedMsg carries a configuration re-read from disk. Err is set
// when the file could not be loaded; the running configuration is kept then.
type ConfigReloadedMsg struct {
	Config *config.Config
	Err    error
}

// StatusMsg replaces the status line.
type StatusMsg struct {
	Kind styles.StatusKind
	Text string
}

// entityKind names what a delete request targets.
type entityKind int

const (
	entityUser entityKind = iota
	entityRole
)

func (k entityKind) String() string {
	if k == entityRole {
		return "role"
	}
	return "user"
}

// deleteRequestMsg asks the container to confirm and perform a delete.
type deleteRequestMsg struct {
	Kind entityKind
	ID   int
	Name string
}

func status(kind styles.StatusKind, text string) tea.Cmd {
	return func() tea.Msg {
		return StatusMsg{Kind: kind, Text: text}
	}
}

func requestDelete(kind entityKind, id int, name string) tea.Cmd {
	return func() tea.Msg {
		return deleteRequestMsg{Kind: kind, ID: id, Name: name}
	}
}
