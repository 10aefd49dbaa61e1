// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"bytes"
	"errors"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/rbacdash/internal/config"
	"github.com/jeranaias/rbacdash/internal/rbac"
	"github.com/jeranaias/rbacdash/internal/ui/styles"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func newTestModel(t *testing.T, cfg *config.Config, opts ...Option) *Model {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.Ascii)

	dir := rbac.NewDirectory(rbac.WithPolicies(cfg.Policies()))
	m := New(cfg, dir, append([]Option{WithRenderer(r)}, opts...)...)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends keys one at a time and feeds every resulting message back in,
// the way the program loop would.
func press(m *Model, keys ...string) {
	for _, k := range keys {
		_, cmd := m.Update(keyMsg(k))
		drain(m, cmd)
	}
}

func drain(m *Model, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case nil, tea.QuitMsg:
	case tea.BatchMsg:
		for _, c := range msg {
			drain(m, c)
		}
	default:
		_, next := m.Update(msg)
		drain(m, next)
	}
}

func statusText(m *Model) string {
	_, text := m.Status()
	return text
}

// =============================================================================
// USER VIEW
// =============================================================================

func TestAddUser_Scenario(t *testing.T) {
	m := newTestModel(t, nil)

	press(m, "a")
	require.Equal(t, ModalCreate, m.Users().State())

	press(m, "Bob", "tab", "bob@x.com", "tab", "right", "right", "tab", "enter")

	assert.Equal(t, ModalClosed, m.Users().State())
	users := m.Directory().Users()
	require.Len(t, users, 3)
	assert.Equal(t, rbac.User{ID: 3, Name: "Bob", Email: "bob@x.com", Role: "User", Status: rbac.StatusActive}, users[2])
	assert.Equal(t, "Created user Bob", statusText(m))
}

func TestAddUser_ValidationKeepsModalOpen(t *testing.T) {
	var buf bytes.Buffer
	m := newTestModel(t, nil, WithLogger(zerolog.New(&buf)))

	press(m, "a", "shift+tab", "shift+tab", "enter")

	assert.Equal(t, ModalCreate, m.Users().State())
	assert.Equal(t, 2, m.Directory().UserCount())
	errs := m.Users().Errors()
	assert.NotEmpty(t, errs.Get(rbac.FieldName))
	assert.NotEmpty(t, errs.Get(rbac.FieldEmail))
	assert.NotEmpty(t, errs.Get(rbac.FieldRole))
	assert.Contains(t, buf.String(), "validation_failed")

	// A malformed email is rejected on its own.
	press(m, "tab", "tab", "Bob", "tab", "bad", "tab", "right", "tab", "enter")
	assert.Equal(t, ModalCreate, m.Users().State())
	assert.Empty(t, m.Users().Errors().Get(rbac.FieldName))
	assert.NotEmpty(t, m.Users().Errors().Get(rbac.FieldEmail))

	// Escape discards the form; reopening starts clean.
	press(m, "esc", "a")
	assert.True(t, m.Users().Errors().Empty())
	assert.Equal(t, "", m.Users().name.Value())
}

func TestRolePickerLeadsWithEmptyChoice(t *testing.T) {
	m := newTestModel(t, nil)
	press(m, "a")
	assert.Equal(t, []string{"Select Role", "Admin", "User"}, m.Users().RoleChoices())
	assert.Contains(t, m.View(), "< Select Role >")
}

func TestEditUser_KeepsIDAndStatus(t *testing.T) {
	m := newTestModel(t, nil)

	press(m, "e")
	require.Equal(t, ModalEdit, m.Users().State())
	assert.Equal(t, "John Doe", m.Users().name.Value())
	assert.Equal(t, "john@example.com", m.Users().email.Value())

	press(m, " Jr", "shift+tab", "shift+tab", "enter")

	u, ok := m.Directory().User(1)
	require.True(t, ok)
	assert.Equal(t, "John Doe Jr", u.Name)
	assert.Equal(t, "Admin", u.Role)
	assert.Equal(t, rbac.StatusActive, u.Status)
	assert.Equal(t, 2, m.Directory().UserCount())
	assert.Equal(t, "Updated user John Doe Jr", statusText(m))
}

func TestDeleteUser_RequiresConfirmation(t *testing.T) {
	m := newTestModel(t, nil)

	press(m, "j", "d")
	require.True(t, m.ConfirmVisible())
	assert.Contains(t, m.View(), "Jane Smith")

	press(m, "n")
	assert.False(t, m.ConfirmVisible())
	assert.Equal(t, 2, m.Directory().UserCount())

	press(m, "d", "y")
	users := m.Directory().Users()
	require.Len(t, users, 1)
	assert.Equal(t, "John Doe", users[0].Name)
	assert.Equal(t, "Deleted user Jane Smith", statusText(m))
}

// =============================================================================
// ROLE VIEW AND KEY SCOPE
// =============================================================================

func TestRoleModal_EnterSubmits(t *testing.T) {
	m := newTestModel(t, nil)

	press(m, "2", "a")
	require.Equal(t, ModalCreate, m.Roles().State())
	assert.True(t, m.Scope().Has(RoleModalOwner))

	press(m, "Ops", "tab", "space", "enter")

	assert.Equal(t, ModalClosed, m.Roles().State())
	roles := m.Directory().Roles()
	require.Len(t, roles, 3)
	assert.Equal(t, "Ops", roles[2].Name)
	assert.Equal(t, []rbac.Permission{rbac.PermRead}, roles[2].Permissions)
	assert.Zero(t, m.Scope().Len())
	assert.False(t, m.Roles().Subscribed())
}

func TestRoleModal_EscapeClosesWithoutSaving(t *testing.T) {
	m := newTestModel(t, nil)
	before := m.Directory().Roles()

	press(m, "2", "a", "Ops", "tab", "space", "esc")

	assert.Equal(t, ModalClosed, m.Roles().State())
	assert.Equal(t, before, m.Directory().Roles())
	assert.Zero(t, m.Scope().Len())
}

func TestRoleModal_EnterOnCancelClosesWithoutSaving(t *testing.T) {
	m := newTestModel(t, nil)
	before := m.Directory().Roles()

	press(m, "2", "a", "Ops", "tab", "space", "tab", "tab", "tab", "tab", "tab", "tab")
	require.Equal(t, ModalCreate, m.Roles().State())
	press(m, "enter")

	assert.Equal(t, ModalClosed, m.Roles().State())
	assert.Equal(t, before, m.Directory().Roles())
	assert.Zero(t, m.Scope().Len())
}

func TestRoleModal_DuplicateNameRejected(t *testing.T) {
	m := newTestModel(t, nil)

	press(m, "2", "a", "admin", "tab", "space", "enter")

	assert.Equal(t, ModalCreate, m.Roles().State())
	assert.Equal(t, rbac.MsgRoleNameTaken, m.Roles().Errors().Get(rbac.FieldName))
	assert.Equal(t, 2, m.Directory().RoleCount())
	assert.True(t, m.Scope().Has(RoleModalOwner))
}

func TestRoleModal_NoPermissionsRejected(t *testing.T) {
	m := newTestModel(t, nil)

	press(m, "2", "a", "Ops", "enter")

	assert.Equal(t, ModalCreate, m.Roles().State())
	assert.NotEmpty(t, m.Roles().Errors().Get(rbac.FieldPermissions))
}

func TestRoleModal_RepeatedCyclesDoNotStack(t *testing.T) {
	m := newTestModel(t, nil)
	press(m, "2")

	for i := 0; i < 5; i++ {
		press(m, "a", "esc")
		require.Zero(t, m.Scope().Len(), "cycle %d left a subscription", i)
	}

	press(m, "a")
	assert.Equal(t, []string{RoleModalOwner}, m.Scope().Owners())
	press(m, "esc", "e")
	assert.Equal(t, []string{RoleModalOwner}, m.Scope().Owners())
}

func TestRoleModal_TeardownReleases(t *testing.T) {
	m := newTestModel(t, nil)
	press(m, "2", "a")
	require.Equal(t, 1, m.Scope().Len())

	m.Teardown()
	assert.Zero(t, m.Scope().Len())
	assert.Equal(t, ModalClosed, m.Roles().State())
}

func TestQuitWhileModalOpenReleases(t *testing.T) {
	m := newTestModel(t, nil)
	press(m, "2", "a")

	_, cmd := m.Update(keyMsg("ctrl+c"))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
	assert.Zero(t, m.Scope().Len())
}

func TestEditRole_Uniqueness(t *testing.T) {
	t.Run("exclude_self", func(t *testing.T) {
		m := newTestModel(t, nil)
		press(m, "2", "e")
		require.Equal(t, ModalEdit, m.Roles().State())

		press(m, "enter")
		assert.Equal(t, ModalClosed, m.Roles().State())
		assert.Equal(t, "Updated role Admin", statusText(m))
	})

	t.Run("strict", func(t *testing.T) {
		cfg := config.Default()
		cfg.RBAC.EditUniqueness = string(rbac.EditStrict)
		m := newTestModel(t, cfg)
		press(m, "2", "e", "enter")

		assert.Equal(t, ModalEdit, m.Roles().State())
		assert.Equal(t, rbac.MsgRoleNameTaken, m.Roles().Errors().Get(rbac.FieldName))
	})
}

func TestEditRole_TogglePermission(t *testing.T) {
	m := newTestModel(t, nil)
	press(m, "2", "j", "e", "tab", "tab", "space", "enter")

	r, ok := m.Directory().Role(2)
	require.True(t, ok)
	assert.Equal(t, []rbac.Permission{rbac.PermRead, rbac.PermWrite}, r.Permissions)
	assert.Contains(t, m.View(), "read, write")
}

// =============================================================================
// ROLE DELETION POLICIES
// =============================================================================

func TestDeleteRole_Policies(t *testing.T) {
	tests := []struct {
		policy    rbac.DeletePolicy
		roles     int
		users     int
		kind      styles.StatusKind
		userTable string
	}{
		{rbac.DeletePolicyIgnore, 1, 2, styles.StatusWarning, "Admin (missing)"},
		{rbac.DeletePolicyBlock, 2, 2, styles.StatusError, "Admin"},
		{rbac.DeletePolicyCascade, 1, 1, styles.StatusSuccess, "Jane Smith"},
	}

	for _, tc := range tests {
		t.Run(string(tc.policy), func(t *testing.T) {
			cfg := config.Default()
			cfg.RBAC.RoleDeletePolicy = string(tc.policy)
			m := newTestModel(t, cfg)

			press(m, "2", "d", "y")

			assert.Equal(t, tc.roles, m.Directory().RoleCount())
			assert.Equal(t, tc.users, m.Directory().UserCount())
			kind, _ := m.Status()
			assert.Equal(t, tc.kind, kind)

			press(m, "1")
			assert.Contains(t, m.View(), tc.userTable)
		})
	}
}

// =============================================================================
// NAVIGATION AND OVERLAYS
// =============================================================================

func TestViewSwitching(t *testing.T) {
	m := newTestModel(t, nil)
	assert.Equal(t, ViewUsers, m.ActiveView())

	press(m, "tab")
	assert.Equal(t, ViewRoles, m.ActiveView())
	press(m, "1")
	assert.Equal(t, ViewUsers, m.ActiveView())
	press(m, "2")
	assert.Equal(t, ViewRoles, m.ActiveView())

	// Keys go to the open form, not the tabs.
	press(m, "1", "a", "1")
	assert.Equal(t, ViewUsers, m.ActiveView())
	assert.Equal(t, "1", m.Users().name.Value())
}

func TestOverlays(t *testing.T) {
	m := newTestModel(t, nil, WithConfigPath("/tmp/rbacdash.toml"))

	press(m, "?")
	assert.Equal(t, "Help", m.OverlayTitle())
	press(m, "a")
	assert.Equal(t, ModalClosed, m.Users().State(), "overlay must swallow keys")
	press(m, "?")
	assert.Equal(t, "", m.OverlayTitle())

	press(m, "s")
	assert.Equal(t, "Settings", m.OverlayTitle())
	assert.Contains(t, m.View(), "rbacdash.toml")
	press(m, "esc")
	assert.Equal(t, "", m.OverlayTitle())
}

func TestSettings_DescribesIDStrategy(t *testing.T) {
	m := newTestModel(t, nil)
	assert.Contains(t, m.settingsMarkdown(), "next unused id")

	cfg := config.Default()
	cfg.RBAC.IDStrategy = string(rbac.IDPositional)
	m = newTestModel(t, cfg)
	assert.Contains(t, m.settingsMarkdown(), "ids can repeat after a delete")
}

func TestView_Main(t *testing.T) {
	m := newTestModel(t, nil)
	view := m.View()
	for _, want := range []string{"RBAC Dashboard", "1 Users (2)", "2 Roles (2)", "John Doe", "jane@example.com"} {
		assert.Contains(t, view, want)
	}

	press(m, "2")
	assert.Contains(t, m.View(), "read, write, delete, manage_users, manage_roles")

	press(m, "a")
	view = m.View()
	assert.Contains(t, view, "Add Role")
	assert.Contains(t, view, "[ ] read")
}

// =============================================================================
// CONFIG RELOAD
// =============================================================================

func TestConfigReload_AppliesPolicies(t *testing.T) {
	m := newTestModel(t, nil)

	cfg := config.Default()
	cfg.UI.Theme = styles.ModeLight
	cfg.RBAC.RoleDeletePolicy = string(rbac.DeletePolicyBlock)
	cfg.RBAC.EditUniqueness = string(rbac.EditStrict)
	m.Update(ConfigReloadedMsg{Config: cfg})

	assert.Equal(t, rbac.DeletePolicyBlock, m.Directory().Policies().DeletePolicy)
	assert.Equal(t, rbac.EditStrict, m.validator.EditUniqueness())
	assert.False(t, m.theme.IsDark)
	assert.Equal(t, "Configuration reloaded", statusText(m))
}

func TestConfigReload_ErrorKeepsRunningConfig(t *testing.T) {
	m := newTestModel(t, nil)

	m.Update(ConfigReloadedMsg{Err: errors.New("bad toml")})

	kind, text := m.Status()
	assert.Equal(t, styles.StatusError, kind)
	assert.Contains(t, text, "bad toml")
	assert.Equal(t, rbac.DeletePolicyIgnore, m.Directory().Policies().DeletePolicy)
}
