// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/jeranaias/rbacdash/internal/config"
	"github.com/jeranaias/rbacdash/internal/rbac"
	"github.com/jeranaias/rbacdash/internal/ui/components"
	"github.com/jeranaias/rbacdash/internal/ui/keyscope"
	"github.com/jeranaias/rbacdash/internal/ui/styles"
)

// View selects which table the dashboard shows.
type View int

const (
	ViewUsers View = iota
	ViewRoles
)

// String returns the view label.
func (v View) String() string {
	if v == ViewRoles {
		return "Roles"
	}
	return "Users"
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the root Bubble Tea model. It owns the directory and routes key
// presses: confirm dialog, info overlay, key scope subscriptions, the open
// modal, global keys and finally the active list, in that order.
type Model struct {
	cfg        *config.Config
	configPath string
	dir        *rbac.Directory
	validator  *rbac.Validator
	scope      *keyscope.Registry
	log        zerolog.Logger

	renderer *lipgloss.Renderer
	theme    *styles.Theme
	keys     KeyMap
	formKeys FormKeyMap

	header    *components.Header
	statusBar *components.StatusBar
	confirm   *components.ConfirmDialog
	overlay   *components.InfoOverlay

	users *UserView
	roles *RoleView
	view  View

	width    int
	height   int
	quitting bool
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger for validation events.
func WithLogger(log zerolog.Logger) Option {
	return func(m *Model) { m.log = log }
}

// WithConfigPath sets the file shown in the settings overlay.
func WithConfigPath(path string) Option {
	return func(m *Model) { m.configPath = path }
}

// WithRenderer renders through r instead of the default renderer.
func WithRenderer(r *lipgloss.Renderer) Option {
	return func(m *Model) { m.renderer = r }
}

// New creates the dashboard over dir. The configuration supplies the theme
// and the edit uniqueness mode; dir is expected to carry the matching policies.
func New(cfg *config.Config, dir *rbac.Directory, opts ...Option) *Model {
	if cfg == nil {
		cfg = config.Default()
	}
	m := &Model{
		cfg:       cfg,
		dir:       dir,
		validator: rbac.NewValidator(),
		scope:     keyscope.New(),
		log:       zerolog.Nop(),
		renderer:  lipgloss.DefaultRenderer(),
		keys:      DefaultKeyMap(),
		formKeys:  DefaultFormKeyMap(),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.validator.SetEditUniqueness(cfg.EditUniqueness())
	m.theme = styles.NewThemeFor(m.renderer, cfg.UI.Theme)

	m.header = components.NewHeader(m.theme)
	m.statusBar = components.NewStatusBar(m.theme)
	m.statusBar.ShowHelp = cfg.UI.ShowHelp
	m.confirm = components.NewConfirmDialog(m.theme)
	m.overlay = components.NewInfoOverlay(m.theme)

	m.users = NewUserView(dir, m.validator, m.theme, m.log)
	m.roles = NewRoleView(dir, m.validator, m.scope, m.theme, m.log)

	m.sync()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// ActiveView returns the selected view.
func (m *Model) ActiveView() View { return m.view }

// Users returns the user view.
func (m *Model) Users() *UserView { return m.users }

// Roles returns the role view.
func (m *Model) Roles() *RoleView { return m.roles }

// Directory returns the directory the dashboard edits.
func (m *Model) Directory() *rbac.Directory { return m.dir }

// Scope returns the key scope registry.
func (m *Model) Scope() *keyscope.Registry { return m.scope }

// Status returns the current status line.
func (m *Model) Status() (styles.StatusKind, string) { return m.statusBar.Message() }

// ConfirmVisible reports whether the delete confirmation is showing.
func (m *Model) ConfirmVisible() bool { return m.confirm.IsVisible() }

// OverlayTitle returns the title of the visible overlay, or "".
func (m *Model) OverlayTitle() string {
	if !m.overlay.IsVisible() {
		return ""
	}
	return m.overlay.Title()
}

// Teardown releases every key scope subscription. Call it when the program exits.
func (m *Model) Teardown() {
	m.roles.Teardown()
	m.users.Close()
	m.scope.ReleaseAll()
}

func (m *Model) modalOpen() bool {
	return m.users.State().IsOpen() || m.roles.State().IsOpen()
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)

	case tea.KeyMsg:
		cmd = m.handleKey(msg)

	case StatusMsg:
		m.statusBar.SetMessage(msg.Kind, msg.Text)

	case deleteRequestMsg:
		m.confirm.Show(components.ConfirmRequest{
			Title:   "Delete " + msg.Kind.String(),
			Message: fmt.Sprintf("Are you sure you want to delete this %s (%s)?", msg.Kind, msg.Name),
			Payload: msg,
		})

	case components.ConfirmResponseMsg:
		if req, ok := msg.Request.Payload.(deleteRequestMsg); ok && msg.Confirmed {
			m.performDelete(req)
		}

	case ConfigReloadedMsg:
		m.applyConfig(msg)
	}

	m.sync()
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}
	if cmd, handled := m.confirm.Update(msg); handled {
		return cmd
	}
	if cmd, handled := m.overlay.Update(msg); handled {
		return cmd
	}
	if cmd, handled := m.scope.Dispatch(msg); handled {
		return cmd
	}
	if m.modalOpen() {
		if m.users.State().IsOpen() {
			return m.users.Update(msg)
		}
		return m.roles.Update(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.overlay.Show("Help", helpMarkdown(m.keys, m.formKeys), "?")
		return nil
	case key.Matches(msg, m.keys.Settings):
		m.overlay.Show("Settings", m.settingsMarkdown(), "s")
		return nil
	case key.Matches(msg, m.keys.NextView):
		m.switchView((m.view + 1) % 2)
		return nil
	case key.Matches(msg, m.keys.UsersView):
		m.switchView(ViewUsers)
		return nil
	case key.Matches(msg, m.keys.RolesView):
		m.switchView(ViewRoles)
		return nil
	case key.Matches(msg, m.keys.Add), key.Matches(msg, m.keys.Edit), key.Matches(msg, m.keys.Delete):
		m.statusBar.Clear()
	}

	if m.view == ViewRoles {
		return m.roles.Update(msg)
	}
	return m.users.Update(msg)
}

func (m *Model) quit() tea.Cmd {
	m.Teardown()
	m.quitting = true
	return tea.Quit
}

func (m *Model) switchView(v View) {
	if m.view != v {
		m.statusBar.Clear()
	}
	m.view = v
}

// performDelete applies a confirmed delete and reports the outcome.
func (m *Model) performDelete(req deleteRequestMsg) {
	switch req.Kind {
	case entityUser:
		if m.dir.DeleteUser(req.ID) {
			m.statusBar.SetMessage(styles.StatusSuccess, "Deleted user "+req.Name)
		} else {
			m.statusBar.SetMessage(styles.StatusWarning, "User "+req.Name+" no longer exists")
		}

	case entityRole:
		res, err := m.dir.DeleteRole(req.ID)
		switch {
		case errors.Is(err, rbac.ErrRoleInUse):
			n := len(m.dir.UsersWithRole(req.Name))
			m.statusBar.SetMessage(styles.StatusError,
				fmt.Sprintf("Role %s is assigned to %s; reassign them first", req.Name, plural(n, "user")))
		case err != nil:
			m.statusBar.SetMessage(styles.StatusError, err.Error())
		case !res.Removed:
			m.statusBar.SetMessage(styles.StatusWarning, "Role "+req.Name+" no longer exists")
		case len(res.Cascaded) > 0:
			m.statusBar.SetMessage(styles.StatusSuccess,
				fmt.Sprintf("Deleted role %s and %s", req.Name, plural(len(res.Cascaded), "user")))
		case len(res.Orphaned) > 0:
			m.statusBar.SetMessage(styles.StatusWarning,
				fmt.Sprintf("Deleted role %s; %s now reference a missing role", req.Name, plural(len(res.Orphaned), "user")))
		default:
			m.statusBar.SetMessage(styles.StatusSuccess, "Deleted role "+req.Name)
		}
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// applyConfig switches theme and policies to a reloaded configuration.
func (m *Model) applyConfig(msg ConfigReloadedMsg) {
	if msg.Err != nil {
		m.statusBar.SetMessage(styles.StatusError, "Config reload failed: "+msg.Err.Error())
		return
	}
	if msg.Config == nil {
		return
	}

	m.cfg = msg.Config
	m.dir.SetPolicies(m.cfg.Policies())
	m.validator.SetEditUniqueness(m.cfg.EditUniqueness())
	m.statusBar.ShowHelp = m.cfg.UI.ShowHelp
	m.setTheme(styles.NewThemeFor(m.renderer, m.cfg.UI.Theme))
	m.setSize(m.width, m.height)
	m.statusBar.SetMessage(styles.StatusInfo, "Configuration reloaded")
}

func (m *Model) setTheme(theme *styles.Theme) {
	m.theme = theme
	m.header.SetTheme(theme)
	m.statusBar.SetTheme(theme)
	m.confirm.SetTheme(theme)
	m.overlay.SetTheme(theme)
	m.users.SetTheme(theme)
	m.roles.SetTheme(theme)
}

func (m *Model) setSize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)

	narrow := m.theme.GetLayoutMode() == styles.LayoutNarrow
	m.header.SetWidth(width)
	m.statusBar.SetWidth(width)
	m.confirm.SetSize(width, height)
	m.overlay.SetSize(width, height)
	m.users.SetSize(width-2, narrow)
	m.roles.SetSize(width-2, narrow)
}

// sync refreshes everything derived from the directory.
func (m *Model) sync() {
	m.users.Refresh()
	m.roles.Refresh()
	m.header.SetTabs([]components.Tab{
		{Label: ViewUsers.String(), Count: m.dir.UserCount()},
		{Label: ViewRoles.String(), Count: m.dir.RoleCount()},
	}, int(m.view))

	if m.modalOpen() {
		m.statusBar.SetKeys(m.formKeys)
	} else {
		m.statusBar.SetKeys(m.keys)
	}
}

// settingsMarkdown describes the effective configuration.
func (m *Model) settingsMarkdown() string {
	path := m.configPath
	if path == "" {
		path = "(built-in defaults)"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Configuration file: `%s`\n\n", path)
	b.WriteString("| Setting | Value |\n|---|---|\n")
	rows := [][2]string{
		{"ui.theme", m.cfg.UI.Theme},
		{"ui.compact", fmt.Sprint(m.cfg.UI.Compact)},
		{"ui.show_help", fmt.Sprint(m.cfg.UI.ShowHelp)},
		{"rbac.id_strategy", m.cfg.RBAC.IDStrategy},
		{"rbac.role_delete_policy", m.cfg.RBAC.RoleDeletePolicy},
		{"rbac.edit_uniqueness", m.cfg.RBAC.EditUniqueness},
		{"log.enabled", fmt.Sprint(m.cfg.Log.Enabled)},
		{"log.level", m.cfg.Log.Level},
		{"watch", fmt.Sprint(m.cfg.Watch)},
	}
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | `%s` |\n", r[0], r[1])
	}
	fmt.Fprintf(&b, "\nIds: %s.\n", idStrategyNote(m.cfg.RBAC.IDStrategy))
	b.WriteString("\nEdit the file to change these; it is reloaded while the dashboard runs when `watch` is on.\n")
	return b.String()
}

func idStrategyNote(strategy string) string {
	if strategy == string(rbac.IDPositional) {
		return "a new record gets the record count plus one, so ids can repeat after a delete"
	}
	return "a new record gets the next unused id, so after a delete it differs from the record count plus one (set `rbac.id_strategy = \"positional\"` for that)"
}

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model. Modals replace the screen while open.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	switch {
	case m.confirm.IsVisible():
		return m.confirm.View()
	case m.overlay.IsVisible():
		return m.overlay.View()
	case m.users.State().IsOpen():
		return m.place(m.users.ModalView())
	case m.roles.State().IsOpen():
		return m.place(m.roles.ModalView())
	}

	body := m.users.View()
	if m.view == ViewRoles {
		body = m.roles.View()
	}

	gap := []string{""}
	if m.cfg.UI.Compact {
		gap = nil
	}
	sections := append([]string{m.header.View()}, gap...)
	sections = append(sections, body)
	sections = append(sections, gap...)
	if bar := m.statusBar.View(); bar != "" {
		sections = append(sections, bar)
	}
	return m.theme.App.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) place(box string) string {
	if m.width <= 0 || m.height <= 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
