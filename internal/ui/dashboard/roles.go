// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jeranaias/rbacdash/internal/rbac"
	"github.com/jeranaias/rbacdash/internal/ui/components"
	"github.com/jeranaias/rbacdash/internal/ui/keyscope"
	"github.com/jeranaias/rbacdash/internal/ui/styles"
)

// RoleActions is what the role view needs from the container.
type RoleActions interface {
	Roles() []rbac.Role
	AddRole(in rbac.RoleInput) rbac.Role
	UpdateRole(id int, r rbac.Role) bool
}

// RoleModalOwner is the key scope owner held while the role modal is open.
const RoleModalOwner = "role-modal"

// Focus order of the role form: name, one entry per permission, buttons.
var (
	roleFocusName   = 0
	roleFocusSubmit = 1 + len(rbac.AllPermissions())
	roleFocusCancel = roleFocusSubmit + 1
	roleFocusCount  = roleFocusCancel + 1
)

// =============================================================================
// ROLE VIEW
// =============================================================================

// RoleView lists roles and owns the role create/edit modal. While the modal
// is open it holds a key scope subscription that maps Esc to close and Enter
// to submit, whatever field has focus.
type RoleView struct {
	actions   RoleActions
	validator *rbac.Validator
	scope     *keyscope.Registry
	sub       *keyscope.Subscription
	log       zerolog.Logger
	keys      KeyMap
	form      FormKeyMap
	theme     *styles.Theme

	table *components.Table
	perms []rbac.Permission

	state     ModalState
	editingID int
	name      textinput.Model
	selected  []rbac.Permission
	focus     int
	errs      rbac.FieldErrors

	width int
}

// NewRoleView creates the role view. Modal key bindings are registered in scope.
func NewRoleView(actions RoleActions, validator *rbac.Validator, scope *keyscope.Registry, theme *styles.Theme, log zerolog.Logger) *RoleView {
	v := &RoleView{
		actions:   actions,
		validator: validator,
		scope:     scope,
		log:       log,
		keys:      DefaultKeyMap(),
		form:      DefaultFormKeyMap(),
		theme:     theme,
		table: components.NewTable(theme,
			components.Column{Title: "Role", Width: 18},
			components.Column{Title: "Permissions"},
			components.Column{Title: "Actions", Width: 16, Optional: true},
		),
		perms: rbac.AllPermissions(),
		errs:  rbac.FieldErrors{},
	}
	v.table.Empty = "No roles. Press a to add one."
	v.resetForm()
	v.Refresh()
	return v
}

// State returns the modal state.
func (v *RoleView) State() ModalState { return v.state }

// Errors returns the field errors of the last submit.
func (v *RoleView) Errors() rbac.FieldErrors { return v.errs }

// Subscribed reports whether the modal key bindings are registered.
func (v *RoleView) Subscribed() bool { return v.sub.Active() }

// SetTheme switches the theme.
func (v *RoleView) SetTheme(theme *styles.Theme) {
	v.theme = theme
	v.table.SetTheme(theme)
}

// SetSize updates the table layout.
func (v *RoleView) SetSize(width int, narrow bool) {
	v.width = width
	v.table.Width = width
	v.table.Narrow = narrow
}

// Selected returns the role under the cursor.
func (v *RoleView) Selected() (rbac.Role, bool) {
	roles := v.actions.Roles()
	if v.table.Selected < 0 || v.table.Selected >= len(roles) {
		return rbac.Role{}, false
	}
	return roles[v.table.Selected], true
}

// Refresh rebuilds the table from the store.
func (v *RoleView) Refresh() {
	roles := v.actions.Roles()
	rows := make([]components.Row, len(roles))
	for i, r := range roles {
		rows[i] = components.Row{
			{Text: r.Name, Kind: components.CellBadge},
			{Text: rbac.JoinPermissions(r.Permissions)},
			{Text: "e edit  d delete"},
		}
	}
	v.table.SetRows(rows)
}

// =============================================================================
// MODAL TRANSITIONS
// =============================================================================

// OpenCreate opens an empty form.
func (v *RoleView) OpenCreate() tea.Cmd {
	v.resetForm()
	v.state = ModalCreate
	v.acquire()
	return v.setFocus(roleFocusName)
}

// OpenEdit opens the form pre-filled with r.
func (v *RoleView) OpenEdit(r rbac.Role) tea.Cmd {
	v.resetForm()
	v.state = ModalEdit
	v.editingID = r.ID
	v.name.SetValue(r.Name)
	v.selected = append([]rbac.Permission(nil), r.Permissions...)
	v.acquire()
	return v.setFocus(roleFocusName)
}

// Close closes the modal, discards the form and drops the key bindings.
func (v *RoleView) Close() {
	v.release()
	v.state = ModalClosed
	v.resetForm()
}

// Teardown drops the key bindings when the view goes away.
func (v *RoleView) Teardown() {
	v.release()
	v.state = ModalClosed
}

func (v *RoleView) acquire() {
	v.sub = v.scope.Acquire(RoleModalOwner, v.handleModalKey)
}

func (v *RoleView) release() {
	v.sub.Release()
	v.sub = nil
}

func (v *RoleView) handleModalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if !v.state.IsOpen() {
		return nil, false
	}
	switch {
	case key.Matches(msg, v.form.Cancel):
		v.Close()
		return nil, true
	case key.Matches(msg, v.form.Submit):
		// Enter on the Cancel button cancels.
		if v.focus == roleFocusCancel {
			v.Close()
			return nil, true
		}
		return v.submit(), true
	}
	return nil, false
}

func (v *RoleView) resetForm() {
	v.editingID = 0
	v.name = newInput("Role name", 48)
	v.selected = nil
	v.focus = roleFocusName
	v.errs = rbac.FieldErrors{}
}

func (v *RoleView) setFocus(focus int) tea.Cmd {
	v.focus = focus
	v.name.Blur()
	if focus == roleFocusName {
		return v.name.Focus()
	}
	return nil
}

// focusedPermission returns the permission whose checkbox has focus.
func (v *RoleView) focusedPermission() (rbac.Permission, bool) {
	i := v.focus - 1
	if i < 0 || i >= len(v.perms) {
		return "", false
	}
	return v.perms[i], true
}

// submit validates the form and applies it. On failure the modal stays open
// with the field errors set.
func (v *RoleView) submit() tea.Cmd {
	in := rbac.RoleInput{Name: v.name.Value(), Permissions: v.selected}
	errs := v.validator.Role(in, v.actions.Roles(), v.editingID)
	if !errs.Empty() {
		v.errs = errs
		v.log.Warn().Str("form", "role").Strs("fields", fieldNames(errs)).Msg("validation_failed")
		return nil
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Permissions = rbac.NormalizePermissions(in.Permissions)

	var cmd tea.Cmd
	if v.state == ModalEdit {
		r := rbac.Role{ID: v.editingID, Name: in.Name, Permissions: in.Permissions}
		if v.actions.UpdateRole(r.ID, r) {
			cmd = status(styles.StatusSuccess, "Updated role "+r.Name)
		} else {
			cmd = status(styles.StatusWarning, "Role no longer exists")
		}
	} else {
		r := v.actions.AddRole(in)
		cmd = status(styles.StatusSuccess, "Created role "+r.Name)
	}

	v.Close()
	v.Refresh()
	return cmd
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles a key press for the list or, while open, the modal. Esc and
// Enter never reach here while the modal is open; the subscription takes them.
func (v *RoleView) Update(msg tea.KeyMsg) tea.Cmd {
	if v.state.IsOpen() {
		return v.updateForm(msg)
	}

	switch {
	case key.Matches(msg, v.keys.Up):
		v.table.MoveUp()
	case key.Matches(msg, v.keys.Down):
		v.table.MoveDown()
	case key.Matches(msg, v.keys.Add):
		return v.OpenCreate()
	case key.Matches(msg, v.keys.Edit):
		if r, ok := v.Selected(); ok {
			return v.OpenEdit(r)
		}
	case key.Matches(msg, v.keys.Delete):
		if r, ok := v.Selected(); ok {
			return requestDelete(entityRole, r.ID, r.Name)
		}
	}
	return nil
}

func (v *RoleView) updateForm(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, v.form.NextField):
		return v.setFocus(wrapFocus(v.focus, 1, roleFocusCount))
	case key.Matches(msg, v.form.PrevField):
		return v.setFocus(wrapFocus(v.focus, -1, roleFocusCount))
	}

	if v.focus == roleFocusName {
		var cmd tea.Cmd
		v.name, cmd = v.name.Update(msg)
		return cmd
	}
	if p, ok := v.focusedPermission(); ok && key.Matches(msg, v.form.Toggle) {
		v.selected = rbac.TogglePermission(v.selected, p)
	}
	return nil
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the role table.
func (v *RoleView) View() string {
	return v.table.View()
}

// ModalView renders the open modal.
func (v *RoleView) ModalView() string {
	if !v.state.IsOpen() {
		return ""
	}

	f := &formView{theme: v.theme}
	submit := "Create"
	if v.state == ModalEdit {
		f.title("Edit Role")
		submit = "Update"
	} else {
		f.title("Add Role")
	}

	f.label("Role Name", v.focus == roleFocusName)
	f.line(v.name.View())
	f.fieldError(v.errs.Get(rbac.FieldName))

	f.label("Permissions", v.focus > roleFocusName && v.focus < roleFocusSubmit)
	for i, p := range v.perms {
		box := styles.CheckboxOff
		if rbac.HasPermission(v.selected, p) {
			box = styles.CheckboxOn
		}
		style := v.theme.Option
		if v.focus == i+1 {
			style = v.theme.OptionFocused
		}
		f.line(style.Render(box + " " + p.String()))
	}
	f.fieldError(v.errs.Get(rbac.FieldPermissions))

	f.buttons(submit, v.focus == roleFocusSubmit, v.focus == roleFocusCancel)
	return f.render(v.width)
}
