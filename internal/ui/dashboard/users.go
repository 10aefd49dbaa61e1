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
	"github.com/jeranaias/rbacdash/internal/ui/styles"
)

// UserActions is what the user view needs from the container.
type UserActions interface {
	Users() []rbac.User
	RoleNames() []string
	RoleExists(name string) bool
	AddUser(in rbac.UserInput) rbac.User
	UpdateUser(id int, u rbac.User) bool
}

// selectRoleLabel is the empty first choice of the role picker.
const selectRoleLabel = "Select Role"

// Focus order of the user form.
const (
	userFocusName = iota
	userFocusEmail
	userFocusRole
	userFocusSubmit
	userFocusCancel
	userFocusCount
)

// =============================================================================
// USER VIEW
// =============================================================================

// UserView lists users and owns the user create/edit modal.
type UserView struct {
	actions   UserActions
	validator *rbac.Validator
	log       zerolog.Logger
	keys      KeyMap
	form      FormKeyMap
	theme     *styles.Theme

	table *components.Table

	state   ModalState
	editing rbac.User
	name    textinput.Model
	email   textinput.Model
	// roles holds the picker choices; index 0 is the empty choice.
	roles   []string
	roleIdx int
	focus   int
	errs    rbac.FieldErrors

	width int
}

// NewUserView creates the user view.
func NewUserView(actions UserActions, validator *rbac.Validator, theme *styles.Theme, log zerolog.Logger) *UserView {
	v := &UserView{
		actions:   actions,
		validator: validator,
		log:       log,
		keys:      DefaultKeyMap(),
		form:      DefaultFormKeyMap(),
		theme:     theme,
		table: components.NewTable(theme,
			components.Column{Title: "Name"},
			components.Column{Title: "Email", Optional: true},
			components.Column{Title: "Role", Width: 18},
			components.Column{Title: "Status", Width: 8, Optional: true},
			components.Column{Title: "Actions", Width: 16, Optional: true},
		),
		errs: rbac.FieldErrors{},
	}
	v.table.Empty = "No users. Press a to add one."
	v.resetForm()
	v.Refresh()
	return v
}

// State returns the modal state.
func (v *UserView) State() ModalState { return v.state }

// Errors returns the field errors of the last submit.
func (v *UserView) Errors() rbac.FieldErrors { return v.errs }

// Focus returns the focused form field.
func (v *UserView) Focus() int { return v.focus }

// RoleChoices returns the role picker options, the empty choice first.
func (v *UserView) RoleChoices() []string {
	out := append([]string(nil), v.roles...)
	if len(out) > 0 {
		out[0] = selectRoleLabel
	}
	return out
}

// SetTheme switches the theme.
func (v *UserView) SetTheme(theme *styles.Theme) {
	v.theme = theme
	v.table.SetTheme(theme)
}

// SetSize updates the table layout.
func (v *UserView) SetSize(width int, narrow bool) {
	v.width = width
	v.table.Width = width
	v.table.Narrow = narrow
}

// Selected returns the user under the cursor.
func (v *UserView) Selected() (rbac.User, bool) {
	users := v.actions.Users()
	if v.table.Selected < 0 || v.table.Selected >= len(users) {
		return rbac.User{}, false
	}
	return users[v.table.Selected], true
}

// Refresh rebuilds the table from the store. Users whose role no longer
// exists are marked.
func (v *UserView) Refresh() {
	users := v.actions.Users()
	rows := make([]components.Row, len(users))
	for i, u := range users {
		role := components.Cell{Text: u.Role, Kind: components.CellBadge}
		if !v.actions.RoleExists(u.Role) {
			role = components.Cell{Text: u.Role + " (missing)", Kind: components.CellWarn}
		}
		rows[i] = components.Row{
			{Text: u.Name},
			{Text: u.Email},
			role,
			{Text: u.Status},
			{Text: "e edit  d delete"},
		}
	}
	v.table.SetRows(rows)
}

// =============================================================================
// MODAL TRANSITIONS
// =============================================================================

// OpenCreate opens an empty form.
func (v *UserView) OpenCreate() tea.Cmd {
	v.resetForm()
	v.state = ModalCreate
	return v.setFocus(userFocusName)
}

// OpenEdit opens the form pre-filled with u.
func (v *UserView) OpenEdit(u rbac.User) tea.Cmd {
	v.resetForm()
	v.state = ModalEdit
	v.editing = u
	v.name.SetValue(u.Name)
	v.email.SetValue(u.Email)
	for i, name := range v.roles {
		if i > 0 && name == u.Role {
			v.roleIdx = i
			break
		}
	}
	return v.setFocus(userFocusName)
}

// Close closes the modal and discards the form.
func (v *UserView) Close() {
	v.state = ModalClosed
	v.resetForm()
}

func (v *UserView) resetForm() {
	v.editing = rbac.User{}
	v.name = newInput("Full name", 64)
	v.email = newInput("name@example.com", 128)
	v.roles = append([]string{""}, v.actions.RoleNames()...)
	v.roleIdx = 0
	v.focus = userFocusName
	v.errs = rbac.FieldErrors{}
}

func (v *UserView) setFocus(focus int) tea.Cmd {
	v.focus = focus
	v.name.Blur()
	v.email.Blur()
	switch focus {
	case userFocusName:
		return v.name.Focus()
	case userFocusEmail:
		return v.email.Focus()
	}
	return nil
}

func (v *UserView) input() rbac.UserInput {
	return rbac.UserInput{
		Name:  v.name.Value(),
		Email: v.email.Value(),
		Role:  v.roles[v.roleIdx],
	}
}

// submit validates the form and applies it. On failure the modal stays open
// with the field errors set.
func (v *UserView) submit() tea.Cmd {
	in := v.input()
	errs := v.validator.User(in)
	if !errs.Empty() {
		v.errs = errs
		v.log.Warn().Str("form", "user").Strs("fields", fieldNames(errs)).Msg("validation_failed")
		return nil
	}
	in.Name = strings.TrimSpace(in.Name)

	var cmd tea.Cmd
	if v.state == ModalEdit {
		u := v.editing
		u.Name, u.Email, u.Role = in.Name, in.Email, in.Role
		if v.actions.UpdateUser(u.ID, u) {
			cmd = status(styles.StatusSuccess, "Updated user "+u.Name)
		} else {
			cmd = status(styles.StatusWarning, "User "+v.editing.Name+" no longer exists")
		}
	} else {
		u := v.actions.AddUser(in)
		cmd = status(styles.StatusSuccess, "Created user "+u.Name)
	}

	v.Close()
	v.Refresh()
	return cmd
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles a key press for the list or, while open, the modal.
func (v *UserView) Update(msg tea.KeyMsg) tea.Cmd {
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
		if u, ok := v.Selected(); ok {
			return v.OpenEdit(u)
		}
	case key.Matches(msg, v.keys.Delete):
		if u, ok := v.Selected(); ok {
			return requestDelete(entityUser, u.ID, u.Name)
		}
	}
	return nil
}

func (v *UserView) updateForm(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, v.form.Cancel):
		v.Close()
		return nil

	case key.Matches(msg, v.form.Submit):
		switch v.focus {
		case userFocusSubmit:
			return v.submit()
		case userFocusCancel:
			v.Close()
			return nil
		}
		return v.setFocus(v.focus + 1)

	case key.Matches(msg, v.form.NextField):
		return v.setFocus(wrapFocus(v.focus, 1, userFocusCount))

	case key.Matches(msg, v.form.PrevField):
		return v.setFocus(wrapFocus(v.focus, -1, userFocusCount))
	}

	var cmd tea.Cmd
	switch v.focus {
	case userFocusName:
		v.name, cmd = v.name.Update(msg)
	case userFocusEmail:
		v.email, cmd = v.email.Update(msg)
	case userFocusRole:
		if key.Matches(msg, v.form.Choose) {
			delta := 1
			if msg.String() == "left" {
				delta = -1
			}
			v.roleIdx = wrapFocus(v.roleIdx, delta, len(v.roles))
		}
	}
	return cmd
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the user table.
func (v *UserView) View() string {
	return v.table.View()
}

// ModalView renders the open modal.
func (v *UserView) ModalView() string {
	if !v.state.IsOpen() {
		return ""
	}

	f := &formView{theme: v.theme}
	submit := "Create"
	if v.state == ModalEdit {
		f.title("Edit User")
		submit = "Update"
	} else {
		f.title("Add User")
	}

	f.label("Name", v.focus == userFocusName)
	f.line(v.name.View())
	f.fieldError(v.errs.Get(rbac.FieldName))

	f.label("Email", v.focus == userFocusEmail)
	f.line(v.email.View())
	f.fieldError(v.errs.Get(rbac.FieldEmail))

	f.label("Role", v.focus == userFocusRole)
	choice := v.RoleChoices()[v.roleIdx]
	style := v.theme.Option
	if v.focus == userFocusRole {
		style = v.theme.OptionFocused
	}
	f.line(style.Render("< " + choice + " >"))
	f.fieldError(v.errs.Get(rbac.FieldRole))

	f.buttons(submit, v.focus == userFocusSubmit, v.focus == userFocusCancel)
	return f.render(v.width)
}
