// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jeranaias/rbacdash/internal/rbac"
	"github.com/jeranaias/rbacdash/internal/util"
)

// =============================================================================
// SHELL
// =============================================================================

// ConfirmFunc asks a yes/no question before a delete.
type ConfirmFunc func(question string) (bool, error)

// Shell executes line commands against a directory. It is the text
// front-end counterpart of the dashboard and applies the same validation.
type Shell struct {
	dir       *rbac.Directory
	validator *rbac.Validator
	out       io.Writer
	confirm   ConfirmFunc
	log       zerolog.Logger
}

// ShellOption configures a Shell.
type ShellOption func(*Shell)

// WithConfirm sets the delete confirmation prompt. Without one, deletes
// need --yes.
func WithConfirm(fn ConfirmFunc) ShellOption {
	return func(s *Shell) { s.confirm = fn }
}

// WithShellLogger sets the logger for validation events.
func WithShellLogger(log zerolog.Logger) ShellOption {
	return func(s *Shell) { s.log = log }
}

// NewShell creates a shell writing to out.
func NewShell(dir *rbac.Directory, validator *rbac.Validator, out io.Writer, opts ...ShellOption) *Shell {
	s := &Shell{dir: dir, validator: validator, out: out, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// shellCommands lists the command words, in help order.
var shellCommands = []struct {
	name  string
	usage string
}{
	{"users", "users                                        list users"},
	{"roles", "roles                                        list roles"},
	{"add-user", "add-user --name N --email E --role R         create a user"},
	{"edit-user", "edit-user ID [--name N] [--email E] [--role R] update a user"},
	{"delete-user", "delete-user ID [--yes]                       delete a user"},
	{"add-role", "add-role --name N --perms read,write         create a role"},
	{"edit-role", "edit-role ID [--name N] [--perms P,...]      update a role"},
	{"delete-role", "delete-role ID [--yes]                       delete a role"},
	{"policies", "policies                                     show the active policies"},
	{"help", "help                                         show this list"},
	{"quit", "quit                                         leave the shell"},
}

// CommandNames returns the shell's command words.
func CommandNames() []string {
	names := make([]string, len(shellCommands))
	for i, c := range shellCommands {
		names[i] = c.name
	}
	return names
}

// Exec runs one command line. quit reports that the shell should exit.
func (s *Shell) Exec(line string) (quit bool, err error) {
	tokens, err := splitLine(line)
	if err != nil {
		return false, usageErrorf("%v", err)
	}
	if len(tokens) == 0 {
		return false, nil
	}

	args := NewArgParser(tokens)
	switch strings.ToLower(args.Subcommand()) {
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		s.help()
	case "users", "ls":
		s.listUsers()
	case "roles":
		s.listRoles()
	case "policies":
		s.policies()
	case "add-user":
		err = s.addUser(args)
	case "edit-user":
		err = s.editUser(args)
	case "delete-user":
		err = s.deleteUser(args)
	case "add-role":
		err = s.addRole(args)
	case "edit-role":
		err = s.editRole(args)
	case "delete-role":
		err = s.deleteRole(args)
	case "":
		err = usageErrorf("expected a command, got %q", tokens[0])
	default:
		err = usageErrorf("unknown command %q (type help)", args.Subcommand())
	}
	return false, err
}

func (s *Shell) help() {
	fmt.Fprintln(s.out, "Commands:")
	for _, c := range shellCommands {
		fmt.Fprintln(s.out, "  "+c.usage)
	}
}

func (s *Shell) policies() {
	p := s.dir.Policies()
	fmt.Fprintf(s.out, "id_strategy        %s\n", p.IDStrategy)
	fmt.Fprintf(s.out, "role_delete_policy %s\n", p.DeletePolicy)
	fmt.Fprintf(s.out, "edit_uniqueness    %s\n", s.validator.EditUniqueness())
}

// =============================================================================
// LISTING
// =============================================================================

func (s *Shell) listUsers() {
	users := s.dir.Users()
	if len(users) == 0 {
		fmt.Fprintln(s.out, "No users.")
		return
	}
	rows := make([][]string, len(users))
	for i, u := range users {
		role := u.Role
		if !s.dir.RoleExists(u.Role) {
			role += " (missing)"
		}
		rows[i] = []string{strconv.Itoa(u.ID), u.Name, u.Email, role, u.Status}
	}
	s.table([]string{"ID", "Name", "Email", "Role", "Status"}, []int{4, 20, 28, 18, 8}, rows)
}

func (s *Shell) listRoles() {
	roles := s.dir.Roles()
	if len(roles) == 0 {
		fmt.Fprintln(s.out, "No roles.")
		return
	}
	rows := make([][]string, len(roles))
	for i, r := range roles {
		rows[i] = []string{strconv.Itoa(r.ID), r.Name, rbac.JoinPermissions(r.Permissions)}
	}
	s.table([]string{"ID", "Role", "Permissions"}, []int{4, 18, 0}, rows)
}

// table writes rows in fixed-width columns; a zero width leaves the last
// column unpadded.
func (s *Shell) table(headers []string, widths []int, rows [][]string) {
	line := func(cells []string) {
		parts := make([]string, len(cells))
		for i, c := range cells {
			if widths[i] > 0 {
				c = util.PadRight(c, widths[i])
			}
			parts[i] = c
		}
		fmt.Fprintln(s.out, strings.TrimRight(strings.Join(parts, "  "), " "))
	}
	line(headers)
	for _, r := range rows {
		line(r)
	}
}

// =============================================================================
// USER COMMANDS
// =============================================================================

func (s *Shell) addUser(args *ArgParser) error {
	in := rbac.UserInput{
		Name:  args.Flag("name"),
		Email: args.Flag("email"),
		Role:  args.Flag("role"),
	}
	if err := s.checkUser(in); err != nil {
		return err
	}
	in.Name = strings.TrimSpace(in.Name)
	u := s.dir.AddUser(in)
	fmt.Fprintf(s.out, "Created user %s (id %d)\n", u.Name, u.ID)
	return nil
}

func (s *Shell) editUser(args *ArgParser) error {
	id, err := parseID(args, "edit-user ID [--name N] [--email E] [--role R]")
	if err != nil {
		return err
	}
	u, ok := s.dir.User(id)
	if !ok {
		fmt.Fprintf(s.out, "No user with id %d; nothing changed.\n", id)
		return nil
	}

	in := u.Input()
	if v, ok := args.LookupFlag("name"); ok {
		in.Name = v
	}
	if v, ok := args.LookupFlag("email"); ok {
		in.Email = v
	}
	if v, ok := args.LookupFlag("role"); ok {
		in.Role = v
	}
	if err := s.checkUser(in); err != nil {
		return err
	}

	u.Name, u.Email, u.Role = strings.TrimSpace(in.Name), in.Email, in.Role
	s.dir.UpdateUser(id, u)
	fmt.Fprintf(s.out, "Updated user %s\n", u.Name)
	return nil
}

// checkUser validates in. The role must also exist, as it would when picked
// from the dashboard's list.
func (s *Shell) checkUser(in rbac.UserInput) error {
	errs := s.validator.User(in)
	if errs.Get(rbac.FieldRole) == "" && !s.dir.RoleExists(in.Role) {
		errs[rbac.FieldRole] = fmt.Sprintf("Unknown role %q", in.Role)
	}
	return s.failed("user", errs)
}

func (s *Shell) deleteUser(args *ArgParser) error {
	id, err := parseID(args, "delete-user ID [--yes]")
	if err != nil {
		return err
	}
	u, ok := s.dir.User(id)
	if !ok {
		fmt.Fprintf(s.out, "No user with id %d; nothing changed.\n", id)
		return nil
	}
	if ok, err := s.confirmed(args, fmt.Sprintf("Delete user %s (id %d)?", u.Name, id)); err != nil || !ok {
		return err
	}

	s.dir.DeleteUser(id)
	fmt.Fprintf(s.out, "Deleted user %s\n", u.Name)
	return nil
}

// =============================================================================
// ROLE COMMANDS
// =============================================================================

func (s *Shell) addRole(args *ArgParser) error {
	perms, err := rbac.ParsePermissionList(args.Flag("perms"))
	if err != nil {
		return err
	}
	in := rbac.RoleInput{Name: args.Flag("name"), Permissions: perms}
	if err := s.failed("role", s.validator.Role(in, s.dir.Roles(), 0)); err != nil {
		return err
	}
	in.Name = strings.TrimSpace(in.Name)
	r := s.dir.AddRole(in)
	fmt.Fprintf(s.out, "Created role %s (id %d): %s\n", r.Name, r.ID, rbac.JoinPermissions(r.Permissions))
	return nil
}

func (s *Shell) editRole(args *ArgParser) error {
	id, err := parseID(args, "edit-role ID [--name N] [--perms P,...]")
	if err != nil {
		return err
	}
	r, ok := s.dir.Role(id)
	if !ok {
		fmt.Fprintf(s.out, "No role with id %d; nothing changed.\n", id)
		return nil
	}

	in := r.Input()
	if v, ok := args.LookupFlag("name"); ok {
		in.Name = v
	}
	if v, ok := args.LookupFlag("perms"); ok {
		if in.Permissions, err = rbac.ParsePermissionList(v); err != nil {
			return err
		}
	}
	if err := s.failed("role", s.validator.Role(in, s.dir.Roles(), id)); err != nil {
		return err
	}

	updated := rbac.Role{ID: id, Name: strings.TrimSpace(in.Name), Permissions: rbac.NormalizePermissions(in.Permissions)}
	s.dir.UpdateRole(id, updated)
	fmt.Fprintf(s.out, "Updated role %s: %s\n", updated.Name, rbac.JoinPermissions(updated.Permissions))
	return nil
}

func (s *Shell) deleteRole(args *ArgParser) error {
	id, err := parseID(args, "delete-role ID [--yes]")
	if err != nil {
		return err
	}
	r, ok := s.dir.Role(id)
	if !ok {
		fmt.Fprintf(s.out, "No role with id %d; nothing changed.\n", id)
		return nil
	}
	if ok, err := s.confirmed(args, fmt.Sprintf("Delete role %s (id %d)?", r.Name, id)); err != nil || !ok {
		return err
	}

	res, err := s.dir.DeleteRole(id)
	if err != nil {
		if errors.Is(err, rbac.ErrRoleInUse) {
			return fmt.Errorf("cannot delete role %s: %w", r.Name, err)
		}
		return err
	}

	fmt.Fprintf(s.out, "Deleted role %s\n", r.Name)
	for _, u := range res.Orphaned {
		fmt.Fprintf(s.out, "  user %s now references a missing role\n", u.Name)
	}
	for _, u := range res.Cascaded {
		fmt.Fprintf(s.out, "  removed user %s\n", u.Name)
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Shell) failed(form string, errs rbac.FieldErrors) error {
	if errs.Empty() {
		return nil
	}
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	s.log.Warn().Str("form", form).Strs("fields", fields).Str("source", "shell").Msg("validation_failed")
	return errs
}

// confirmed reports whether a delete may go ahead. --yes skips the prompt.
func (s *Shell) confirmed(args *ArgParser, question string) (bool, error) {
	if args.BoolFlag("yes") || args.BoolFlag("y") {
		return true, nil
	}
	if s.confirm == nil {
		return false, usageErrorf("refusing to delete without --yes")
	}
	ok, err := s.confirm(question)
	if err != nil {
		return false, err
	}
	if !ok {
		fmt.Fprintln(s.out, "Cancelled.")
	}
	return ok, nil
}

func parseID(args *ArgParser, usage string) (int, error) {
	raw := args.Positional(1)
	if raw == "" {
		return 0, usageErrorf("%s", usage)
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, usageErrorf("invalid id %q", raw)
	}
	return id, nil
}

// splitLine splits a command line into words. Single and double quotes
// group words; a backslash escapes the next character outside single quotes.
func splitLine(line string) ([]string, error) {
	var (
		words   []string
		cur     strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)

	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inWord = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inWord = true
		case r == ' ' || r == '\t':
			if inWord {
				words = append(words, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}

	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if escaped {
		return nil, errors.New("trailing backslash")
	}
	if inWord {
		words = append(words, cur.String())
	}
	return words, nil
}
