// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package rbac

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Form field keys used in FieldErrors.
const (
	FieldName        = "name"
	FieldEmail       = "email"
	FieldRole        = "role"
	FieldPermissions = "permissions"
)

// emailPattern accepts local@domain.tld shaped text with a 2-4 character TLD.
var emailPattern = regexp.MustCompile(`^[\w.-]+@([\w-]+\.)+[\w-]{2,4}$`)

// =============================================================================
// FIELD ERRORS
// =============================================================================

// FieldErrors maps a form field to the message shown next to it.
// An empty map means the form is valid.
type FieldErrors map[string]string

// Empty reports whether there are no errors.
func (e FieldErrors) Empty() bool {
	return len(e) == 0
}

// Get returns the message for field, or "".
func (e FieldErrors) Get(field string) string {
	return e[field]
}

func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	msgs := make([]string, len(fields))
	for i, f := range fields {
		msgs[i] = f + ": " + e[f]
	}
	return strings.Join(msgs, "; ")
}

// =============================================================================
// VALIDATOR
// =============================================================================

type userForm struct {
	Name  string `validate:"trimmed_required"`
	Email string `validate:"trimmed_required,rbac_email"`
	Role  string `validate:"required"`
}

type roleForm struct {
	Name        string       `validate:"trimmed_required"`
	Permissions []Permission `validate:"min=1,dive,rbac_permission"`
}

// messages is keyed by struct name, field and failing tag.
var messages = map[string]string{
	"userForm.Name.trimmed_required":       "Name is required",
	"userForm.Email.trimmed_required":      "Email is required",
	"userForm.Email.rbac_email":            "Invalid email format",
	"userForm.Role.required":               "Role is required",
	"roleForm.Name.trimmed_required":       "Role name is required",
	"roleForm.Permissions.min":             "At least one permission is required",
	"roleForm.Permissions.rbac_permission": "Unknown permission",
}

// MsgRoleNameTaken is reported when a role name collides with an existing one.
const MsgRoleNameTaken = "Role name must be unique"

// Validator checks user and role forms before they reach the directory.
type Validator struct {
	v          *validator.Validate
	uniqueness EditUniqueness
}

// NewValidator creates a validator with EditExcludeSelf uniqueness.
func NewValidator() *Validator {
	v := validator.New()
	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("trimmed_required", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("rbac_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("rbac_permission", func(fl validator.FieldLevel) bool {
		return Permission(fl.Field().String()).Valid()
	})
	return &Validator{v: v, uniqueness: EditExcludeSelf}
}

// SetEditUniqueness changes how the edited role is treated by Role.
func (val *Validator) SetEditUniqueness(mode EditUniqueness) {
	if mode == "" {
		mode = EditExcludeSelf
	}
	val.uniqueness = mode
}

// EditUniqueness returns the current uniqueness mode.
func (val *Validator) EditUniqueness() EditUniqueness {
	return val.uniqueness
}

// User validates the user form.
func (val *Validator) User(in UserInput) FieldErrors {
	return val.check("userForm", userForm{Name: in.Name, Email: in.Email, Role: in.Role})
}

// Role validates the role form against the existing roles. editingID is the
// id of the role being edited, or 0 when creating.
func (val *Validator) Role(in RoleInput, existing []Role, editingID int) FieldErrors {
	errs := val.check("roleForm", roleForm{Name: in.Name, Permissions: in.Permissions})
	if errs.Get(FieldName) != "" {
		return errs
	}

	name := strings.TrimSpace(in.Name)
	for _, r := range existing {
		if editingID != 0 && r.ID == editingID && val.uniqueness == EditExcludeSelf {
			continue
		}
		if SameName(strings.TrimSpace(r.Name), name) {
			errs[FieldName] = MsgRoleNameTaken
			break
		}
	}
	return errs
}

func (val *Validator) check(form string, s any) FieldErrors {
	errs := FieldErrors{}
	err := val.v.Struct(s)
	if err == nil {
		return errs
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		// Only reachable on a programming error such as a nil struct.
		errs["form"] = err.Error()
		return errs
	}

	for _, fe := range ve {
		field := fe.StructField()
		if i := strings.IndexByte(field, '['); i >= 0 {
			field = field[:i]
		}
		key := strings.ToLower(field)
		if _, seen := errs[key]; seen {
			continue
		}
		msg, ok := messages[form+"."+field+"."+fe.Tag()]
		if !ok {
			msg = field + " is invalid"
		}
		if fe.Tag() == "rbac_permission" {
			msg += ": " + fmt.Sprint(fe.Value())
		}
		errs[key] = msg
	}
	return errs
}
