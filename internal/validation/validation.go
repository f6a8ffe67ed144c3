// Package validation checks form input before any store mutation. Each form
// has an explicit check function returning a field-to-message map; an empty
// map means the input is acceptable.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/avelichko/todolist/internal/models"
)

// specialChars is the fixed set a password must draw at least one
// character from.
const specialChars = `!@#$%^&*(),.?":{}|<>`

// DateLayout is the expected format of the due date form field.
const DateLayout = "2006-01-02"

var validate = validator.New()

// SignupForm carries the raw signup form fields.
type SignupForm struct {
	Username string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// LoginForm carries the raw login form fields.
type LoginForm struct {
	Username string `validate:"required"`
	Password string `validate:"required,min=8"`
}

// TodoForm carries the raw to-do form fields. DueDate stays a string here;
// it is parsed only after the format check passes.
type TodoForm struct {
	Name        string `validate:"required"`
	Description string `validate:"required"`
	DueDate     string `validate:"required"`
	Status      string `validate:"required"`
}

// Signup validates the signup form, including the password policy.
func Signup(f SignupForm) map[string]string {
	errs := collect(f)
	if _, ok := errs["Password"]; !ok {
		if msg := PasswordPolicy(f.Password); msg != "" {
			errs["Password"] = msg
		}
	}
	return errs
}

// Login validates the login form.
func Login(f LoginForm) map[string]string {
	return collect(f)
}

// Todo validates the to-do form, including due date format and status.
func Todo(f TodoForm) map[string]string {
	errs := collect(f)
	if _, ok := errs["DueDate"]; !ok {
		if _, err := time.Parse(DateLayout, f.DueDate); err != nil {
			errs["DueDate"] = "Due date must be a date in YYYY-MM-DD format"
		}
	}
	if _, ok := errs["Status"]; !ok {
		if !models.ValidStatus(f.Status) {
			errs["Status"] = "Unknown status"
		}
	}
	return errs
}

// PasswordPolicy checks a password against the account policy: at least 8
// characters, one uppercase letter, one lowercase letter and one character
// from the fixed special set. Returns an empty string when the password is
// acceptable, otherwise the message describing the first unmet rule.
func PasswordPolicy(password string) string {
	if len(password) < 8 {
		return "Password must be at least 8 characters long"
	}
	if !strings.ContainsFunc(password, unicode.IsUpper) {
		return "Password must contain at least one uppercase letter"
	}
	if !strings.ContainsFunc(password, unicode.IsLower) {
		return "Password must contain at least one lowercase letter"
	}
	if !strings.ContainsAny(password, specialChars) {
		return "Password must contain at least one special character"
	}
	return ""
}

// collect runs the declarative struct checks and maps each failed field to a
// human-readable message.
func collect(form any) map[string]string {
	errs := make(map[string]string)
	err := validate.Struct(form)
	if err == nil {
		return errs
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs["Form"] = "Invalid form submission"
		return errs
	}
	for _, fe := range fieldErrs {
		errs[fe.Field()] = messageFor(fe)
	}
	return errs
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email address"
	case "min":
		return fmt.Sprintf("Must be at least %s characters long", fe.Param())
	}
	return "Invalid value"
}
