// Package validation checks request payloads before they reach the services.
// Every failing field contributes one message; callers get them all at once.
package validation

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const (
	MsgInvalidEmail  = "Invalid email format"
	MsgWeakPassword  = "Password must be at least 9 characters long and contain at least one digit,uppercase and lowercase"
	MsgPasswordLong  = "Password must be at most 72 bytes long"
	MsgTitleRequired = "Title can't be blank"
)

// MinPasswordLen counts characters, MaxPasswordBytes counts bytes (the bcrypt
// input limit).
const (
	MinPasswordLen   = 9
	MaxPasswordBytes = 72
)

// Errors lists human-readable validation failures.
type Errors []string

func (e Errors) Error() string {
	return strings.Join(e, "; ")
}

var validate = validator.New()

// Credentials validates a registration request.
func Credentials(email, password string) error {
	var errs Errors
	if validate.Var(strings.TrimSpace(email), "required,email") != nil {
		errs = append(errs, MsgInvalidEmail)
	}
	if !StrongPassword(password) {
		errs = append(errs, MsgWeakPassword)
	}
	if len(password) > MaxPasswordBytes {
		errs = append(errs, MsgPasswordLong)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// StrongPassword reports whether password has at least MinPasswordLen
// characters including a lowercase letter, an uppercase letter and a digit.
func StrongPassword(password string) bool {
	var n int
	var lower, upper, digit bool
	for _, r := range password {
		n++
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return n >= MinPasswordLen && lower && upper && digit
}

// NoteInput is the writable part of a note.
type NoteInput struct {
	Title string `validate:"required"`
}

// Note validates a note save request. Whitespace-only titles are blank.
func Note(title string) error {
	if validate.Struct(NoteInput{Title: strings.TrimSpace(title)}) != nil {
		return Errors{MsgTitleRequired}
	}
	return nil
}
