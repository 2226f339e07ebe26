// Package common defines sentinel errors and shared constants used by the
// server, its repositories and the CLI client. Callers match them with
// errors.Is.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Authentication errors. ErrInvalidCredentials is returned for both an
	// unknown email and a wrong password so callers cannot tell them apart.
	ErrDuplicateUser      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token errors.
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenNotRecognized = errors.New("refresh token not recognized")
)
