// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a registered account. Email is stored trimmed and is unique.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
