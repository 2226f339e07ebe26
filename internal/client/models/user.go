// Package models holds the client-side view of API resources.
package models

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
