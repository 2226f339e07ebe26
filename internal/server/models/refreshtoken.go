package models

import "time"

// RefreshToken is the server-side record of one issued refresh token. Only
// the SHA-256 of the raw token is kept; a record is removed when redeemed.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the record is no longer redeemable at now.
func (t *RefreshToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
