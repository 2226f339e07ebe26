// Package refreshtokens stores the hashes of issued refresh tokens. A token is
// redeemable only while its record exists; Consume removes it atomically so
// that each token can be redeemed at most once.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error
	// Consume deletes and returns the record for (userID, tokenHash), or
	// common.ErrorNotFound when there is none. Of several concurrent callers
	// with the same arguments at most one succeeds.
	Consume(ctx context.Context, userID, tokenHash string) (*models.RefreshToken, error)
	// DeleteExpired removes records with expires_at <= now and returns their count.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
