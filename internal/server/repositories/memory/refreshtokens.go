package memory

import (
	"context"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/google/uuid"
)

// tokensRepo keys records by token hash, mirroring the unique index of the
// SQL schema.
type tokensRepo struct {
	s  *store
	tx *txLog
}

func (r *tokensRepo) Create(_ context.Context, userID, tokenHash string, expiresAt time.Time) error {
	defer r.s.lock(r.tx)()

	if _, taken := r.s.tokens[tokenHash]; taken {
		return common.ErrorAlreadyExists
	}
	rec := &models.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	r.s.tokens[tokenHash] = rec
	record(r.tx, func() { delete(r.s.tokens, tokenHash) })
	return nil
}

func (r *tokensRepo) Consume(_ context.Context, userID, tokenHash string) (*models.RefreshToken, error) {
	defer r.s.lock(r.tx)()

	rec, ok := r.s.tokens[tokenHash]
	if !ok || rec.UserID != userID {
		return nil, common.ErrorNotFound
	}
	delete(r.s.tokens, tokenHash)
	record(r.tx, func() { r.s.tokens[tokenHash] = rec })
	return cloneToken(rec), nil
}

func (r *tokensRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	defer r.s.lock(r.tx)()

	var n int64
	for hash, rec := range r.s.tokens {
		if rec.Expired(now) {
			delete(r.s.tokens, hash)
			record(r.tx, func() { r.s.tokens[hash] = rec })
			n++
		}
	}
	return n, nil
}
