// Package services contains server-side business logic. AuthService handles
// registration, login and the rotation of server-tracked refresh tokens;
// NotesService manages per-user notes.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/auth"
	"github.com/dmitrijs2005/notekeeper/internal/server/events"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// AuthService is safe for concurrent use; it keeps no per-request state.
type AuthService struct {
	repomanager repomanager.RepositoryManager
	signer      *auth.Signer
	hasher      PasswordHasher
	publisher   events.Publisher
	log         logging.Logger
	now         func() time.Time

	// dummyHash is verified against when the email is unknown, so that
	// both login failures cost one hash comparison.
	dummyOnce sync.Once
	dummyHash string
}

type AuthServiceOption func(*AuthService)

// WithNow replaces time.Now for refresh record expiry.
func WithNow(now func() time.Time) AuthServiceOption {
	return func(s *AuthService) { s.now = now }
}

func NewAuthService(
	m repomanager.RepositoryManager,
	signer *auth.Signer,
	hasher PasswordHasher,
	publisher events.Publisher,
	log logging.Logger,
	opts ...AuthServiceOption,
) *AuthService {
	s := &AuthService{
		repomanager: m,
		signer:      signer,
		hasher:      hasher,
		publisher:   publisher,
		log:         log.With("service", "auth"),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a user. The email is stored trimmed; an email that is
// already taken yields common.ErrDuplicateUser.
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)

	_, err := s.repomanager.Users().GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, common.ErrDuplicateUser
	case !errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users().Create(ctx, &models.User{Email: email, PasswordHash: digest})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrDuplicateUser
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID)
	s.publish(ctx, events.UserRegistered, user.ID)
	return user, nil
}

// Login checks the credentials and issues a new token pair. Unknown email and
// wrong password both yield common.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	email = strings.TrimSpace(email)

	user, err := s.repomanager.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(password, s.fakeDigest())
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, s.repomanager, user.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "user logged in", "user_id", user.ID)
	s.publish(ctx, events.UserLoggedIn, user.ID)
	return pair, nil
}

// Refresh redeems a refresh token for a new pair. The old record is consumed
// and the new one stored in the same transaction, so a token can be redeemed
// once and a failed rotation leaves the old token usable.
func (s *AuthService) Refresh(ctx context.Context, raw string) (*TokenPair, error) {
	if !s.signer.ValidateRefresh(raw) {
		return nil, common.ErrInvalidToken
	}
	userID, err := s.signer.SubjectOf(raw)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	if _, err := s.repomanager.Users().GetByID(ctx, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	var pair *TokenPair
	err = s.repomanager.WithTx(ctx, func(ctx context.Context, tx repomanager.RepositoryManager) error {
		rec, err := tx.RefreshTokens().Consume(ctx, userID, auth.HashToken(raw))
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrTokenNotRecognized
			}
			return fmt.Errorf("consume refresh token: %w", err)
		}
		if rec.Expired(s.now()) {
			return common.ErrTokenNotRecognized
		}

		pair, err = s.issuePair(ctx, tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "tokens refreshed", "user_id", userID)
	s.publish(ctx, events.TokensRefreshed, userID)
	return pair, nil
}

// Logout revokes a refresh token by consuming its record.
func (s *AuthService) Logout(ctx context.Context, raw string) error {
	if !s.signer.ValidateRefresh(raw) {
		return common.ErrInvalidToken
	}
	userID, err := s.signer.SubjectOf(raw)
	if err != nil {
		return common.ErrInvalidToken
	}

	if _, err := s.repomanager.RefreshTokens().Consume(ctx, userID, auth.HashToken(raw)); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrTokenNotRecognized
		}
		return fmt.Errorf("consume refresh token: %w", err)
	}

	s.log.Info(ctx, "user logged out", "user_id", userID)
	s.publish(ctx, events.LoggedOut, userID)
	return nil
}

// Authenticate returns the user ID carried by a valid access token.
func (s *AuthService) Authenticate(access string) (string, error) {
	if !s.signer.ValidateAccess(access) {
		return "", common.ErrInvalidToken
	}
	return s.signer.SubjectOf(access)
}

// CleanupExpired drops refresh records that can no longer be redeemed.
func (s *AuthService) CleanupExpired(ctx context.Context) (int64, error) {
	n, err := s.repomanager.RefreshTokens().DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("delete expired refresh tokens: %w", err)
	}
	return n, nil
}

func (s *AuthService) issuePair(ctx context.Context, m repomanager.RepositoryManager, userID string) (*TokenPair, error) {
	access, err := s.signer.IssueAccess(userID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.signer.IssueRefresh(userID)
	if err != nil {
		return nil, err
	}

	expiresAt := s.now().Add(s.signer.RefreshTTL())
	if err := m.RefreshTokens().Create(ctx, userID, auth.HashToken(refresh), expiresAt); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) publish(ctx context.Context, typ events.Type, userID string) {
	e := events.Event{Type: typ, UserID: userID, OccurredAt: s.now().UTC()}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.log.Warn(ctx, "event publish failed", "event", typ, "user_id", userID, "error", err)
	}
}

func (s *AuthService) fakeDigest() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("notekeeper-unknown-user")
	})
	return s.dummyHash
}
