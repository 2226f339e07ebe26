// Package auth issues and verifies the signed tokens handed to clients and
// hashes user passwords.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType separates access tokens from refresh tokens so that one can never
// be used in place of the other.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// MinSecretLen is the minimum HS256 key length in bytes.
const MinSecretLen = 32

// Claims is the token payload: sub, iat, exp, jti and the type discriminator.
type Claims struct {
	Type TokenType `json:"type"`
	jwt.RegisteredClaims
}

// SignerConfig is fixed at construction.
type SignerConfig struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type SignerOption func(*Signer)

// WithClock replaces time.Now, mainly for expiry tests.
func WithClock(now func() time.Time) SignerOption {
	return func(s *Signer) { s.now = now }
}

// Signer creates and validates HS256 tokens. It is safe for concurrent use.
type Signer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewSigner(cfg SignerConfig, opts ...SignerOption) (*Signer, error) {
	if len(cfg.Secret) < MinSecretLen {
		return nil, fmt.Errorf("signing secret must be at least %d bytes", MinSecretLen)
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("token lifetimes must be positive")
	}

	s := &Signer{
		secret:     append([]byte(nil), cfg.Secret...),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Signer) RefreshTTL() time.Duration { return s.refreshTTL }

// Issue signs a token of the given type for userID, expiring ttl from now.
func (s *Signer) Issue(userID string, typ TokenType, ttl time.Duration) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, nil
}

func (s *Signer) IssueAccess(userID string) (string, error) {
	return s.Issue(userID, TokenAccess, s.accessTTL)
}

func (s *Signer) IssueRefresh(userID string) (string, error) {
	return s.Issue(userID, TokenRefresh, s.refreshTTL)
}

func (s *Signer) ValidateAccess(token string) bool {
	_, err := s.parse(token, TokenAccess)
	return err == nil
}

func (s *Signer) ValidateRefresh(token string) bool {
	_, err := s.parse(token, TokenRefresh)
	return err == nil
}

// SubjectOf verifies token (of either type) and returns its subject.
func (s *Signer) SubjectOf(token string) (string, error) {
	claims, err := s.parse(token, "")
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// parse verifies signature, algorithm, expiry and issue time. An empty want
// accepts any known token type.
func (s *Signer) parse(raw string, want TokenType) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(s.now),
	)

	token, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidToken
	}

	switch {
	case claims.Subject == "":
		return nil, common.ErrInvalidToken
	case want != "" && claims.Type != want:
		return nil, common.ErrInvalidToken
	case claims.Type != TokenAccess && claims.Type != TokenRefresh:
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

// HashToken returns the hex SHA-256 of a raw token. Only this digest is
// ever stored.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
