package services

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/fitmi/fitmi-backend/internal/models"
)

// Claims are the identity assertions embedded in every issued token.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// Denylist records revoked token ids until their natural expiry. A nil
// denylist disables revocation checks.
type Denylist interface {
	Add(ctx context.Context, jti string, ttl time.Duration) error
	Contains(ctx context.Context, jti string) (bool, error)
}

// TokenService issues and verifies signed bearer tokens. Tokens are
// stateless: validity is determined by signature and expiry alone, plus an
// optional denylist consulted for explicit logout.
type TokenService struct {
	secret   []byte
	ttl      time.Duration
	denylist Denylist
}

func NewTokenService(secret string, ttl time.Duration, denylist Denylist) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl, denylist: denylist}
}

// Issue signs a token embedding the user's id, email and name with a fixed
// expiry.
func (s *TokenService) Issue(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	})

	return token.SignedString(s.secret)
}

// Verify parses and validates a token string and returns its claims.
// Revoked tokens fail verification even before their expiry.
func (s *TokenService) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	if s.denylist != nil && claims.ID != "" {
		revoked, err := s.denylist.Contains(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrInvalidToken
		}
	}

	return claims, nil
}

// Revoke denylists the token until it would have expired anyway. Verified
// claims must be passed in so only valid tokens can be revoked.
func (s *TokenService) Revoke(ctx context.Context, claims *Claims) error {
	if s.denylist == nil || claims.ID == "" {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return s.denylist.Add(ctx, claims.ID, ttl)
}
