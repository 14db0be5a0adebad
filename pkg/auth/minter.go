package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/authforge/authforge/pkg/jwt"
)

// TokenConfig carries the signing secrets and lifetimes for both token
// classes. The secrets must differ so that a leaked access-token key cannot
// be used to forge refresh tokens or vice versa.
type TokenConfig struct {
	AccessSecret  string        `env:"ACCESS_TOKEN_SECRET,required"`
	AccessTTL     time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshSecret string        `env:"REFRESH_TOKEN_SECRET,required"`
	RefreshTTL    time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`
}

// AccessClaims is the payload of an access token: just the user id and the
// temporal claims. Access tokens are never persisted server-side.
type AccessClaims struct {
	jwt.RegisteredClaims
}

// RefreshClaims additionally carries a snapshot of the user's identity
// fields at issuance time.
type RefreshClaims struct {
	jwt.RegisteredClaims
	Email    string `json:"email"`
	Username string `json:"username"`
}

// TokenMinter issues and verifies both token classes, each signed with its
// own secret.
type TokenMinter struct {
	access     *jwt.Service
	refresh    *jwt.Service
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenMinter creates a minter from config. It rejects identical secrets
// because separate key spaces are the point of having two.
func NewTokenMinter(cfg TokenConfig) (*TokenMinter, error) {
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, errors.New("access and refresh token secrets must differ")
	}

	access, err := jwt.New(cfg.AccessSecret)
	if err != nil {
		return nil, fmt.Errorf("access token signer: %w", err)
	}
	refresh, err := jwt.New(cfg.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("refresh token signer: %w", err)
	}

	return &TokenMinter{
		access:     access,
		refresh:    refresh,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
	}, nil
}

// MintPair issues a fresh access/refresh token couple for the user.
func (m *TokenMinter) MintPair(user *User) (TokenPair, error) {
	now := time.Now()

	accessToken, err := m.access.Sign(AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(m.accessTTL).Unix(),
		},
	})
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshToken, err := m.refresh.Sign(RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(m.refreshTTL).Unix(),
		},
		Email:    user.Email,
		Username: user.Username,
	})
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// VerifyAccessToken validates an access token and returns the user id it was
// issued to. Expired, malformed and forged tokens all come back as
// ErrUnauthorized; the underlying jwt error stays wrapped for diagnostics.
func (m *TokenMinter) VerifyAccessToken(token string) (uuid.UUID, error) {
	var claims AccessClaims
	if err := m.access.Parse(token, &claims); err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	return subjectID(claims.Subject)
}

// VerifyRefreshToken validates a refresh token and returns the user id it
// was issued to.
func (m *TokenMinter) VerifyRefreshToken(token string) (uuid.UUID, error) {
	var claims RefreshClaims
	if err := m.refresh.Parse(token, &claims); err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	return subjectID(claims.Subject)
}

func subjectID(subject string) (uuid.UUID, error) {
	id, err := uuid.Parse(subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid subject claim", ErrUnauthorized)
	}
	return id, nil
}
