package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/authforge/authforge/pkg/logger"
	"github.com/authforge/authforge/pkg/sanitizer"
)

// SessionService orchestrates the authenticated-session lifecycle:
// registration, login, logout, refresh-token rotation and password changes.
type SessionService struct {
	storage      Storage
	hasher       *PasswordHasher
	minter       *TokenMinter
	verification *VerificationService
	logger       *slog.Logger
}

// SessionOption configures a SessionService during construction.
type SessionOption func(*SessionService)

// WithSessionLogger sets a custom logger for the service.
func WithSessionLogger(log *slog.Logger) SessionOption {
	return func(s *SessionService) { s.logger = log }
}

// WithSessionHasher replaces the default password hasher, typically to lower
// the bcrypt cost in tests.
func WithSessionHasher(h *PasswordHasher) SessionOption {
	return func(s *SessionService) { s.hasher = h }
}

// NewSessionService creates the session orchestrator. The verification
// service is required because registration ends by issuing a verification
// token and emailing its link.
func NewSessionService(storage Storage, minter *TokenMinter, verification *VerificationService, opts ...SessionOption) *SessionService {
	s := &SessionService{
		storage:      storage,
		hasher:       NewPasswordHasher(0),
		minter:       minter,
		verification: verification,
		logger:       logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an unverified user and sends the verification email.
// Email and username are normalized before the uniqueness check, so
// collisions are case-insensitive. A failed mail send fails the whole
// registration response, but the created user remains and can use the
// resend flow.
func (s *SessionService) Register(ctx context.Context, email, username, password string) (*User, error) {
	email = sanitizer.NormalizeEmail(email)
	username = sanitizer.NormalizeUsername(username)

	_, err := s.storage.FindUserByEmailOrUsername(ctx, email, username)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.verification.Send(ctx, user); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user registered",
		logger.UserID(user.ID.String()),
		logger.Component("session"),
	)
	return user, nil
}

// Login verifies the credentials and establishes a session. Unknown email
// and wrong password are indistinguishable to the caller so that login
// cannot be used to probe which accounts exist. The freshly minted refresh
// token overwrites whatever was stored, invalidating any previous session.
func (s *SessionService) Login(ctx context.Context, email, password string) (TokenPair, *User, error) {
	email = sanitizer.NormalizeEmail(email)

	user, err := s.storage.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return TokenPair{}, nil, ErrInvalidCredentials
		}
		return TokenPair{}, nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return TokenPair{}, nil, ErrInvalidCredentials
	}

	pair, err := s.minter.MintPair(user)
	if err != nil {
		return TokenPair{}, nil, err
	}

	user.RefreshToken = pair.RefreshToken
	if err := s.storage.Save(ctx, user); err != nil {
		return TokenPair{}, nil, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in",
		logger.UserID(user.ID.String()),
		logger.Component("session"),
	)
	return pair, user, nil
}

// Logout clears the stored refresh token. It is idempotent: logging out a
// user without an active session succeeds.
func (s *SessionService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.storage.ClearRefreshToken(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}

// Refresh exchanges a valid refresh token for a new access/refresh pair.
// After signature and expiry verification the incoming token must still be
// the one stored on the user record; the swap to the new token happens in a
// single compare-and-swap write, so a stale token, an already-rotated token,
// or the loser of two concurrent refreshes all fail with ErrUnauthorized.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	userID, err := s.minter.VerifyRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, err
	}

	user, err := s.storage.FindUserByID(ctx, userID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("%w: unknown user", ErrUnauthorized)
	}

	pair, err := s.minter.MintPair(user)
	if err != nil {
		return TokenPair{}, err
	}

	if err := s.storage.ReplaceRefreshToken(ctx, user.ID, refreshToken, pair.RefreshToken); err != nil {
		if errors.Is(err, ErrRefreshTokenMismatch) || errors.Is(err, ErrUserNotFound) {
			s.logger.WarnContext(ctx, "refresh token reuse detected",
				logger.UserID(user.ID.String()),
				logger.Component("session"),
			)
			return TokenPair{}, fmt.Errorf("%w: %w", ErrUnauthorized, err)
		}
		return TokenPair{}, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return pair, nil
}

// ChangePassword re-hashes and stores the new password after verifying the
// old one. The write is limited to the credential fields (it also voids any
// pending reset token), so a refresh rotating the session token concurrently
// is not reverted. Outstanding refresh tokens deliberately stay valid; see
// the design notes for why this gap is preserved.
func (s *SessionService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	user, err := s.storage.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if !s.hasher.Verify(oldPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := s.storage.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("failed to persist new password: %w", err)
	}

	s.logger.InfoContext(ctx, "password changed",
		logger.UserID(userID.String()),
		logger.Component("session"),
	)
	return nil
}

// CurrentUser is a side-effect-free read of the user record. Authorization
// is assumed to be established upstream by access-token verification.
func (s *SessionService) CurrentUser(ctx context.Context, userID uuid.UUID) (*User, error) {
	return s.storage.FindUserByID(ctx, userID)
}

// VerifyAccessToken is the contract the request-authentication middleware
// depends on: it validates the token and returns the user id it belongs to.
func (s *SessionService) VerifyAccessToken(token string) (uuid.UUID, error) {
	return s.minter.VerifyAccessToken(token)
}
