package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/authforge/authforge/pkg/logger"
	"github.com/authforge/authforge/pkg/onetime"
	"github.com/authforge/authforge/pkg/sanitizer"
)

// Mailer is the out-of-band delivery collaborator. The link already embeds
// the one-time token plaintext; implementations only render and send.
type Mailer interface {
	SendEmailVerification(ctx context.Context, to, username, link string) error
	SendPasswordReset(ctx context.Context, to, username, link string) error
}

// VerificationConfig carries the one-time token window and the externally
// reachable base URLs the token plaintext is appended to.
type VerificationConfig struct {
	TokenTTL             time.Duration `env:"ONE_TIME_TOKEN_TTL" envDefault:"20m"`
	EmailVerificationURL string        `env:"EMAIL_VERIFICATION_URL,required"`
	PasswordResetURL     string        `env:"PASSWORD_RESET_URL,required"`
}

// VerificationService manages issuance and consumption of one-time tokens
// for email verification and password reset. Only token digests are ever
// persisted; consumption recomputes the digest from the presented plaintext,
// looks the user up by it, and clears the stored fields in the same write as
// the state change it authorizes.
type VerificationService struct {
	storage Storage
	factory *onetime.Factory
	hasher  *PasswordHasher
	mailer  Mailer
	cfg     VerificationConfig
	logger  *slog.Logger
}

// VerificationOption configures a VerificationService during construction.
type VerificationOption func(*VerificationService)

// WithVerificationLogger sets a custom logger for the service.
func WithVerificationLogger(log *slog.Logger) VerificationOption {
	return func(s *VerificationService) { s.logger = log }
}

// WithVerificationHasher replaces the default password hasher used by the
// reset flow, typically to lower the bcrypt cost in tests.
func WithVerificationHasher(h *PasswordHasher) VerificationOption {
	return func(s *VerificationService) { s.hasher = h }
}

// NewVerificationService creates the verification orchestrator.
func NewVerificationService(storage Storage, mailer Mailer, cfg VerificationConfig, opts ...VerificationOption) *VerificationService {
	s := &VerificationService{
		storage: storage,
		factory: onetime.NewFactory(cfg.TokenTTL),
		hasher:  NewPasswordHasher(0),
		mailer:  mailer,
		cfg:     cfg,
		logger:  logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send issues a fresh email-verification token for the user, persists its
// digest and expiry, and emails the link. A pending previous token is
// overwritten and thereby invalidated.
func (s *VerificationService) Send(ctx context.Context, user *User) error {
	tok, err := s.factory.Generate()
	if err != nil {
		return fmt.Errorf("failed to generate verification token: %w", err)
	}

	user.EmailVerificationDigest = tok.Digest
	user.EmailVerificationExpiry = tok.ExpiresAt
	if err := s.storage.Save(ctx, user); err != nil {
		return fmt.Errorf("failed to persist verification token: %w", err)
	}

	link := joinLink(s.cfg.EmailVerificationURL, tok.Plaintext)
	if err := s.mailer.SendEmailVerification(ctx, user.Email, user.Username, link); err != nil {
		return fmt.Errorf("%w: %w", ErrMailDelivery, err)
	}
	return nil
}

// Resend reissues the verification email. It fails with
// ErrEmailAlreadyVerified when there is nothing left to verify.
func (s *VerificationService) Resend(ctx context.Context, userID uuid.UUID) error {
	user, err := s.storage.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsEmailVerified {
		return ErrEmailAlreadyVerified
	}
	return s.Send(ctx, user)
}

// ConsumeVerification marks the owning user verified if the presented
// plaintext matches a stored, unexpired digest. The digest and expiry are
// cleared in the same write, making the token single-use.
func (s *VerificationService) ConsumeVerification(ctx context.Context, plaintext string) (*User, error) {
	if plaintext == "" {
		return nil, ErrTokenInvalidOrExpired
	}

	user, err := s.storage.FindUserByVerificationDigest(ctx, onetime.Digest(plaintext))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrTokenInvalidOrExpired
		}
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}
	if !user.EmailVerificationExpiry.After(time.Now()) {
		return nil, ErrTokenInvalidOrExpired
	}

	user.IsEmailVerified = true
	user.EmailVerificationDigest = ""
	user.EmailVerificationExpiry = time.Time{}
	if err := s.storage.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to persist verification: %w", err)
	}

	s.logger.InfoContext(ctx, "email verified",
		logger.UserID(user.ID.String()),
		logger.Component("verification"),
	)
	return user, nil
}

// RequestPasswordReset issues a reset token and emails its link. Requests
// for unknown addresses succeed silently so that this endpoint cannot be
// used to enumerate accounts.
func (s *VerificationService) RequestPasswordReset(ctx context.Context, email string) error {
	email = sanitizer.NormalizeEmail(email)

	user, err := s.storage.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.logger.DebugContext(ctx, "password reset requested for unknown email",
				logger.Component("verification"),
			)
			return nil
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	tok, err := s.factory.Generate()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	user.PasswordResetDigest = tok.Digest
	user.PasswordResetExpiry = tok.ExpiresAt
	if err := s.storage.Save(ctx, user); err != nil {
		return fmt.Errorf("failed to persist reset token: %w", err)
	}

	link := joinLink(s.cfg.PasswordResetURL, tok.Plaintext)
	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.Username, link); err != nil {
		return fmt.Errorf("%w: %w", ErrMailDelivery, err)
	}
	return nil
}

// ConsumePasswordReset sets a new password if the presented plaintext
// matches a stored, unexpired reset digest. The digest and expiry are
// cleared in the same write as the password change. Outstanding refresh
// tokens stay valid, mirroring ChangePassword.
func (s *VerificationService) ConsumePasswordReset(ctx context.Context, plaintext, newPassword string) error {
	if plaintext == "" {
		return ErrTokenInvalidOrExpired
	}

	user, err := s.storage.FindUserByResetDigest(ctx, onetime.Digest(plaintext))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrTokenInvalidOrExpired
		}
		return fmt.Errorf("failed to look up token: %w", err)
	}
	if !user.PasswordResetExpiry.After(time.Now()) {
		return ErrTokenInvalidOrExpired
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := s.storage.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("failed to persist password reset: %w", err)
	}

	s.logger.InfoContext(ctx, "password reset completed",
		logger.UserID(user.ID.String()),
		logger.Component("verification"),
	)
	return nil
}

func joinLink(base, token string) string {
	return strings.TrimRight(base, "/") + "/" + token
}
