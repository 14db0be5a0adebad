package auth

import (
	"context"

	"github.com/google/uuid"
)

// Storage is the persistence collaborator for the authentication core.
// Implementations must enforce unique-index semantics on email and username
// and persist each Save atomically.
type Storage interface {
	// CreateUser inserts a new user. Returns ErrUserAlreadyExists when the
	// email or username is already taken.
	CreateUser(ctx context.Context, user *User) error

	// FindUserByID returns ErrUserNotFound when no user matches.
	FindUserByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindUserByEmail returns ErrUserNotFound when no user matches.
	FindUserByEmail(ctx context.Context, email string) (*User, error)

	// FindUserByEmailOrUsername matches either identity field, used for
	// registration conflict checks. Returns ErrUserNotFound when neither
	// matches.
	FindUserByEmailOrUsername(ctx context.Context, email, username string) (*User, error)

	// FindUserByVerificationDigest looks a user up by the stored digest of a
	// pending email-verification token.
	FindUserByVerificationDigest(ctx context.Context, digest string) (*User, error)

	// FindUserByResetDigest looks a user up by the stored digest of a
	// pending password-reset token.
	FindUserByResetDigest(ctx context.Context, digest string) (*User, error)

	// Save persists all mutable fields of the user in one atomic write.
	Save(ctx context.Context, user *User) error

	// UpdatePassword stores a new password hash and clears any pending
	// password-reset token in the same write. It touches no other field, so
	// a refresh-token rotation racing the password change is never
	// overwritten. Returns ErrUserNotFound when no user matches.
	UpdatePassword(ctx context.Context, id uuid.UUID, hash []byte) error

	// ReplaceRefreshToken atomically swaps the stored refresh token from
	// current to next in a single compare-and-swap write. Returns
	// ErrRefreshTokenMismatch when the stored value is not current, which is
	// how reuse of a rotated token and concurrent refreshes are detected.
	ReplaceRefreshToken(ctx context.Context, id uuid.UUID, current, next string) error

	// ClearRefreshToken removes the active refresh token. Clearing an
	// already-empty token is not an error.
	ClearRefreshToken(ctx context.Context, id uuid.UUID) error
}
