package auth

import (
	"time"

	"github.com/google/uuid"
)

// User is the durable account entity. Email and Username are stored in
// case-normalized form and are unique. Zero values mean "unset" for the
// nullable token fields: a one-time token is pending only while its digest
// is non-empty and its expiry is in the future.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash []byte

	IsEmailVerified         bool
	EmailVerificationDigest string
	EmailVerificationExpiry time.Time

	PasswordResetDigest string
	PasswordResetExpiry time.Time

	// RefreshToken is the single currently valid refresh token, replaced on
	// every login and refresh. Empty means no active session.
	RefreshToken string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile is the external-facing view of a user with all credential and
// token material stripped.
type Profile struct {
	ID              uuid.UUID `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	IsEmailVerified bool      `json:"is_email_verified"`
	CreatedAt       time.Time `json:"created_at"`
}

// Profile returns the sanitized view of the user.
func (u *User) Profile() Profile {
	return Profile{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		IsEmailVerified: u.IsEmailVerified,
		CreatedAt:       u.CreatedAt,
	}
}

// TokenPair is one issued access/refresh token couple.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
