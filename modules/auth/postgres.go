package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/authforge/authforge/pkg/auth"
)

// PostgresStorage implements auth.Storage on a pgx connection pool. Unset
// optional fields (token digests, expiries, the refresh token) are stored as
// NULL and mapped to Go zero values on read.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresStorage wraps the given pool.
func NewPostgresStorage(pool *pgxpool.Pool) *PostgresStorage {
	return &PostgresStorage{pool: pool}
}

const userColumns = `id, username, email, password_hash, is_email_verified,
	email_verification_digest, email_verification_expiry,
	password_reset_digest, password_reset_expiry,
	refresh_token, created_at, updated_at`

func (s *PostgresStorage) CreateUser(ctx context.Context, user *auth.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		user.ID, user.Username, user.Email, user.PasswordHash, user.IsEmailVerified,
		nullString(user.EmailVerificationDigest), nullTime(user.EmailVerificationExpiry),
		nullString(user.PasswordResetDigest), nullTime(user.PasswordResetExpiry),
		nullString(user.RefreshToken), user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return auth.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *PostgresStorage) FindUserByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	return s.findBy(ctx, `id = $1`, id)
}

func (s *PostgresStorage) FindUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	return s.findBy(ctx, `email = $1`, email)
}

func (s *PostgresStorage) FindUserByEmailOrUsername(ctx context.Context, email, username string) (*auth.User, error) {
	return s.findBy(ctx, `email = $1 OR username = $2`, email, username)
}

func (s *PostgresStorage) FindUserByVerificationDigest(ctx context.Context, digest string) (*auth.User, error) {
	return s.findBy(ctx, `email_verification_digest = $1`, digest)
}

func (s *PostgresStorage) FindUserByResetDigest(ctx context.Context, digest string) (*auth.User, error) {
	return s.findBy(ctx, `password_reset_digest = $1`, digest)
}

func (s *PostgresStorage) Save(ctx context.Context, user *auth.User) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users SET
			username = $2,
			email = $3,
			password_hash = $4,
			is_email_verified = $5,
			email_verification_digest = $6,
			email_verification_expiry = $7,
			password_reset_digest = $8,
			password_reset_expiry = $9,
			refresh_token = $10,
			updated_at = now()
		WHERE id = $1`,
		user.ID, user.Username, user.Email, user.PasswordHash, user.IsEmailVerified,
		nullString(user.EmailVerificationDigest), nullTime(user.EmailVerificationExpiry),
		nullString(user.PasswordResetDigest), nullTime(user.PasswordResetExpiry),
		nullString(user.RefreshToken),
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

// UpdatePassword writes only the credential fields, clearing any pending
// reset token alongside the new hash. Narrow on purpose: a whole-row write
// here could revert a refresh token rotated between read and write.
func (s *PostgresStorage) UpdatePassword(ctx context.Context, id uuid.UUID, hash []byte) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users SET
			password_hash = $2,
			password_reset_digest = NULL,
			password_reset_expiry = NULL,
			updated_at = now()
		WHERE id = $1`,
		id, hash,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

// ReplaceRefreshToken swaps the stored refresh token in one guarded UPDATE,
// so two concurrent rotations of the same token cannot both succeed.
func (s *PostgresStorage) ReplaceRefreshToken(ctx context.Context, id uuid.UUID, current, next string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users SET refresh_token = $3, updated_at = now()
		WHERE id = $1 AND refresh_token = $2`,
		id, current, nullString(next),
	)
	if err != nil {
		return fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrRefreshTokenMismatch
	}
	return nil
}

func (s *PostgresStorage) ClearRefreshToken(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE users SET refresh_token = NULL, updated_at = now()
		WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}

func (s *PostgresStorage) findBy(ctx context.Context, where string, args ...any) (*auth.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, args...)

	var (
		user                auth.User
		verDigest, rsDigest *string
		verExpiry, rsExpiry *time.Time
		refreshToken        *string
	)
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.IsEmailVerified,
		&verDigest, &verExpiry, &rsDigest, &rsExpiry,
		&refreshToken, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	user.EmailVerificationDigest = deref(verDigest)
	user.EmailVerificationExpiry = derefTime(verExpiry)
	user.PasswordResetDigest = deref(rsDigest)
	user.PasswordResetExpiry = derefTime(rsExpiry)
	user.RefreshToken = deref(refreshToken)
	return &user, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

var _ auth.Storage = (*PostgresStorage)(nil)
