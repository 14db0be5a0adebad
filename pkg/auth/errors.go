package auth

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUserAlreadyExists     = errors.New("user with email or username already exists")
	ErrEmailAlreadyVerified  = errors.New("email is already verified")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrTokenInvalidOrExpired = errors.New("token is invalid or expired")
	ErrRefreshTokenMismatch  = errors.New("refresh token does not match the active session")
	ErrMailDelivery          = errors.New("failed to deliver email")
)
