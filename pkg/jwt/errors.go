package jwt

import "errors"

var (
	ErrMissingSecret    = errors.New("jwt: missing signing secret")
	ErrTokenMalformed   = errors.New("jwt: malformed token")
	ErrTokenExpired     = errors.New("jwt: token is expired")
	ErrSignatureInvalid = errors.New("jwt: signature verification failed")
	ErrTokenNotYetValid = errors.New("jwt: token is not valid yet")
)
