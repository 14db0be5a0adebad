package jwt

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// encodedHeader is base64url({"alg":"HS256","typ":"JWT"}). The header is
// constant because the service only ever signs with HMAC-SHA256; any token
// presenting a different header fails verification, which also rules out
// algorithm-confusion attacks.
var encodedHeader = base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))

// RegisteredClaims carries the registered claim set from RFC 7519 §4.1.
// Temporal claims are Unix timestamps; zero values are treated as unset.
type RegisteredClaims struct {
	Subject   string `json:"sub,omitempty"`
	Issuer    string `json:"iss,omitempty"`
	Audience  string `json:"aud,omitempty"`
	ExpiresAt int64  `json:"exp,omitempty"`
	NotBefore int64  `json:"nbf,omitempty"`
	IssuedAt  int64  `json:"iat,omitempty"`
}

// Valid checks the temporal claims against the current clock.
func (c RegisteredClaims) Valid() error {
	now := time.Now().Unix()
	if c.ExpiresAt > 0 && now > c.ExpiresAt {
		return ErrTokenExpired
	}
	if c.NotBefore > 0 && now < c.NotBefore {
		return ErrTokenNotYetValid
	}
	return nil
}

// Service signs and verifies tokens with a single HMAC-SHA256 secret.
type Service struct {
	secret []byte
}

// New creates a signing service. The secret should be at least 32 bytes of
// cryptographically random material.
func New(secret string) (*Service, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &Service{secret: []byte(secret)}, nil
}

// Sign serializes the claims and returns the signed compact token string.
func (s *Service) Sign(claims any) (string, error) {
	body, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("failed to marshal claims: %w", err)
	}

	payload := encodedHeader + "." + base64.RawURLEncoding.EncodeToString(body)
	return payload + "." + s.signature(payload), nil
}

// Parse verifies the signature and header, unmarshals the claims, and runs
// temporal validation when the claims type implements Valid() error.
// The signature is checked before anything is decoded so that malformed or
// forged payloads never reach the JSON decoder.
func (s *Service) Parse(token string, claims any) error {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return ErrTokenMalformed
	}

	payload := parts[0] + "." + parts[1]
	expected := s.signature(payload)
	if subtle.ConstantTimeCompare([]byte(parts[2]), []byte(expected)) != 1 {
		return ErrSignatureInvalid
	}

	if parts[0] != encodedHeader {
		return ErrTokenMalformed
	}

	body, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return ErrTokenMalformed
	}
	if err := json.Unmarshal(body, claims); err != nil {
		return fmt.Errorf("%w: %w", ErrTokenMalformed, err)
	}

	if v, ok := claims.(interface{ Valid() error }); ok {
		if err := v.Valid(); err != nil {
			return err
		}
	}

	return nil
}

func (s *Service) signature(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
