package onetime

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// plaintextBytes is the number of random bytes per token. 20 bytes gives
// 160 bits of entropy, comfortably above the 128-bit minimum for tokens
// that travel through email links.
const plaintextBytes = 20

// DefaultTTL is the validity window applied when a Factory is created with
// a non-positive TTL.
const DefaultTTL = 20 * time.Minute

// Token is a freshly generated one-time token. Plaintext must never be
// persisted; Digest and ExpiresAt are the storable parts.
type Token struct {
	Plaintext string
	Digest    string
	ExpiresAt time.Time
}

// Factory issues one-time tokens with a fixed validity window.
type Factory struct {
	ttl time.Duration
	now func() time.Time
}

// NewFactory creates a token factory. Non-positive ttl falls back to DefaultTTL.
func NewFactory(ttl time.Duration) *Factory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Factory{
		ttl: ttl,
		now: time.Now,
	}
}

// TTL returns the validity window applied to generated tokens.
func (f *Factory) TTL() time.Duration {
	return f.ttl
}

// Generate creates a new random token. It fails only if the system entropy
// source is unavailable.
func (f *Factory) Generate() (Token, error) {
	buf := make([]byte, plaintextBytes)
	if _, err := rand.Read(buf); err != nil {
		return Token{}, fmt.Errorf("failed to read random bytes: %w", err)
	}

	plaintext := hex.EncodeToString(buf)

	return Token{
		Plaintext: plaintext,
		Digest:    Digest(plaintext),
		ExpiresAt: f.now().Add(f.ttl),
	}, nil
}

// Digest computes the hex-encoded SHA-256 digest of a token plaintext.
// It is deliberately unsalted so that an incoming plaintext can be turned
// back into the stored lookup key.
func Digest(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
