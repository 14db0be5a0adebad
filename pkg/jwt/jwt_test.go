package jwt_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authforge/authforge/pkg/jwt"
)

type testClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty secret", func(t *testing.T) {
		t.Parallel()

		svc, err := jwt.New("")
		assert.Nil(t, svc)
		assert.ErrorIs(t, err, jwt.ErrMissingSecret)
	})

	t.Run("creates service", func(t *testing.T) {
		t.Parallel()

		svc, err := jwt.New("test-secret-32-chars-long-123456")
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})
}

func TestService_SignAndParse(t *testing.T) {
	t.Parallel()

	svc, err := jwt.New("test-secret-32-chars-long-123456")
	require.NoError(t, err)

	t.Run("roundtrip preserves claims", func(t *testing.T) {
		t.Parallel()

		in := testClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user-42",
				ExpiresAt: time.Now().Add(time.Hour).Unix(),
				IssuedAt:  time.Now().Unix(),
			},
			Email: "user@example.com",
		}

		token, err := svc.Sign(in)
		require.NoError(t, err)
		assert.Len(t, strings.Split(token, "."), 3)

		var out testClaims
		require.NoError(t, svc.Parse(token, &out))
		assert.Equal(t, in.Subject, out.Subject)
		assert.Equal(t, in.Email, out.Email)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		t.Parallel()

		token, err := svc.Sign(testClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user-42",
				ExpiresAt: time.Now().Add(-time.Minute).Unix(),
			},
		})
		require.NoError(t, err)

		var out testClaims
		assert.ErrorIs(t, svc.Parse(token, &out), jwt.ErrTokenExpired)
	})

	t.Run("rejects token signed with a different secret", func(t *testing.T) {
		t.Parallel()

		other, err := jwt.New("another-secret-32-chars-long-9876")
		require.NoError(t, err)

		token, err := other.Sign(testClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "user-42"},
		})
		require.NoError(t, err)

		var out testClaims
		assert.ErrorIs(t, svc.Parse(token, &out), jwt.ErrSignatureInvalid)
	})

	t.Run("rejects tampered payload", func(t *testing.T) {
		t.Parallel()

		token, err := svc.Sign(testClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "user-42"},
		})
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		parts[1] = parts[1][:len(parts[1])-2] + "xx"
		tampered := strings.Join(parts, ".")

		var out testClaims
		assert.ErrorIs(t, svc.Parse(tampered, &out), jwt.ErrSignatureInvalid)
	})

	t.Run("rejects malformed token", func(t *testing.T) {
		t.Parallel()

		var out testClaims
		assert.ErrorIs(t, svc.Parse("not-a-token", &out), jwt.ErrTokenMalformed)
		assert.ErrorIs(t, svc.Parse("a.b", &out), jwt.ErrTokenMalformed)
		assert.ErrorIs(t, svc.Parse("", &out), jwt.ErrTokenMalformed)
	})

	t.Run("rejects not-yet-valid token", func(t *testing.T) {
		t.Parallel()

		token, err := svc.Sign(testClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user-42",
				NotBefore: time.Now().Add(time.Hour).Unix(),
			},
		})
		require.NoError(t, err)

		var out testClaims
		assert.ErrorIs(t, svc.Parse(token, &out), jwt.ErrTokenNotYetValid)
	})
}
