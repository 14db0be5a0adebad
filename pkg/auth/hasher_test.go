package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/authforge/authforge/pkg/auth"
)

func TestPasswordHasher(t *testing.T) {
	t.Parallel()

	hasher := auth.NewPasswordHasher(bcrypt.MinCost)

	t.Run("hash verifies against its plaintext", func(t *testing.T) {
		t.Parallel()

		digest, err := hasher.Hash("SecurePass123!")
		require.NoError(t, err)

		assert.True(t, hasher.Verify("SecurePass123!", digest))
		assert.False(t, hasher.Verify("WrongPass123!", digest))
	})

	t.Run("digest never equals the plaintext", func(t *testing.T) {
		t.Parallel()

		digest, err := hasher.Hash("SecurePass123!")
		require.NoError(t, err)
		assert.NotEqual(t, "SecurePass123!", string(digest))
	})

	t.Run("same plaintext hashes to different digests", func(t *testing.T) {
		t.Parallel()

		first, err := hasher.Hash("SecurePass123!")
		require.NoError(t, err)
		second, err := hasher.Hash("SecurePass123!")
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
		assert.True(t, hasher.Verify("SecurePass123!", first))
		assert.True(t, hasher.Verify("SecurePass123!", second))
	})

	t.Run("verify tolerates garbage digests", func(t *testing.T) {
		t.Parallel()

		assert.False(t, hasher.Verify("anything", []byte("not-a-bcrypt-digest")))
		assert.False(t, hasher.Verify("anything", nil))
	})

	t.Run("out-of-range cost falls back to default", func(t *testing.T) {
		t.Parallel()

		h := auth.NewPasswordHasher(9999)
		digest, err := h.Hash("pw")
		require.NoError(t, err)

		cost, err := bcrypt.Cost(digest)
		require.NoError(t, err)
		assert.Equal(t, bcrypt.DefaultCost, cost)
	})
}
