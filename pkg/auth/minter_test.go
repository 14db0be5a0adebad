package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authforge/authforge/pkg/auth"
)

func testTokenConfig() auth.TokenConfig {
	return auth.TokenConfig{
		AccessSecret:  "access-secret-32-chars-long-00001",
		AccessTTL:     15 * time.Minute,
		RefreshSecret: "refresh-secret-32-chars-long-0001",
		RefreshTTL:    7 * 24 * time.Hour,
	}
}

func TestNewTokenMinter(t *testing.T) {
	t.Parallel()

	t.Run("rejects identical secrets", func(t *testing.T) {
		t.Parallel()

		cfg := testTokenConfig()
		cfg.RefreshSecret = cfg.AccessSecret
		_, err := auth.NewTokenMinter(cfg)
		assert.Error(t, err)
	})

	t.Run("rejects empty secrets", func(t *testing.T) {
		t.Parallel()

		cfg := testTokenConfig()
		cfg.AccessSecret = ""
		_, err := auth.NewTokenMinter(cfg)
		assert.Error(t, err)
	})
}

func TestTokenMinter_MintPair(t *testing.T) {
	t.Parallel()

	minter, err := auth.NewTokenMinter(testTokenConfig())
	require.NoError(t, err)

	user := &auth.User{
		ID:       uuid.New(),
		Username: "johndoe",
		Email:    "john@example.com",
	}

	t.Run("access token verifies and carries the user id", func(t *testing.T) {
		t.Parallel()

		pair, err := minter.MintPair(user)
		require.NoError(t, err)
		require.NotEmpty(t, pair.AccessToken)
		require.NotEmpty(t, pair.RefreshToken)
		assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

		id, err := minter.VerifyAccessToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, id)
	})

	t.Run("refresh token verifies and carries the user id", func(t *testing.T) {
		t.Parallel()

		pair, err := minter.MintPair(user)
		require.NoError(t, err)

		id, err := minter.VerifyRefreshToken(pair.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, id)
	})

	t.Run("token classes are not interchangeable", func(t *testing.T) {
		t.Parallel()

		pair, err := minter.MintPair(user)
		require.NoError(t, err)

		_, err = minter.VerifyAccessToken(pair.RefreshToken)
		assert.ErrorIs(t, err, auth.ErrUnauthorized)

		_, err = minter.VerifyRefreshToken(pair.AccessToken)
		assert.ErrorIs(t, err, auth.ErrUnauthorized)
	})

	t.Run("expired access token is unauthorized", func(t *testing.T) {
		t.Parallel()

		cfg := testTokenConfig()
		cfg.AccessTTL = -time.Minute
		expiredMinter, err := auth.NewTokenMinter(cfg)
		require.NoError(t, err)

		pair, err := expiredMinter.MintPair(user)
		require.NoError(t, err)

		_, err = expiredMinter.VerifyAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, auth.ErrUnauthorized)
	})

	t.Run("garbage tokens are unauthorized", func(t *testing.T) {
		t.Parallel()

		_, err := minter.VerifyAccessToken("garbage")
		assert.ErrorIs(t, err, auth.ErrUnauthorized)

		_, err = minter.VerifyRefreshToken("")
		assert.ErrorIs(t, err, auth.ErrUnauthorized)
	})
}
