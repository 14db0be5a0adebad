package email_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authforge/authforge/pkg/email"
)

func TestMessage_Validate(t *testing.T) {
	t.Parallel()

	valid := email.Message{
		To:       "user@example.com",
		Subject:  "Hello",
		BodyHTML: "<p>Hi</p>",
	}

	t.Run("accepts valid message", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, valid.Validate())
	})

	t.Run("rejects invalid recipient", func(t *testing.T) {
		t.Parallel()
		msg := valid
		msg.To = "not-an-address"
		assert.ErrorIs(t, msg.Validate(), email.ErrInvalidMessage)
	})

	t.Run("rejects empty subject", func(t *testing.T) {
		t.Parallel()
		msg := valid
		msg.Subject = ""
		assert.ErrorIs(t, msg.Validate(), email.ErrInvalidMessage)
	})

	t.Run("rejects empty body", func(t *testing.T) {
		t.Parallel()
		msg := valid
		msg.BodyHTML = ""
		assert.ErrorIs(t, msg.Validate(), email.ErrInvalidMessage)
	})
}

func TestNewPostmarkSender(t *testing.T) {
	t.Parallel()

	t.Run("requires tokens and sender identity", func(t *testing.T) {
		t.Parallel()

		_, err := email.NewPostmarkSender(email.Config{})
		assert.ErrorIs(t, err, email.ErrInvalidConfig)

		_, err = email.NewPostmarkSender(email.Config{
			PostmarkServerToken:  "server",
			PostmarkAccountToken: "account",
			SenderEmail:          "not-an-address",
		})
		assert.ErrorIs(t, err, email.ErrInvalidConfig)
	})

	t.Run("creates sender with complete config", func(t *testing.T) {
		t.Parallel()

		sender, err := email.NewPostmarkSender(email.Config{
			PostmarkServerToken:  "server",
			PostmarkAccountToken: "account",
			SenderEmail:          "no-reply@example.com",
			SupportEmail:         "support@example.com",
		})
		require.NoError(t, err)
		assert.NotNil(t, sender)
	})
}

func TestDevSender_Send(t *testing.T) {
	t.Parallel()

	t.Run("writes rendered email to disk", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		sender := email.NewDevSender(dir)

		err := sender.Send(context.Background(), email.Message{
			To:       "user@example.com",
			Subject:  "Verify your email",
			BodyHTML: "<p>click the link</p>",
			Tag:      "email-verification",
		})
		require.NoError(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.True(t, strings.HasSuffix(entries[0].Name(), "email-verification.html"))

		content, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
		require.NoError(t, err)
		assert.Contains(t, string(content), "user@example.com")
		assert.Contains(t, string(content), "click the link")
	})

	t.Run("rejects invalid message before writing", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		sender := email.NewDevSender(dir)

		err := sender.Send(context.Background(), email.Message{To: "nope"})
		assert.ErrorIs(t, err, email.ErrInvalidMessage)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
