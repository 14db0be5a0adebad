package auth

import (
	"context"
	"fmt"

	"github.com/authforge/authforge/pkg/auth"
	"github.com/authforge/authforge/pkg/email"
)

// Mailer adapts an email.Sender to the auth.Mailer contract, rendering the
// transactional bodies for the verification and reset flows.
type Mailer struct {
	sender email.Sender
}

// NewMailer wraps the given sender.
func NewMailer(sender email.Sender) *Mailer {
	return &Mailer{sender: sender}
}

func (m *Mailer) SendEmailVerification(ctx context.Context, to, username, link string) error {
	body, err := email.Render(ctx, verificationEmail(username, link))
	if err != nil {
		return fmt.Errorf("failed to render verification email: %w", err)
	}
	return m.sender.Send(ctx, email.Message{
		To:       to,
		Subject:  "Please verify your email",
		BodyHTML: body,
		Tag:      "email-verification",
	})
}

func (m *Mailer) SendPasswordReset(ctx context.Context, to, username, link string) error {
	body, err := email.Render(ctx, passwordResetEmail(username, link))
	if err != nil {
		return fmt.Errorf("failed to render password reset email: %w", err)
	}
	return m.sender.Send(ctx, email.Message{
		To:       to,
		Subject:  "Reset your password",
		BodyHTML: body,
		Tag:      "password-reset",
	})
}

var _ auth.Mailer = (*Mailer)(nil)
