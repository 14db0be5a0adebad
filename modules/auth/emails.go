package auth

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
)

// verificationEmail renders the email-verification message body. Bodies are
// plain templ components written by hand; the module has no templ-generated
// code.
func verificationEmail(username, link string) templ.Component {
	return emailLayout("Verify your email", func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<p>Hi %s,</p>
<p>Thanks for signing up. Please confirm your email address by clicking the link below. The link expires in 20 minutes.</p>
<p><a href="%s">Verify email address</a></p>
<p>If you did not create an account, you can safely ignore this message.</p>`,
			html.EscapeString(username), html.EscapeString(link))
		return err
	})
}

// passwordResetEmail renders the password-reset message body.
func passwordResetEmail(username, link string) templ.Component {
	return emailLayout("Reset your password", func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<p>Hi %s,</p>
<p>We received a request to reset your password. Click the link below to choose a new one. The link expires in 20 minutes and can be used once.</p>
<p><a href="%s">Reset password</a></p>
<p>If you did not request a reset, your password is unchanged and no action is needed.</p>`,
			html.EscapeString(username), html.EscapeString(link))
		return err
	})
}

func emailLayout(title string, body func(ctx context.Context, w io.Writer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>%s</title></head>
<body style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
<h2>%s</h2>
`, html.EscapeString(title), html.EscapeString(title)); err != nil {
			return err
		}
		if err := body(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n</body>\n</html>\n")
		return err
	})
}
