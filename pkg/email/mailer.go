package email

import (
	"context"
	"fmt"
	"net/mail"
)

// Sender delivers a single transactional email.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Message is one outbound email. BodyHTML is the fully rendered body; Tag is
// an optional label used for provider-side analytics and dev-sender filenames.
type Message struct {
	To       string
	Subject  string
	BodyHTML string
	Tag      string
}

// Validate checks that the message is deliverable.
func (m Message) Validate() error {
	if _, err := mail.ParseAddress(m.To); err != nil {
		return fmt.Errorf("%w: invalid recipient %q", ErrInvalidMessage, m.To)
	}
	if m.Subject == "" {
		return fmt.Errorf("%w: empty subject", ErrInvalidMessage)
	}
	if m.BodyHTML == "" {
		return fmt.Errorf("%w: empty body", ErrInvalidMessage)
	}
	return nil
}
