package email

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// DevSender writes rendered emails to a local directory instead of sending
// them. Each message becomes one HTML file named after its timestamp and tag,
// which makes verification links easy to pick up during development.
type DevSender struct {
	dir string
}

// NewDevSender creates a file-backed sender. The directory is created on
// first send.
func NewDevSender(dir string) *DevSender {
	return &DevSender{dir: dir}
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

func (d *DevSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}

	label := msg.Tag
	if label == "" {
		label = msg.Subject
	}
	label = strings.ToLower(unsafeFilenameChars.ReplaceAllString(strings.ReplaceAll(label, " ", "_"), ""))
	if label == "" {
		label = "email"
	}

	name := fmt.Sprintf("%s_%s.html", time.Now().Format("2006_01_02_150405.000"), label)
	body := fmt.Sprintf("<!-- to: %s | subject: %s -->\n%s", msg.To, msg.Subject, msg.BodyHTML)

	if err := os.WriteFile(filepath.Join(d.dir, name), []byte(body), 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}
	return nil
}
