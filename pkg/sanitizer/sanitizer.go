// Package sanitizer normalizes user-supplied identity fields before they are
// validated, stored, or used as lookup keys. Normalizing at the boundary is
// what makes email/username uniqueness effectively case-insensitive.
package sanitizer

import (
	"regexp"
	"strings"
)

var consecutiveDots = regexp.MustCompile(`\.{2,}`)

// NormalizeEmail lowercases and trims an email address and collapses
// consecutive dots in the local part. Strings that are not shaped like an
// email are returned trimmed and lowercased so that validation can reject
// them with the original intent visible.
func NormalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))

	local, domain, ok := strings.Cut(email, "@")
	if !ok || strings.Contains(domain, "@") {
		return email
	}

	local = consecutiveDots.ReplaceAllString(local, ".")
	local = strings.Trim(local, ".")

	return local + "@" + domain
}

// NormalizeUsername lowercases and trims a username. Usernames are stored
// and compared only in this canonical form.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
