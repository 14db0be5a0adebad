// Package auth implements the account-authentication core: credential
// hashing and verification, signed access/refresh token issuance and
// rotation, and single-use out-of-band tokens for email verification and
// password reset.
//
// The package is organized around two orchestrating services backed by
// stateless helpers:
//
//   - SessionService drives registration, login, logout, token refresh and
//     password changes. Exactly one refresh token is live per user at any
//     time; it is stored on the user record and replaced on every login and
//     refresh, which is the sole session-invalidation mechanism.
//
//   - VerificationService drives the email-verification and password-reset
//     flows built on one-time tokens: a random plaintext is emailed to the
//     user while only its digest and expiry are persisted, so each token can
//     be consumed exactly once while it is still inside its validity window.
//
// Persistence and mail delivery are collaborator interfaces (Storage,
// Mailer); the services never touch a database driver or SMTP directly.
// All expected failures are sentinel errors in errors.go so that transport
// layers can map them to status codes with errors.Is; anything else that
// bubbles up is an internal failure.
package auth
