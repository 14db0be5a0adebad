// Package jwt implements HMAC-SHA256 signed JWTs for stateless
// authentication credentials.
//
// A Service is bound to a single signing secret. Systems that issue more
// than one token class (for example short-lived access tokens and long-lived
// refresh tokens) should create one Service per class so that compromise of
// one key space cannot forge tokens in the other.
//
// Expiry is embedded in the token itself via the standard "exp" claim, so a
// token is self-describing and can be rejected without any server-side
// bookkeeping. Parse distinguishes ErrTokenExpired from ErrSignatureInvalid
// for diagnostics; callers should treat both as authentication failure.
package jwt
