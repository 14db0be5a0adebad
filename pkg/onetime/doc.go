// Package onetime generates high-entropy single-use tokens for out-of-band
// verification flows such as email confirmation and password reset.
//
// A generated token has two representations: the plaintext that is embedded
// in a link and emailed to the user, and its SHA-256 digest which is the only
// form ever persisted. Because the digest is unsalted it can be recomputed
// from an incoming plaintext with Digest and used as a lookup key, which is
// what makes single-use consumption possible without storing the secret.
//
// Usage:
//
//	factory := onetime.NewFactory(20 * time.Minute)
//	tok, err := factory.Generate()
//	// store tok.Digest and tok.ExpiresAt, email tok.Plaintext
//
//	// later, on consumption:
//	digest := onetime.Digest(incoming)
//	// look up the stored record by digest and check expiry
package onetime
