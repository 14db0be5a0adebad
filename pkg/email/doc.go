// Package email defines the outbound transactional mail contract and two
// implementations: a Postmark-backed sender for production and a file-based
// sender for local development.
//
// Callers render the HTML body themselves (see the templates helper) and the
// sender is responsible only for delivery. Delivery failures are reported
// synchronously and wrapped with ErrSendFailed so that orchestrating services
// can surface them as mail-delivery errors.
package email
