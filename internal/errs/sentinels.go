// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates failed authentication/authorization.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnavailable indicates a remote service could not be reached or
	// returned an unusable response (breach endpoints, object storage).
	ErrUnavailable = errors.New("service unavailable")

	// ErrRateLimited indicates the remote service rejected the call for rate reasons.
	ErrRateLimited = errors.New("rate limited")
)
