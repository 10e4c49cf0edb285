package auth

import "errors"

// Error classes of the gate. Callers branch with errors.Is; messages sent to
// clients are fixed strings chosen by the HTTP layer, never err.Error().
var (
	// ErrUnauthorized covers a wrong password and an absent, malformed,
	// forged or expired token alike.
	ErrUnauthorized = errors.New("auth: unauthorized")

	// ErrServerConfiguration means the signing key is not configured.
	ErrServerConfiguration = errors.New("auth: signing key not configured")

	// ErrInternal wraps unexpected failures while minting a token.
	ErrInternal = errors.New("auth: internal error")
)
