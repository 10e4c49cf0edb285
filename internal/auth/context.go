package auth

import "context"

type ctxKey int

const ctxAuthorized ctxKey = iota

// WithAuthorized marks ctx as belonging to a visitor that passed the gate.
func WithAuthorized(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxAuthorized, true)
}

// IsAuthorized reports whether the guard admitted the request with a valid token.
// Requests on the login page or on excluded paths are never marked.
func IsAuthorized(ctx context.Context) bool {
	v, _ := ctx.Value(ctxAuthorized).(bool)
	return v
}
