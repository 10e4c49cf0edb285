package auth

import (
	"crypto/subtle"
	"fmt"
	"time"

	"launch-gate/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the fixed lifetime of an access token and of its cookie.
const TokenTTL = 24 * time.Hour

var signingMethod = jwt.SigningMethodHS256

// Manager issues and verifies site access tokens.
// It holds only the two secrets and is safe for concurrent use.
type Manager struct {
	password []byte
	secret   []byte
}

// NewManager never fails: a missing signing key is reported per request as
// ErrServerConfiguration so the login endpoint can fail closed.
func NewManager(cfg config.AuthConfig) *Manager {
	return &Manager{
		password: []byte(cfg.SitePassword),
		secret:   []byte(cfg.JWTSecret),
	}
}

/* ===================== ISSUE TOKEN ===================== */

// Issue checks password against the site password and, on match, mints a token
// valid from now until now+TokenTTL.
//
// The signing key is checked first so a misconfigured server answers the same
// way for right and wrong passwords.
func (m *Manager) Issue(now time.Time, password string) (string, error) {
	if len(m.secret) == 0 {
		return "", ErrServerConfiguration
	}
	if !m.checkPassword(password) {
		return "", ErrUnauthorized
	}

	// NumericDate keeps whole seconds; truncate once so exp-iat is exactly
	// TokenTTL, the cookie Max-Age.
	now = now.Truncate(time.Second)
	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
	}
	tok, err := jwt.NewWithClaims(signingMethod, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("%w: sign token: %v", ErrInternal, err)
	}
	return tok, nil
}

func (m *Manager) checkPassword(password string) bool {
	// An unset site password never matches, not even an empty submission.
	if len(m.password) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), m.password) == 1
}

/* ===================== VERIFY TOKEN ===================== */

// Verify reports why tokenString is not valid at now, or nil when it is.
// A token is valid iff its HS256 signature verifies under the current key and
// now is before its expiry.
func (m *Manager) Verify(tokenString string, now time.Time) error {
	if len(m.secret) == 0 {
		return ErrServerConfiguration
	}
	if tokenString == "" {
		return fmt.Errorf("%w: token missing", ErrUnauthorized)
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)

	// exp is checked as now < exp with no leeway.
	var claims jwt.RegisteredClaims
	_, err := parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	return nil
}

// Authorized collapses Verify to the guard's predicate.
func (m *Manager) Authorized(tokenString string, now time.Time) bool {
	return m.Verify(tokenString, now) == nil
}
