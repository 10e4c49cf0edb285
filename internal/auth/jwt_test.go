package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"launch-gate/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

func newTestManager() *Manager {
	return NewManager(config.AuthConfig{SitePassword: "open-sesame", JWTSecret: "secret"})
}

func TestIssueAndVerify(t *testing.T) {
	m := newTestManager()

	now := time.Unix(1700000000, 0).UTC()
	tok, err := m.Issue(now, "open-sesame")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if tok == "" {
		t.Fatalf("expected token string")
	}

	if err := m.Verify(tok, now.Add(time.Minute)); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestIssueEncodesTimestampsAndAlgorithm(t *testing.T) {
	m := newTestManager()
	now := time.Unix(1700000000, 0).UTC()
	tok, err := m.Issue(now, "open-sesame")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	var claims jwt.RegisteredClaims
	parsed, _, err := jwt.NewParser().ParseUnverified(tok, &claims)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if alg, _ := parsed.Header["alg"].(string); alg != "HS256" {
		t.Fatalf("expected HS256, got %q", alg)
	}
	if !claims.IssuedAt.Time.Equal(now) {
		t.Fatalf("expected iat %s, got %s", now, claims.IssuedAt.Time)
	}
	if !claims.ExpiresAt.Time.Equal(now.Add(24 * time.Hour)) {
		t.Fatalf("expected exp one day after iat, got %s", claims.ExpiresAt.Time)
	}
	if claims.Subject != "" || claims.ID != "" {
		t.Fatalf("token must not carry identity: %+v", claims)
	}
}

func TestIssueSubSecondTimeAlignsToWholeSeconds(t *testing.T) {
	m := newTestManager()
	base := time.Unix(1700000000, 0).UTC()
	tok, err := m.Issue(base.Add(700*time.Millisecond), "open-sesame")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tok, &claims); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !claims.IssuedAt.Time.Equal(base) {
		t.Fatalf("expected iat %s, got %s", base, claims.IssuedAt.Time)
	}
	if got := claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time); got != TokenTTL {
		t.Fatalf("expected exp-iat == %s, got %s", TokenTTL, got)
	}
	if !m.Authorized(tok, base.Add(TokenTTL-time.Nanosecond)) {
		t.Fatalf("expected token valid until iat+TTL")
	}
	if m.Authorized(tok, base.Add(TokenTTL)) {
		t.Fatalf("expected token invalid at iat+TTL")
	}
}

func TestIssueRejectsWrongPassword(t *testing.T) {
	m := newTestManager()
	for _, pw := range []string{"", "open-sesam", "open-sesame ", "OPEN-SESAME", "x"} {
		tok, err := m.Issue(time.Now(), pw)
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("password %q: expected ErrUnauthorized, got %v", pw, err)
		}
		if tok != "" {
			t.Fatalf("password %q: expected no token", pw)
		}
	}
}

func TestIssueEmptySitePasswordNeverMatches(t *testing.T) {
	m := NewManager(config.AuthConfig{JWTSecret: "secret"})
	if _, err := m.Issue(time.Now(), ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestIssueMissingSigningKeyDoesNotRevealPassword(t *testing.T) {
	m := NewManager(config.AuthConfig{SitePassword: "open-sesame"})
	for _, pw := range []string{"open-sesame", "wrong"} {
		_, err := m.Issue(time.Now(), pw)
		if !errors.Is(err, ErrServerConfiguration) {
			t.Fatalf("password %q: expected ErrServerConfiguration, got %v", pw, err)
		}
	}
}

func TestVerifyExpiryBoundary(t *testing.T) {
	m := newTestManager()
	iat := time.Unix(1700000000, 0).UTC()
	tok, err := m.Issue(iat, "open-sesame")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if !m.Authorized(tok, iat.Add(TokenTTL-time.Second)) {
		t.Fatalf("expected token valid just before expiry")
	}
	if m.Authorized(tok, iat.Add(TokenTTL)) {
		t.Fatalf("expected token invalid at expiry")
	}
	err = m.Verify(tok, iat.Add(TokenTTL+time.Hour))
	if !errors.Is(err, ErrUnauthorized) || !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected expired unauthorized error, got %v", err)
	}
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	other := NewManager(config.AuthConfig{SitePassword: "open-sesame", JWTSecret: "another-secret"})
	now := time.Now()
	tok, err := other.Issue(now, "open-sesame")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	m := newTestManager()
	for _, at := range []time.Time{now, now.Add(time.Minute), now.Add(2 * TokenTTL)} {
		if m.Authorized(tok, at) {
			t.Fatalf("expected token from a different key to be rejected at %s", at)
		}
	}
}

func TestVerifyRejectsMalformedAndOtherAlgorithms(t *testing.T) {
	m := newTestManager()
	now := time.Now()

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign hs512: %v", err)
	}
	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		IssuedAt: jwt.NewNumericDate(now),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign no exp: %v", err)
	}

	for name, tok := range map[string]string{
		"empty":     "",
		"garbage":   "not-a-token",
		"alg none":  none,
		"hs512":     hs512,
		"no expiry": noExp,
	} {
		if err := m.Verify(tok, now); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("%s: expected ErrUnauthorized, got %v", name, err)
		}
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	m := newTestManager()
	now := time.Now()
	tok, err := m.Issue(now, "open-sesame")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	parts := strings.Split(tok, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)
	if m.Authorized(tampered, now) {
		t.Fatalf("expected tampered token to be rejected")
	}
}

func TestVerifyMissingSigningKey(t *testing.T) {
	tok, err := newTestManager().Issue(time.Now(), "open-sesame")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	m := NewManager(config.AuthConfig{SitePassword: "open-sesame"})
	if err := m.Verify(tok, time.Now()); !errors.Is(err, ErrServerConfiguration) {
		t.Fatalf("expected ErrServerConfiguration, got %v", err)
	}
}

func TestVerifyIsIdempotent(t *testing.T) {
	m := newTestManager()
	now := time.Now()
	tok, err := m.Issue(now, "open-sesame")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	first := m.Authorized(tok, now.Add(time.Second))
	second := m.Authorized(tok, now.Add(time.Second))
	if !first || !second {
		t.Fatalf("expected both verifications to succeed, got %v and %v", first, second)
	}
}
