package auth

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"launch-gate/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	LoginPath = "/login"
	HomePath  = "/"

	// ReturnParam carries the originally requested path to the login page.
	ReturnParam = "from"
)

// GuardOptions selects which requests the guard sees.
type GuardOptions struct {
	// ExcludedPrefixes bypass the guard when the request path begins with any of them.
	ExcludedPrefixes []string
	// ExcludedPaths bypass the guard on exact match.
	ExcludedPaths []string

	// Now defaults to time.Now.
	Now func() time.Time
}

// DefaultGuardOptions leaves API routes, built-in static assets and the favicon ungated.
// Site content, gallery images included, stays behind the guard.
func DefaultGuardOptions() GuardOptions {
	return GuardOptions{
		ExcludedPrefixes: []string{"/api", "/static"},
		ExcludedPaths:    []string{"/favicon.ico"},
	}
}

// Excluded reports whether path bypasses the guard.
func (o GuardOptions) Excluded(path string) bool {
	for _, p := range o.ExcludedPaths {
		if path == p {
			return true
		}
	}
	for _, p := range o.ExcludedPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// IsLoginPath reports whether path is the login page or below it.
func IsLoginPath(path string) bool {
	return path == LoginPath || strings.HasPrefix(path, LoginPath+"/")
}

// Guard gates every non-excluded request on a valid token cookie.
//
// Verification failures never reach the client: they are logged and the
// visitor is treated as anonymous.
func Guard(m *Manager, opts GuardOptions) gin.HandlerFunc {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if opts.Excluded(path) {
			c.Next()
			return
		}

		authorized := false
		if tok := TokenFromRequest(c); tok != "" {
			if err := m.Verify(tok, now()); err != nil {
				logger.FromGin(c).Warn("token verification failed", "path", path, "err", err)
			} else {
				authorized = true
			}
		}

		if IsLoginPath(path) {
			if authorized {
				c.Redirect(http.StatusTemporaryRedirect, HomePath)
				c.Abort()
				return
			}
			c.Next()
			return
		}

		if !authorized {
			c.Redirect(http.StatusTemporaryRedirect, LoginURL(path))
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithAuthorized(c.Request.Context()))
		c.Next()
	}
}

// LoginURL is the login page with from set to the requested path.
func LoginURL(from string) string {
	q := url.Values{}
	q.Set(ReturnParam, from)
	return LoginPath + "?" + q.Encode()
}

// SafeReturnPath returns from when it is a local path other than the login page, else HomePath.
func SafeReturnPath(from string) string {
	if from == "" || !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") || strings.Contains(from, `\`) {
		return HomePath
	}
	u, err := url.Parse(from)
	if err != nil || u.IsAbs() || u.Host != "" || IsLoginPath(u.Path) {
		return HomePath
	}
	return from
}
