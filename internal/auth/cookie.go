package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CookieName is the cookie carrying the access token.
const CookieName = "token"

// SetTokenCookie writes the token cookie: HttpOnly, Path=/, Max-Age=TokenTTL,
// Secure only when secure is set (production).
func SetTokenCookie(c *gin.Context, token string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(TokenTTL.Seconds()), "/", "", secure, true)
}

// ClearTokenCookie asks the browser to drop the token cookie.
func ClearTokenCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", secure, true)
}

// TokenFromRequest returns the raw cookie value, or "" when absent.
func TokenFromRequest(c *gin.Context) string {
	v, err := c.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return v
}
