package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"launch-gate/internal/auth"
	"launch-gate/internal/waitlist"
	"launch-gate/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Issuer is the slice of auth.Manager the login endpoint needs.
type Issuer interface {
	Issue(now time.Time, password string) (string, error)
}

// Subscriber is the slice of waitlist.Service the signup and launch endpoints need.
type Subscriber interface {
	Subscribe(ctx context.Context, email string) (waitlist.Subscriber, bool, error)
	Count(ctx context.Context) (int64, error)
}

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.
type Handlers struct {
	Auth     Issuer
	Waitlist Subscriber

	// SecureCookies sets the Secure flag on the token cookie (production).
	SecureCookies bool
	LaunchAt      time.Time

	// Now defaults to time.Now.
	Now func() time.Time
}

func (h Handlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// --- Auth ---

type loginRequest struct {
	Password string `json:"password"`
	From     string `json:"from"`
}

// Login checks the site password and sets the token cookie.
// Response bodies are fixed strings; they never say why a check failed.
func (h Handlers) Login(c *gin.Context) {
	log := logger.FromGin(c)
	if h.Auth == nil {
		log.Error("login: issuer not configured")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Server configuration error"})
		return
	}

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	tok, err := h.Auth.Issue(h.now(), req.Password)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrUnauthorized):
		log.Info("login rejected")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
		return
	case errors.Is(err, auth.ErrServerConfiguration):
		log.Error("login: signing key not configured")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Server configuration error"})
		return
	default:
		log.Error("login: token issuance failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	auth.SetTokenCookie(c, tok, h.SecureCookies)
	c.JSON(http.StatusOK, gin.H{"success": true, "redirect": auth.SafeReturnPath(req.From)})
}

// Logout drops the token cookie. The token itself stays valid until it expires.
func (h Handlers) Logout(c *gin.Context) {
	auth.ClearTokenCookie(c, h.SecureCookies)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// --- Launch ---

// Launch reports the countdown target and the whole seconds left, clamped at zero.
// waitlist_count is omitted when the store cannot be read; the countdown still answers.
func (h Handlers) Launch(c *gin.Context) {
	remaining := h.LaunchAt.Sub(h.now())
	if remaining < 0 {
		remaining = 0
	}
	body := gin.H{
		"launch_at":         h.LaunchAt.UTC().Format(time.RFC3339),
		"remaining_seconds": int64(remaining / time.Second),
		"launched":          remaining == 0,
	}
	if h.Waitlist != nil {
		n, err := h.Waitlist.Count(c.Request.Context())
		if err != nil {
			logger.FromGin(c).Warn("waitlist: count failed", "err", err)
		} else {
			body["waitlist_count"] = n
		}
	}
	c.JSON(http.StatusOK, body)
}

func (h Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// --- Waitlist ---

type subscribeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// Subscribe adds an address to the launch waitlist. Repeats answer 200 instead of 201.
func (h Handlers) Subscribe(c *gin.Context) {
	if h.Waitlist == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "waitlist not configured"})
		return
	}
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "valid email required"})
		return
	}

	_, created, err := h.Waitlist.Subscribe(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, waitlist.ErrInvalidEmail) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "valid email required"})
			return
		}
		logger.FromGin(c).Error("waitlist: subscribe failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "subscription failed"})
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"subscribed": true})
}
