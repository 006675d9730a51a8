package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Cookies reads and writes the session cookie.
type Cookies struct {
	name   string
	secure bool
	ttl    time.Duration
}

// NewCookies constructs the cookie helper.
func NewCookies(name string, secure bool, ttl time.Duration) *Cookies {
	return &Cookies{name: name, secure: secure, ttl: ttl}
}

// Name returns the cookie name.
func (h *Cookies) Name() string {
	return h.name
}

// Set writes the session token.
func (h *Cookies) Set(c *gin.Context, token string) {
	h.write(c, token, int(h.ttl.Seconds()))
}

// Clear expires the session cookie.
func (h *Cookies) Clear(c *gin.Context) {
	h.write(c, "", -1)
}

// Read returns the token from the request, or an empty string.
func (h *Cookies) Read(c *gin.Context) string {
	token, err := c.Cookie(h.name)
	if err != nil {
		return ""
	}
	return token
}

func (h *Cookies) write(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.name, value, maxAge, "/", "", h.secure, true)
}
