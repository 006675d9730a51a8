package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/tutoria-api/pkg/errors"
	"github.com/noah-isme/tutoria-api/pkg/response"
)

// RequireLoginPage redirects anonymous visitors to the login page.
func RequireLoginPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !AuthFromContext(c).Authenticated() {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireLoginAPI rejects anonymous API calls with 401.
func RequireLoginAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !AuthFromContext(c).Authenticated() {
			response.Abort(c, appErrors.ErrUnauthorized)
			return
		}
		c.Next()
	}
}

// RequireGestaoPage sends sessions without gestão mode to the PIN gate.
func RequireGestaoPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !AuthFromContext(c).GestaoMode {
			c.Redirect(http.StatusFound, "/gestao")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireGestaoAPI rejects API calls from sessions without gestão mode. The
// flag is checked, not the stored role.
func RequireGestaoAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !AuthFromContext(c).GestaoMode {
			response.Abort(c, appErrors.ErrGestaoLocked)
			return
		}
		c.Next()
	}
}
