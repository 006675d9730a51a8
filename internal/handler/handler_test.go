package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutoria-api/internal/middleware"
	"github.com/noah-isme/tutoria-api/internal/models"
	"github.com/noah-isme/tutoria-api/internal/session"
	"github.com/noah-isme/tutoria-api/web"
)

var (
	professor = models.AuthContext{UserID: 7, Username: "renato", Role: models.RoleProfessor}
	gestao    = models.AuthContext{UserID: 1, Username: "gestao", Role: models.RoleGestao, GestaoMode: true}
)

const testSessionID = "5b0c7c38-5c3c-4c55-a0b2-1f9c2a3e8d11"

// newTestRouter returns a router with the views loaded and, when auth is
// authenticated, the request context populated the way the session middleware
// does it.
func newTestRouter(t *testing.T, auth models.AuthContext) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tmpl, err := web.Templates()
	require.NoError(t, err)

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.Use(func(c *gin.Context) {
		if auth.Authenticated() {
			c.Set(middleware.ContextAuthKey, auth)
			c.Set(middleware.ContextSessionKey, testSessionID)
		}
		c.Next()
	})
	return router
}

func newTestTransport(t *testing.T) (*session.Signer, *session.Cookies) {
	t.Helper()
	signer, err := session.NewSigner("test-secret", time.Hour)
	require.NoError(t, err)
	return signer, session.NewCookies("tutorias_session", false, time.Hour)
}

func findCookie(res *http.Response, name string) *http.Cookie {
	for _, cookie := range res.Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}
