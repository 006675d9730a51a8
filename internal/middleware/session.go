package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoria-api/internal/models"
	"github.com/noah-isme/tutoria-api/internal/session"
	"github.com/noah-isme/tutoria-api/pkg/logger"
)

// Context keys set by Session.
const (
	ContextAuthKey    = "authContext"
	ContextSessionKey = "sessionID"
)

type sessionReader interface {
	Get(ctx context.Context, id string) (*session.Data, error)
}

// Session resolves the session cookie into an AuthContext. Requests without a
// usable session continue anonymously; the guards decide what that means.
func Session(store sessionReader, signer *session.Signer, cookies *session.Cookies, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		token := cookies.Read(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := signer.Parse(token)
		if err != nil {
			cookies.Clear(c)
			c.Next()
			return
		}

		data, err := store.Get(c.Request.Context(), claims.SessionID)
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				cookies.Clear(c)
			} else {
				log.Error("load session", zap.Error(err))
			}
			c.Next()
			return
		}

		if signer.NeedsRefresh(claims) {
			if refreshed, err := signer.Sign(claims.SessionID); err == nil {
				cookies.Set(c, refreshed)
			}
		}

		c.Set(ContextAuthKey, data.AuthContext())
		c.Set(ContextSessionKey, claims.SessionID)
		c.Set(logger.ActorKey, data.UserID)
		c.Next()
	}
}

// AuthFromContext returns the AuthContext of the request; the zero value when
// nobody is logged in.
func AuthFromContext(c *gin.Context) models.AuthContext {
	value, exists := c.Get(ContextAuthKey)
	if !exists {
		return models.AuthContext{}
	}
	auth, ok := value.(models.AuthContext)
	if !ok {
		return models.AuthContext{}
	}
	return auth
}

// SessionIDFromContext returns the id of the loaded session.
func SessionIDFromContext(c *gin.Context) string {
	return c.GetString(ContextSessionKey)
}
