package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutoria-api/internal/middleware"
	"github.com/noah-isme/tutoria-api/internal/models"
	appErrors "github.com/noah-isme/tutoria-api/pkg/errors"
)

func authFromContext(c *gin.Context) models.AuthContext {
	return middleware.AuthFromContext(c)
}

func sessionIDFromContext(c *gin.Context) string {
	return middleware.SessionIDFromContext(c)
}

// parseID reads a record id path or query value. Anything that is not a
// positive integer cannot name a record and is reported as not found.
func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.ErrNotFound
	}
	return id, nil
}
