package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/tutoria-api/pkg/errors"
	"github.com/noah-isme/tutoria-api/pkg/response"
)

// CSRF rejects state-changing requests whose Origin (or Referer) names a site
// other than this one or one of allowedOrigins. Requests carrying neither header
// pass; the session cookie is SameSite=Lax.
func CSRF(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[normalizeOrigin(origin)] = true
	}

	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		source := c.GetHeader("Origin")
		if source == "" || source == "null" {
			source = extractOrigin(c.GetHeader("Referer"))
		}
		if source == "" {
			c.Next()
			return
		}

		if !sameHost(source, c.Request.Host) && !allowed[normalizeOrigin(source)] {
			response.Abort(c, appErrors.Clone(appErrors.ErrForbidden, "origem da requisição não permitida"))
			return
		}
		c.Next()
	}
}

func normalizeOrigin(origin string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(origin)), "/")
}

func extractOrigin(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host
}

func sameHost(origin, host string) bool {
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}
	return strings.EqualFold(parsed.Host, host)
}
