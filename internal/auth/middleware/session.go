package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jesseg-dev/portfolio-site/internal/auth"
	"github.com/jesseg-dev/portfolio-site/internal/auth/domain"
	"github.com/jesseg-dev/portfolio-site/internal/logging"
)

// Verifier resolves a raw session token.
type Verifier interface {
	Verify(ctx context.Context, raw string) (*domain.Session, error)
}

// SessionMiddleware resolves the session token, if any, and stores the session
// in the gin context. It never rejects a request: the operations that need a
// session check for it themselves.
func SessionMiddleware(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractToken(c)
		if raw == "" {
			c.Next()
			return
		}

		sess, err := v.Verify(c.Request.Context(), raw)
		if err != nil {
			if !errors.Is(err, domain.ErrUnauthorized) {
				logging.NewLogger(c.Request.Context()).LogError("auth.verify", err)
			}
			c.Next()
			return
		}

		c.Set(auth.CtxSession, sess)
		c.Next()
	}
}

// RequireSessionPage redirects browsers without a session to the login page.
func RequireSessionPage(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth.SessionFrom(c) == nil {
			c.Redirect(http.StatusSeeOther, loginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// extractToken reads the Bearer token from the Authorization header,
// falling back to the session cookie.
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return strings.TrimSpace(bearerToken[7:])
	}

	if cookie, err := c.Cookie(auth.SessionCookie); err == nil {
		return cookie
	}
	return ""
}
