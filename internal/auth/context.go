package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/jesseg-dev/portfolio-site/internal/auth/domain"
)

const (
	CtxSession = "session"

	// SessionCookie carries the session token for browser requests.
	SessionCookie = "portfolio_session"
)

// SessionFrom returns the session resolved by the session middleware, or nil.
func SessionFrom(c *gin.Context) *domain.Session {
	v, ok := c.Get(CtxSession)
	if !ok {
		return nil
	}
	sess, _ := v.(*domain.Session)
	return sess
}
