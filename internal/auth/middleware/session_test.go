package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/jesseg-dev/portfolio-site/internal/auth"
	"github.com/jesseg-dev/portfolio-site/internal/auth/domain"
)

type stubVerifier struct {
	tokens map[string]*domain.Session
	err    error
	seen   []string
}

func (s *stubVerifier) Verify(_ context.Context, raw string) (*domain.Session, error) {
	s.seen = append(s.seen, raw)
	if s.err != nil {
		return nil, s.err
	}
	if sess, ok := s.tokens[raw]; ok {
		return sess, nil
	}
	return nil, domain.ErrUnauthorized
}

func newRouter(v Verifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SessionMiddleware(v))
	r.GET("/whoami", func(c *gin.Context) {
		if sess := auth.SessionFrom(c); sess != nil {
			c.String(http.StatusOK, sess.Email)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	r.GET("/admin", RequireSessionPage("/admin/login"), func(c *gin.Context) {
		c.String(http.StatusOK, "dashboard")
	})
	return r
}

func TestSessionMiddleware(t *testing.T) {
	sess := &domain.Session{ID: "s", UserID: "u", Email: "admin@example.com", ExpiresAt: time.Now().Add(time.Hour)}
	v := &stubVerifier{tokens: map[string]*domain.Session{"good": sess}}
	r := newRouter(v)

	tests := []struct {
		name   string
		setup  func(*http.Request)
		expect string
	}{
		{"no token", func(*http.Request) {}, "anonymous"},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer good") }, "admin@example.com"},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: "good"}) }, "admin@example.com"},
		{"bad token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer bad") }, "anonymous"},
		{"non-bearer header", func(r *http.Request) { r.Header.Set("Authorization", "Basic good") }, "anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			tt.setup(req)
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tt.expect, rr.Body.String())
		})
	}
}

func TestSessionMiddleware_VerifierErrorIsAnonymous(t *testing.T) {
	r := newRouter(&stubVerifier{err: errors.New("redis down")})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer good")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, "anonymous", rr.Body.String())
}

func TestRequireSessionPage(t *testing.T) {
	sess := &domain.Session{ID: "s", UserID: "u", ExpiresAt: time.Now().Add(time.Hour)}
	r := newRouter(&stubVerifier{tokens: map[string]*domain.Session{"good": sess}})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/admin/login", rr.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: "good"})
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "dashboard", rr.Body.String())
}
