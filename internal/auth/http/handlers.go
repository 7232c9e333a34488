package http

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	httpapi "github.com/jesseg-dev/portfolio-site/internal/api/http"
	"github.com/jesseg-dev/portfolio-site/internal/api/http/middleware"
	"github.com/jesseg-dev/portfolio-site/internal/auth"
	"github.com/jesseg-dev/portfolio-site/internal/auth/domain"
	"github.com/jesseg-dev/portfolio-site/internal/logging"
)

// Paths used when login and logout come from the HTML admin forms.
const (
	AdminPath      = "/admin"
	AdminLoginPath = "/admin/login"
)

// Login checks the credential and starts a session. JSON callers get the
// token in the body; form posts from the login page are redirected.
func (h *Handler) Login(c *gin.Context) {
	form := isFormPost(c)

	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		if form {
			redirectLoginError(c, "invalid request")
			return
		}
		httpapi.AbortError(c, http.StatusBadRequest, httpapi.CodeInvalidBody, "invalid body")
		return
	}

	res, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		status, code, msg := loginFailure(c, err)
		if form {
			redirectLoginError(c, msg)
			return
		}
		httpapi.AbortError(c, status, code, msg)
		return
	}

	middleware.RecordLoginAttempt("success")
	logging.NewLogger(c.Request.Context()).LogInfof("auth.login", "admin %s signed in", res.User.Email)
	h.setCookie(c, res.Token, int(h.cookie.TTL.Seconds()))

	if form {
		c.Redirect(http.StatusSeeOther, AdminPath)
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		sessionResponse: sessionResponse{
			OK:          true,
			Email:       res.Session.Email,
			DisplayName: res.Session.DisplayName,
			ExpiresAt:   res.Session.ExpiresAt,
		},
		Token: res.Token,
	})
}

// Logout revokes the current session, if any, and clears the cookie.
func (h *Handler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), auth.SessionFrom(c)); err != nil {
		logging.NewLogger(c.Request.Context()).LogError("auth.logout", err)
		httpapi.AbortInternal(c)
		return
	}
	h.setCookie(c, "", -1)

	if isFormPost(c) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Session reports the current session.
func (h *Handler) Session(c *gin.Context) {
	sess := auth.SessionFrom(c)
	if sess == nil {
		httpapi.AbortError(c, http.StatusUnauthorized, httpapi.CodeUnauthorized, domain.ErrUnauthorized.Error())
		return
	}
	c.JSON(http.StatusOK, sessionResponse{
		OK:          true,
		Email:       sess.Email,
		DisplayName: sess.DisplayName,
		ExpiresAt:   sess.ExpiresAt,
	})
}

func (h *Handler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.SessionCookie, value, maxAge, "/", "", h.cookie.Secure, true)
}

func loginFailure(c *gin.Context, err error) (int, string, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		middleware.RecordLoginAttempt("invalid")
		return http.StatusUnauthorized, httpapi.CodeInvalidLogin, err.Error()
	case errors.Is(err, domain.ErrAccountLocked):
		middleware.RecordLoginAttempt("locked")
		return http.StatusTooManyRequests, httpapi.CodeLocked, err.Error()
	default:
		middleware.RecordLoginAttempt("error")
		logging.NewLogger(c.Request.Context()).LogError("auth.login", err)
		return http.StatusInternalServerError, httpapi.CodeInternal, "login failed, please try again"
	}
}

func isFormPost(c *gin.Context) bool {
	return c.ContentType() == gin.MIMEPOSTForm
}

func redirectLoginError(c *gin.Context, msg string) {
	c.Redirect(http.StatusSeeOther, AdminLoginPath+"?error="+url.QueryEscape(msg))
}
