package http

import (
	"time"

	"github.com/jesseg-dev/portfolio-site/internal/auth/service"
)

// CookieOptions controls the session cookie written on login.
type CookieOptions struct {
	Secure bool
	TTL    time.Duration
}

type Handler struct {
	authService *service.AuthService
	cookie      CookieOptions
}

func New(authService *service.AuthService, cookie CookieOptions) *Handler {
	return &Handler{
		authService: authService,
		cookie:      cookie,
	}
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type sessionResponse struct {
	OK          bool      `json:"ok"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type loginResponse struct {
	sessionResponse
	Token string `json:"token"`
}
