package http

import "github.com/gin-gonic/gin"

// Register attaches /login, /logout and /session. loginMW runs in front of
// login only (rate limiting).
func (h *Handler) Register(rg *gin.RouterGroup, loginMW ...gin.HandlerFunc) {
	rg.POST("/login", append(loginMW, h.Login)...)
	rg.POST("/logout", h.Logout)
	rg.GET("/session", h.Session)
}
