package http

import "github.com/gin-gonic/gin"

// Register attaches the session-gated admin routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.listAdmin)
	rg.POST("", h.create)
	rg.GET("/:id", h.getAdmin)
	rg.PUT("/:id", h.replace)
	rg.PATCH("/:id", h.patch)
	rg.DELETE("/:id", h.delete)
}

// RegisterPublic attaches the read-only published listing.
func (h *Handler) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("", h.listPublic)
	rg.GET("/:id", h.getPublic)
}
