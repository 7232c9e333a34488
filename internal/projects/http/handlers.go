package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	httpapi "github.com/jesseg-dev/portfolio-site/internal/api/http"
	"github.com/jesseg-dev/portfolio-site/internal/api/http/middleware"
	"github.com/jesseg-dev/portfolio-site/internal/auth"
	authdomain "github.com/jesseg-dev/portfolio-site/internal/auth/domain"
	"github.com/jesseg-dev/portfolio-site/internal/logging"
	"github.com/jesseg-dev/portfolio-site/internal/projects/domain"
	"github.com/jesseg-dev/portfolio-site/internal/projects/service"
)

func (h *Handler) listPublic(c *gin.Context) {
	items, err := h.svc.ListPublic(c.Request.Context())
	if err != nil {
		writeError(c, "projects.list_public", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) getPublic(c *gin.Context) {
	p, err := h.svc.GetPublic(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "projects.get_public", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) listAdmin(c *gin.Context) {
	items, err := h.svc.ListAdmin(c.Request.Context(), auth.SessionFrom(c))
	if err != nil {
		writeError(c, "projects.list_admin", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) getAdmin(c *gin.Context) {
	p, err := h.svc.GetAdmin(c.Request.Context(), auth.SessionFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, "projects.get_admin", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) create(c *gin.Context) {
	sess := auth.SessionFrom(c)
	if sess == nil {
		rejectUnauthenticated(c, "create")
		return
	}

	var req domain.ProjectInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.AbortError(c, http.StatusBadRequest, httpapi.CodeInvalidBody, "invalid body")
		return
	}

	p, err := h.svc.Create(c.Request.Context(), sess, req)
	if err != nil {
		middleware.RecordProjectMutation("create", resultLabel(err))
		writeError(c, "projects.create", err)
		return
	}

	middleware.RecordProjectMutation("create", "ok")
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) replace(c *gin.Context) {
	sess := auth.SessionFrom(c)
	if sess == nil {
		rejectUnauthenticated(c, "replace")
		return
	}

	var req domain.ProjectInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.AbortError(c, http.StatusBadRequest, httpapi.CodeInvalidBody, "invalid body")
		return
	}

	p, err := h.svc.Replace(c.Request.Context(), sess, c.Param("id"), req)
	if err != nil {
		middleware.RecordProjectMutation("replace", resultLabel(err))
		writeError(c, "projects.replace", err)
		return
	}

	middleware.RecordProjectMutation("replace", "ok")
	c.JSON(http.StatusOK, p)
}

func (h *Handler) patch(c *gin.Context) {
	sess := auth.SessionFrom(c)
	if sess == nil {
		rejectUnauthenticated(c, "patch")
		return
	}

	var req domain.ProjectPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.AbortError(c, http.StatusBadRequest, httpapi.CodeInvalidBody, "invalid body")
		return
	}

	p, err := h.svc.Patch(c.Request.Context(), sess, c.Param("id"), req)
	if err != nil {
		middleware.RecordProjectMutation("patch", resultLabel(err))
		writeError(c, "projects.patch", err)
		return
	}

	middleware.RecordProjectMutation("patch", "ok")
	c.JSON(http.StatusOK, p)
}

func (h *Handler) delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), auth.SessionFrom(c), c.Param("id"))
	if err != nil {
		middleware.RecordProjectMutation("delete", resultLabel(err))
		writeError(c, "projects.delete", err)
		return
	}

	middleware.RecordProjectMutation("delete", "ok")
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// rejectUnauthenticated answers before the body is read so a missing session
// wins over a malformed payload.
func rejectUnauthenticated(c *gin.Context, op string) {
	middleware.RecordProjectMutation(op, "unauthorized")
	writeError(c, "projects."+op, authdomain.ErrUnauthorized)
}

// writeError maps service errors onto status codes. Expected failures carry
// their message; anything else is logged and hidden.
func writeError(c *gin.Context, op string, err error) {
	var verr *domain.ValidationError

	switch {
	case errors.Is(err, authdomain.ErrUnauthorized):
		httpapi.AbortError(c, http.StatusUnauthorized, httpapi.CodeUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden):
		httpapi.AbortError(c, http.StatusForbidden, httpapi.CodeForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httpapi.AbortError(c, http.StatusNotFound, httpapi.CodeNotFound, err.Error())
	case errors.As(err, &verr):
		httpapi.AbortValidation(c, verr.Error(), verr.Fields)
	case errors.Is(err, context.DeadlineExceeded):
		logging.NewLogger(c.Request.Context()).LogWarnf(op, "request deadline exceeded")
		httpapi.AbortError(c, http.StatusServiceUnavailable, httpapi.CodeTimeout, "request timed out")
	default:
		logging.NewLogger(c.Request.Context()).LogError(op, err)
		httpapi.AbortInternal(c)
	}
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, authdomain.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, service.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}
