// Package site serves the server-rendered public pages and the admin shell.
// The admin dashboard itself is client-side and talks to the JSON API.
package site

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"github.com/jesseg-dev/portfolio-site/internal/auth"
	authdomain "github.com/jesseg-dev/portfolio-site/internal/auth/domain"
	"github.com/jesseg-dev/portfolio-site/internal/logging"
	"github.com/jesseg-dev/portfolio-site/internal/projects/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed content/profile.yaml
var defaultProfile []byte

// homeLimit caps the projects shown on the landing page.
const homeLimit = 6

// ProjectReader is the read side of the project service used by public pages.
type ProjectReader interface {
	ListPublic(ctx context.Context) ([]*domain.Project, error)
	GetPublic(ctx context.Context, id string) (*domain.Project, error)
}

// Options tunes page content per environment.
type Options struct {
	// LoginHint is shown under the login form when set (non-production only).
	LoginHint string
}

type Handler struct {
	projects ProjectReader
	profile  *Profile
	opts     Options
	md       *Markdown
	pages    map[string]*template.Template
	now      func() time.Time
}

// New parses the embedded templates. A nil profile loads the embedded default.
func New(projects ProjectReader, profile *Profile, opts Options) (*Handler, error) {
	if profile == nil {
		p, err := ParseProfile(defaultProfile)
		if err != nil {
			return nil, err
		}
		profile = p
	}

	h := &Handler{
		projects: projects,
		profile:  profile,
		opts:     opts,
		md:       NewMarkdown(),
		now:      time.Now,
	}

	funcs := template.FuncMap{
		"markdown": h.md.Render,
		"tags":     domain.SplitTags,
		"date":     func(t time.Time) string { return t.Format("Jan 2006") },
	}

	h.pages = make(map[string]*template.Template)
	for _, page := range []string{"home", "about", "contact", "projects", "project", "login", "admin", "notfound"} {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", page, err)
		}
		h.pages[page] = t
	}
	return h, nil
}

// Register attaches the page routes. requireSession guards the dashboard.
func (h *Handler) Register(r gin.IRoutes, requireSession gin.HandlerFunc) {
	r.GET("/", h.home)
	r.GET("/about", h.about)
	r.GET("/contact", h.contact)
	r.GET("/projects", h.listProjects)
	r.GET("/projects/:id", h.showProject)
	r.GET("/admin/login", h.login)
	r.GET("/admin", requireSession, h.admin)
}

// NotFound renders the 404 page; used as the engine's NoRoute handler.
func (h *Handler) NotFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "notfound", pageData{Title: "Not found"})
}

type pageData struct {
	Title    string
	Active   string
	Profile  *Profile
	Session  *authdomain.Session
	Projects []*domain.Project
	Project  *domain.Project
	Error    string
	Hint     string
	Year     int
}

func (h *Handler) home(c *gin.Context) {
	items, err := h.projects.ListPublic(c.Request.Context())
	if err != nil {
		// the landing page still renders without projects
		logging.NewLogger(c.Request.Context()).LogError("site.home", err)
		items = nil
	}
	if len(items) > homeLimit {
		items = items[:homeLimit]
	}
	h.render(c, http.StatusOK, "home", pageData{Title: h.profile.Name, Active: "home", Projects: items})
}

func (h *Handler) about(c *gin.Context) {
	h.render(c, http.StatusOK, "about", pageData{Title: "About", Active: "about"})
}

func (h *Handler) contact(c *gin.Context) {
	h.render(c, http.StatusOK, "contact", pageData{Title: "Contact", Active: "contact"})
}

func (h *Handler) listProjects(c *gin.Context) {
	items, err := h.projects.ListPublic(c.Request.Context())
	if err != nil {
		logging.NewLogger(c.Request.Context()).LogError("site.projects", err)
		h.render(c, http.StatusInternalServerError, "projects", pageData{
			Title: "Projects", Active: "projects", Error: "Projects could not be loaded right now.",
		})
		return
	}
	h.render(c, http.StatusOK, "projects", pageData{Title: "Projects", Active: "projects", Projects: items})
}

func (h *Handler) showProject(c *gin.Context) {
	p, err := h.projects.GetPublic(c.Request.Context(), c.Param("id"))
	if errors.Is(err, domain.ErrNotFound) {
		h.NotFound(c)
		return
	}
	if err != nil {
		logging.NewLogger(c.Request.Context()).LogError("site.project", err)
		h.render(c, http.StatusInternalServerError, "notfound", pageData{
			Title: "Error", Error: "This project could not be loaded right now.",
		})
		return
	}
	h.render(c, http.StatusOK, "project", pageData{Title: p.Title, Active: "projects", Project: p})
}

func (h *Handler) login(c *gin.Context) {
	if auth.SessionFrom(c) != nil {
		c.Redirect(http.StatusSeeOther, "/admin")
		return
	}
	h.render(c, http.StatusOK, "login", pageData{Title: "Admin login", Error: c.Query("error"), Hint: h.opts.LoginHint})
}

func (h *Handler) admin(c *gin.Context) {
	h.render(c, http.StatusOK, "admin", pageData{Title: "Admin", Active: "admin"})
}

func (h *Handler) render(c *gin.Context, status int, page string, data pageData) {
	data.Profile = h.profile
	data.Session = auth.SessionFrom(c)
	data.Year = h.now().Year()

	c.Render(status, render.HTML{Template: h.pages[page], Name: "layout.html", Data: data})
}
