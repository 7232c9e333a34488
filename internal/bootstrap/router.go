package bootstrap

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jesseg-dev/portfolio-site/config"
	httpapi "github.com/jesseg-dev/portfolio-site/internal/api/http"
	"github.com/jesseg-dev/portfolio-site/internal/api/http/middleware"
	authhttp "github.com/jesseg-dev/portfolio-site/internal/auth/http"
	authmw "github.com/jesseg-dev/portfolio-site/internal/auth/middleware"
	projecthttp "github.com/jesseg-dev/portfolio-site/internal/projects/http"
	"github.com/jesseg-dev/portfolio-site/internal/site"
)

type RouterDeps struct {
	Config   *config.Config
	Services *Services
	DB       httpapi.Pinger
	Redis    httpapi.Pinger
}

func BuildRouter(dep RouterDeps) (*gin.Engine, error) {
	cfg := dep.Config

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.PrometheusMiddleware())
	r.Use(middleware.SecureMiddleware(middleware.SecureOptions(!cfg.IsProduction())))
	if len(cfg.Server.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.Server.CORSOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
			ExposeHeaders:    []string{middleware.HeaderRequestID},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.Use(middleware.TimeoutMiddleware(cfg.Server.RequestTimeout))
	r.Use(authmw.SessionMiddleware(dep.Services.Auth))

	healthHandler := httpapi.NewHealthHandler(cfg.App.ServiceName, cfg.App.Version, cfg.Database.Store, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	projectHandler := projecthttp.New(dep.Services.Projects)
	projectHandler.RegisterPublic(api.Group("/projects"))
	projectHandler.Register(api.Group("/admin/projects"))

	authHandler := authhttp.New(dep.Services.Auth, authhttp.CookieOptions{
		Secure: cfg.IsProduction(),
		TTL:    cfg.Session.TTL,
	})
	loginLimiter := middleware.NewIPRateLimiter(cfg.Server.LoginRatePerMin)
	authHandler.Register(api.Group("/auth"), middleware.RateLimitMiddleware(loginLimiter, func(*gin.Context) {
		middleware.RecordLoginAttempt("limited")
	}))

	var opts site.Options
	if !cfg.IsProduction() {
		opts.LoginHint = cfg.Admin.Email + " / " + cfg.Admin.Password
	}
	pages, err := site.New(dep.Services.Projects, nil, opts)
	if err != nil {
		return nil, fmt.Errorf("site templates: %w", err)
	}
	pages.Register(r, authmw.RequireSessionPage(authhttp.AdminLoginPath))
	r.POST("/admin/logout", authHandler.Logout)
	r.NoRoute(pages.NotFound)

	return r, nil
}
