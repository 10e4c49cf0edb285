package main

import (
	"log/slog"

	"launch-gate/internal/auth"
	"launch-gate/internal/httpapi"
	"launch-gate/internal/site"
	"launch-gate/pkg/logger"

	"github.com/gin-gonic/gin"
)

// newEngine builds the gin engine with the guard in front of every route.
func newEngine(log *slog.Logger, m *auth.Manager, guard auth.GuardOptions, h httpapi.Handlers, pages *site.Pages) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log, "/static", site.GalleryPath, "/favicon.ico"))
	r.Use(auth.Guard(m, guard))

	if err := registerRoutes(r, h, pages); err != nil {
		return nil, err
	}
	return r, nil
}

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Everything under /api is excluded
// from the guard and stays reachable without the site password.
func registerRoutes(r *gin.Engine, h httpapi.Handlers, pages *site.Pages) error {
	api := r.Group("/api")
	{
		api.GET("/healthz", h.Health)
		api.GET("/launch", h.Launch)
		api.POST("/login", h.Login)
		api.POST("/logout", h.Logout)
		api.POST("/waitlist", h.Subscribe)
	}

	return pages.Register(r)
}
