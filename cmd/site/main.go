package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"launch-gate/internal/auth"
	"launch-gate/internal/config"
	"launch-gate/internal/httpapi"
	"launch-gate/internal/site"
	"launch-gate/internal/waitlist"
	"launch-gate/pkg/logger"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := waitlist.Open(rootCtx, cfg)
	if err != nil {
		log.Error("waitlist init failed", "backend", cfg.Waitlist.Backend, "err", err)
		os.Exit(1)
	}
	defer store.Close()

	pages, err := site.NewPages(cfg.Launch.At)
	if err != nil {
		log.Error("site init failed", "err", err)
		os.Exit(1)
	}

	authManager := auth.NewManager(cfg.Auth)
	handlers := httpapi.Handlers{
		Auth:          authManager,
		Waitlist:      waitlist.NewService(store),
		SecureCookies: cfg.IsProduction(),
		LaunchAt:      cfg.Launch.At,
	}

	r, err := newEngine(log, authManager, auth.DefaultGuardOptions(), handlers, pages)
	if err != nil {
		log.Error("route registration failed", "err", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("site listening", "addr", srv.Addr, "env", cfg.App.Env, "waitlist", store.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
