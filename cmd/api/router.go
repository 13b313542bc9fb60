package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/crucial707/strumspace-admin/internal/auth"
	"github.com/crucial707/strumspace-admin/internal/config"
	"github.com/crucial707/strumspace-admin/internal/handlers"
	"github.com/crucial707/strumspace-admin/internal/middleware"
	"github.com/crucial707/strumspace-admin/internal/repo"
	"github.com/crucial707/strumspace-admin/internal/views"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newRouter wires repositories, handlers and middleware onto a chi router.
func newRouter(db *sql.DB, cfg config.Config) (http.Handler, error) {
	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, time.Duration(cfg.JWTExpireHours)*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("token issuer: %w", err)
	}
	pages, err := views.New()
	if err != nil {
		return nil, fmt.Errorf("views: %w", err)
	}

	userRepo := repo.NewUserRepo(db)
	postRepo := repo.NewPostRepo(db)
	songRepo := repo.NewSongRequestRepo(db)
	auditRepo := repo.NewAuditRepo(db)

	gate := &auth.Gate{Tokens: tokens}
	adminHandler := &handlers.AdminHandler{
		Users:        userRepo,
		Audit:        auditRepo,
		Tokens:       tokens,
		Views:        pages,
		CookieSecure: cfg.CookieSecure,
		HomeURL:      cfg.HomeURL,
	}
	postHandler := &handlers.PostHandler{Posts: postRepo, Audit: auditRepo, Views: pages}
	songHandler := &handlers.SongRequestHandler{SongRequests: songRepo, Audit: auditRepo, Views: pages}
	auditHandler := &handlers.AuditHandler{Repo: auditRepo, Views: pages}
	authLimiter := middleware.AuthRateLimiter()
	proxies, err := cfg.TrustedProxyPrefixes()
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RealIP(proxies))
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSEnabled()))
	r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))
	r.Use(middleware.MethodOverride)

	// ==========================
	// Operational
	// ==========================
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			handlers.JSONError(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ready"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// ==========================
	// Public
	// ==========================
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
	})
	r.Get("/admin", adminHandler.LoginPage)
	r.With(authLimiter.Middleware).Post("/admin", adminHandler.Login)
	r.With(authLimiter.Middleware).Post("/register", adminHandler.Register)
	r.Get("/logout", adminHandler.Logout)

	// ==========================
	// Gated
	// ==========================
	r.Get("/dashboard", gate.Require(postHandler.Dashboard))
	r.Get("/add-post", gate.Require(postHandler.AddPostForm))
	r.Post("/add-post", gate.Require(postHandler.CreatePost))
	r.Get("/edit-post/{id}", gate.Require(postHandler.EditPostForm))
	r.Put("/edit-post/{id}", gate.Require(postHandler.UpdatePost))
	r.Delete("/delete-post/{id}", gate.Require(postHandler.DeletePost))

	r.Get("/song-requests", gate.Require(songHandler.ListSongRequests))
	r.Post("/delete-song/{id}", gate.Require(songHandler.DeleteSongRequest))

	r.Get("/audit", gate.Require(auditHandler.ListAudit))

	return r, nil
}
