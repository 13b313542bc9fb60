package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crucial707/strumspace-admin/internal/config"
	"github.com/crucial707/strumspace-admin/internal/db"
	"github.com/crucial707/strumspace-admin/internal/logging"
	"github.com/crucial707/strumspace-admin/internal/repo"
	"github.com/crucial707/strumspace-admin/internal/scheduler"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logging.Setup(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat}); err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	if !cfg.IsProd() && cfg.JWTSecret == config.DefaultJWTSecret {
		slog.Warn("using the default JWT secret; set JWT_SECRET outside development")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database FIRST
	database, err := db.Connect(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer database.Close()
	slog.Info("connected to database", "host", cfg.DBHost, "name", cfg.DBName)

	handler, err := newRouter(database, cfg)
	if err != nil {
		return err
	}

	var sched *scheduler.Scheduler
	if cfg.SongRequestRetentionDays > 0 {
		pruner := &scheduler.Pruner{
			Store:     repo.NewSongRequestRepo(database),
			Audit:     repo.NewAuditRepo(database),
			Retention: time.Duration(cfg.SongRequestRetentionDays) * 24 * time.Hour,
		}
		sched, err = scheduler.New(cfg.SongRequestPruneCron, pruner)
		if err != nil {
			return err
		}
		sched.Start()
		slog.Info("song request pruning enabled",
			"retention_days", cfg.SongRequestRetentionDays,
			"cron", cfg.SongRequestPruneCron)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "port", cfg.Port, "tls", cfg.TLSEnabled())
		if cfg.TLSEnabled() {
			errCh <- srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
			return
		}
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
		slog.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown", "error", err)
	}
	if sched != nil {
		if err := sched.Stop(shutdownCtx); err != nil {
			slog.Error("scheduler shutdown", "error", err)
		}
	}
	return nil
}
