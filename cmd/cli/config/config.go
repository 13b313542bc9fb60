package config

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	appconfig "github.com/crucial707/strumspace-admin/internal/config"
	"github.com/crucial707/strumspace-admin/internal/db"
	"github.com/crucial707/strumspace-admin/internal/logging"
)

// OpenDB loads the server configuration (defaults, CONFIG_FILE, env) and
// connects with it, so the CLI always targets the same database as the server.
// Logs go to stderr at warn level unless LOG_LEVEL says otherwise.
func OpenDB(ctx context.Context) (*sql.DB, error) {
	cfg, err := appconfig.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.LogLevel
	if os.Getenv("LOG_LEVEL") == "" {
		level = "warn"
	}
	if err := logging.Setup(logging.Options{Level: level, Format: cfg.LogFormat, Output: os.Stderr}); err != nil {
		return nil, err
	}

	return db.Connect(ctx, cfg)
}

// RetentionDays is the configured song request retention, used as the prune default.
func RetentionDays() int {
	cfg, err := appconfig.Load()
	if err != nil {
		return 0
	}
	return cfg.SongRequestRetentionDays
}
