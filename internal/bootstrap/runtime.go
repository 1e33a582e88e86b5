// Package bootstrap wires the shared runtime pieces (database, cache,
// development fixtures) used by the server and the CLI commands.
package bootstrap

import (
	"fmt"
	"log"
	"strings"

	"noticeboard/internal/cache"
	"noticeboard/internal/config"
	"noticeboard/internal/database"
	"noticeboard/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// InitRuntime connects to the database and Redis. Redis being unreachable
// degrades to a nil client; callers must handle that.
func InitRuntime(cfg *config.Config) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if err := ensureDevAdmin(cfg, db); err != nil {
		return nil, nil, fmt.Errorf("development admin bootstrap failed: %w", err)
	}

	return db, r, nil
}

// ensureDevAdmin creates the configured admin account in development
// environments so a fresh database is immediately usable.
func ensureDevAdmin(cfg *config.Config, db *gorm.DB) error {
	if !strings.EqualFold(cfg.Env, "development") || !cfg.DevBootstrapAdmin {
		return nil
	}

	email := cfg.DevAdminEmail
	if email == "" {
		email = "admin@noticeboard.local"
	}
	if cfg.DevAdminPassword == "" {
		return fmt.Errorf("DEV_ADMIN_PASSWORD must be set when DEV_BOOTSTRAP_ADMIN is enabled")
	}

	admin, err := seed.EnsureAdmin(db, email, cfg.DevAdminPassword)
	if err != nil {
		return err
	}
	log.Printf("development admin ensured (%s, id=%d)", admin.Email, admin.ID)
	return nil
}
