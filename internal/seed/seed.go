package seed

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"

	"golang.org/x/crypto/bcrypt"

	"github.com/Simplici0/o.bakery/internal/settings"
)

// Config contains the values required by startup seed.
type Config struct {
	AdminEmail    string
	AdminPassword string
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Run executes the startup seed in an idempotent way.
func Run(ctx context.Context, db *sql.DB, cfg Config) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := seedAdmin(ctx, tx, cfg.AdminEmail, cfg.AdminPassword, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensureSettings(ctx, tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func seedAdmin(ctx context.Context, tx *sql.Tx, email, password string, stats *Stats) error {
	if email == "" || password == "" {
		return nil
	}

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = ? LIMIT 1)`, email).Scan(&exists); err != nil {
		return fmt.Errorf("check admin user existence: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO users (email, password_hash) VALUES (?, ?)`, email, string(hash)); err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}
	stats.Inserts++
	return nil
}

// ensureSettings stores each default bundle unless one is already saved.
func ensureSettings(ctx context.Context, tx *sql.Tx, stats *Stats) error {
	defaults := settings.Defaults()
	keys := make([]string, 0, len(defaults))
	for key := range defaults {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		raw, err := json.Marshal(defaults[key])
		if err != nil {
			return fmt.Errorf("encode default %s: %w", key, err)
		}
		result, err := tx.ExecContext(ctx, `
			INSERT INTO settings (key, value)
			VALUES (?, ?)
			ON CONFLICT(key) DO NOTHING
		`, key, string(raw))
		if err != nil {
			return fmt.Errorf("insert default %s: %w", key, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("insert default %s: rows affected: %w", key, err)
		}
		stats.Inserts += int(affected)
	}
	return nil
}
