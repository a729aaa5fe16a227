package seed

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/Simplici0/o.bakery/internal/db"
	"github.com/Simplici0/o.bakery/internal/migrations"
	"github.com/Simplici0/o.bakery/internal/settings"
)

func TestRunIsIdempotent(t *testing.T) {
	ctx := context.Background()

	dbPath := filepath.Join(t.TempDir(), "seed-test.db")
	database, err := db.Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(ctx, database, "../../migrations"); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	cfg := Config{
		AdminEmail:    "admin@bakery.local",
		AdminPassword: "12345",
	}

	for i := 0; i < 5; i++ {
		stats, err := Run(ctx, database, cfg)
		if err != nil {
			t.Fatalf("run seed (iteration=%d): %v", i, err)
		}
		if i == 0 {
			if stats.Inserts != 7 {
				t.Fatalf("expected 7 inserts in first run, got %d", stats.Inserts)
			}
			continue
		}
		if stats.Inserts != 0 {
			t.Fatalf("expected 0 inserts in iteration %d, got %d", i, stats.Inserts)
		}
	}

	assertCount(t, database, `SELECT COUNT(*) FROM users WHERE email = ?`, "admin@bakery.local", 1)
	assertCount(t, database, `SELECT COUNT(*) FROM settings`, nil, 6)

	var hash string
	if err := database.QueryRow(`SELECT password_hash FROM users WHERE email = ?`, "admin@bakery.local").Scan(&hash); err != nil {
		t.Fatalf("query admin hash: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("12345")); err != nil {
		t.Fatalf("expected admin hash to match password: %v", err)
	}
}

func TestRunKeepsSavedSettings(t *testing.T) {
	ctx := context.Background()

	database, err := db.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(ctx, database, "../../migrations"); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	resolver := settings.NewResolver(settings.NewSQLStore(database), nil)
	biz := settings.DefaultBusiness()
	biz.Currency = "EUR"
	if err := resolver.SaveBusiness(ctx, biz); err != nil {
		t.Fatalf("save business settings: %v", err)
	}

	stats, err := Run(ctx, database, Config{})
	if err != nil {
		t.Fatalf("run seed: %v", err)
	}
	if stats.Inserts != 5 {
		t.Fatalf("expected 5 inserts, got %d", stats.Inserts)
	}

	got, err := resolver.Business(ctx)
	if err != nil {
		t.Fatalf("load business settings: %v", err)
	}
	if got.Currency != "EUR" {
		t.Fatalf("expected saved currency to survive seed, got %q", got.Currency)
	}
}

func assertCount(t *testing.T, database *sql.DB, query string, args any, expected int) {
	t.Helper()

	var count int
	var err error
	switch v := args.(type) {
	case nil:
		err = database.QueryRow(query).Scan(&count)
	default:
		err = database.QueryRow(query, v).Scan(&count)
	}
	if err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != expected {
		t.Fatalf("expected count %d, got %d", expected, count)
	}
}
