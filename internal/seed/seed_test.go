package seed

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/alexedwards/argon2id"

	"github.com/Simplici0/digiquote/internal/db"
	"github.com/Simplici0/digiquote/internal/migrations"
	"github.com/Simplici0/digiquote/internal/pricing"
	"github.com/Simplici0/digiquote/internal/store"
)

func TestRunIsIdempotent(t *testing.T) {
	ctx := context.Background()

	dbPath := filepath.Join(t.TempDir(), "seed-test.db")
	database, err := db.Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(ctx, database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	cfg := Config{
		AdminEmail:    "admin@example.com",
		AdminPassword: "12345",
		Demo:          true,
		Tables:        pricing.DefaultTables(),
	}

	for i := 0; i < 3; i++ {
		stats, err := Run(ctx, database, cfg)
		if err != nil {
			t.Fatalf("run seed (iteration=%d): %v", i, err)
		}
		if i == 0 {
			if stats.Inserts != 2 {
				t.Fatalf("expected 2 inserts in first run, got %d", stats.Inserts)
			}
			continue
		}
		if stats.Inserts != 0 {
			t.Fatalf("expected 0 inserts in iteration %d, got %d", i, stats.Inserts)
		}
	}

	assertCount(t, database, `SELECT COUNT(*) FROM users WHERE email = ?`, "admin@example.com", 1)
	assertCount(t, database, `SELECT COUNT(*) FROM projects WHERE name = ?`, demoProjectName, 1)

	var hash string
	if err := database.QueryRow(`SELECT password_hash FROM users WHERE email = ?`, "admin@example.com").Scan(&hash); err != nil {
		t.Fatalf("query admin hash: %v", err)
	}
	match, err := argon2id.ComparePasswordAndHash("12345", hash)
	if err != nil {
		t.Fatalf("compare hash: %v", err)
	}
	if !match {
		t.Fatalf("expected admin hash to match password")
	}
}

func TestRunSkipsAdminWithoutCredentials(t *testing.T) {
	ctx := context.Background()

	database, err := db.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()
	if err := migrations.Up(ctx, database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	stats, err := Run(ctx, database, Config{AdminEmail: "admin@example.com"})
	if err != nil {
		t.Fatalf("run seed: %v", err)
	}
	if stats.Inserts != 0 {
		t.Fatalf("expected no inserts, got %d", stats.Inserts)
	}
	assertCount(t, database, `SELECT COUNT(*) FROM users`, nil, 0)
}

func TestDemoProjectLoadsThroughStore(t *testing.T) {
	ctx := context.Background()

	database, err := db.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()
	if err := migrations.Up(ctx, database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	tables := pricing.DefaultTables()
	if _, err := Run(ctx, database, Config{Demo: true, Tables: tables}); err != nil {
		t.Fatalf("run seed: %v", err)
	}

	projects := store.NewProjects(database)
	list, err := projects.List(ctx, "", 0)
	if err != nil {
		t.Fatalf("list projects: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 project, got %d", len(list))
	}
	rec, err := projects.Get(ctx, list[0].ID)
	if err != nil {
		t.Fatalf("get demo project: %v", err)
	}
	if len(rec.Warnings) != 0 {
		t.Fatalf("demo project decoded with warnings: %v", rec.Warnings)
	}
	if want := tables.Calc(DemoProject()).Total; !rec.Totals.Total.Equal(want) || !rec.Total.Equal(want) {
		t.Fatalf("stored total %s, want %s", rec.Total, want)
	}
}

func TestDemoProjectPricesCleanly(t *testing.T) {
	tb := pricing.DefaultTables()
	tb.Strict = true

	res := tb.Calc(DemoProject())
	if len(res.Warnings) != 0 {
		t.Fatalf("demo project has warnings: %v", res.Warnings)
	}
	if res.Total.IsZero() {
		t.Fatalf("demo project total is zero")
	}
}

func assertCount(t *testing.T, database *sql.DB, query string, args any, expected int) {
	t.Helper()

	var count int
	var err error
	switch v := args.(type) {
	case nil:
		err = database.QueryRow(query).Scan(&count)
	case []any:
		err = database.QueryRow(query, v...).Scan(&count)
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
