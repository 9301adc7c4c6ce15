package seed

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/Simplici0/mouldquote/internal/auth"
	"github.com/Simplici0/mouldquote/internal/db"
	"github.com/Simplici0/mouldquote/internal/migrations"
)

func newSeedTestDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()
	database, err := db.Open(ctx, filepath.Join(t.TempDir(), "seed-test.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if _, err := migrations.Up(ctx, database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return database
}

func TestRunIsIdempotent(t *testing.T) {
	t.Parallel()

	database := newSeedTestDB(t)
	cfg := Config{
		AdminEmail:    "office@mouldquote.test",
		AdminPassword: "12345",
	}

	for i := 0; i < 5; i++ {
		stats, err := Run(context.Background(), database, cfg)
		if err != nil {
			t.Fatalf("run seed (iteration=%d): %v", i, err)
		}
		want := 0
		if i == 0 {
			want = 1
		}
		if stats.Inserts != want {
			t.Fatalf("expected %d inserts in iteration %d, got %d", want, i, stats.Inserts)
		}
	}

	var count int
	if err := database.QueryRow(`SELECT COUNT(*) FROM users WHERE email = ?`, cfg.AdminEmail).Scan(&count); err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 admin user, got %d", count)
	}

	var hash string
	if err := database.QueryRow(`SELECT password_hash FROM users WHERE email = ?`, cfg.AdminEmail).Scan(&hash); err != nil {
		t.Fatalf("query admin hash: %v", err)
	}
	if !auth.CheckPassword(hash, "12345") {
		t.Fatalf("expected admin hash to match password")
	}
}

func TestRunSkipsAdminWithoutCredentials(t *testing.T) {
	t.Parallel()

	database := newSeedTestDB(t)

	stats, err := Run(context.Background(), database, Config{AdminEmail: "office@mouldquote.test"})
	if err != nil {
		t.Fatalf("run seed: %v", err)
	}
	if stats.Inserts != 0 {
		t.Fatalf("expected no inserts, got %d", stats.Inserts)
	}
}
