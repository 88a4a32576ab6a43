package aggregator

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/ranking"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/pkg/postgres"
)

// skipIfNoPostgres skips the test when PostgreSQL is unavailable.
func skipIfNoPostgres(t *testing.T) *postgres.Client {
	t.Helper()
	port, _ := strconv.Atoi(envOrDefault("TEST_POSTGRES_PORT", "5432"))
	db, err := postgres.New(config.PostgresConfig{
		Host:            envOrDefault("TEST_POSTGRES_HOST", "localhost"),
		Port:            port,
		Database:        envOrDefault("TEST_POSTGRES_DB", "cardtext_test"),
		User:            envOrDefault("TEST_POSTGRES_USER", "cardtext"),
		Password:        envOrDefault("TEST_POSTGRES_PASSWORD", "localdev"),
		SSLMode:         "disable",
		MaxOpenConns:    2,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
	})
	if err != nil {
		t.Skipf("skipping: postgres unavailable: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestStoreRoundTrip(t *testing.T) {
	db := skipIfNoPostgres(t)
	ctx := context.Background()
	store := NewStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if _, err := db.DB.ExecContext(ctx, `TRUNCATE query_counts RESTART IDENTITY`); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	first := []ranking.Entry{{Key: "travel", Score: 3}, {Key: "cash back", Score: 1}}
	if err := store.SaveCounts(ctx, first); err != nil {
		t.Fatalf("SaveCounts: %v", err)
	}
	// A stale snapshot must not lower stored counts.
	stale := []ranking.Entry{{Key: "travel", Score: 1}, {Key: "no fee", Score: 2}}
	if err := store.SaveCounts(ctx, stale); err != nil {
		t.Fatalf("SaveCounts: %v", err)
	}

	got, err := store.LoadCounts(ctx)
	if err != nil {
		t.Fatalf("LoadCounts: %v", err)
	}
	want := []ranking.Entry{{Key: "travel", Score: 3}, {Key: "cash back", Score: 1}, {Key: "no fee", Score: 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadCounts mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveCountsEmptyIsNoop(t *testing.T) {
	store := NewStore(nil)
	if err := store.SaveCounts(context.Background(), nil); err != nil {
		t.Errorf("SaveCounts(nil) = %v, want nil", err)
	}
}
