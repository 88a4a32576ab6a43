// Package aggregator persists query counts to PostgreSQL so the search
// tracker survives restarts.
package aggregator

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/ranking"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/pkg/postgres"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/pkg/resilience"
)

const schema = `
CREATE TABLE IF NOT EXISTS query_counts (
    id         BIGSERIAL PRIMARY KEY,
    query      TEXT NOT NULL UNIQUE,
    count      BIGINT NOT NULL CHECK (count >= 0),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// Counts are monotonic, so an upsert never lowers a stored count even if an
// older snapshot lands after a newer one.
const upsertCount = `
INSERT INTO query_counts (query, count, updated_at) VALUES ($1, $2, $3)
ON CONFLICT (query) DO UPDATE
SET count = GREATEST(query_counts.count, EXCLUDED.count),
    updated_at = EXCLUDED.updated_at`

// Store persists query counts in the query_counts table. Rows keep their
// insertion id, so LoadCounts returns queries in first-saved order.
type Store struct {
	db     *postgres.Client
	retry  resilience.RetryConfig
	logger *slog.Logger
}

func NewStore(db *postgres.Client) *Store {
	return &Store{
		db:     db,
		retry:  resilience.DefaultRetryConfig(),
		logger: slog.Default().With("component", "analytics-store"),
	}
}

// EnsureSchema creates the query_counts table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating query_counts table: %w", err)
	}
	return nil
}

// SaveCounts upserts every entry in one transaction, retrying transient
// failures.
func (s *Store) SaveCounts(ctx context.Context, entries []ranking.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	now := time.Now().UTC()
	err := resilience.Retry(ctx, "save-query-counts", s.retry, func(ctx context.Context) error {
		return s.db.InTx(ctx, func(tx *sql.Tx) error {
			stmt, err := tx.PrepareContext(ctx, upsertCount)
			if err != nil {
				return fmt.Errorf("preparing upsert: %w", err)
			}
			defer stmt.Close()
			for _, e := range entries {
				if _, err := stmt.ExecContext(ctx, e.Key, e.Score, now); err != nil {
					return fmt.Errorf("upserting %q: %w", e.Key, err)
				}
			}
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("saving query counts: %w", err)
	}
	s.logger.Info("query counts saved", "queries", len(entries))
	return nil
}

// LoadCounts returns every stored query and count, first-saved first.
func (s *Store) LoadCounts(ctx context.Context) ([]ranking.Entry, error) {
	rows, err := s.db.DB.QueryContext(ctx, `SELECT query, count FROM query_counts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("loading query counts: %w", err)
	}
	defer rows.Close()

	entries := make([]ranking.Entry, 0)
	for rows.Next() {
		var e ranking.Entry
		if err := rows.Scan(&e.Key, &e.Score); err != nil {
			return nil, fmt.Errorf("scanning query count row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// StartPeriodicSave snapshots source() every interval until ctx is
// cancelled, then saves once more before returning.
func (s *Store) StartPeriodicSave(ctx context.Context, source func() []ranking.Entry, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := s.SaveCounts(ctx, source()); err != nil {
					s.logger.Error("periodic snapshot failed", "error", err)
				}
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := s.SaveCounts(shutdownCtx, source()); err != nil {
					s.logger.Error("final snapshot failed", "error", err)
				}
				return
			}
		}
	}()
	s.logger.Info("periodic snapshot started", "interval", interval)
}
