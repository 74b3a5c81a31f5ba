package numbering

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore persists counters in the document_counters table. Both operations
// are single statements so concurrent callers serialise on the row without a
// read-then-write window.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore returns a PostgreSQL-backed counter store.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

// NextValue increments and returns the counter for key, creating it at
// start+1 on first use.
func (s *PgStore) NextValue(ctx context.Context, key string, start int64) (int64, error) {
	var seq int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO document_counters (key, seq)
		VALUES ($1, $2 + 1)
		ON CONFLICT (key)
		DO UPDATE SET seq = document_counters.seq + 1
		RETURNING seq
	`, key, start).Scan(&seq)
	if err != nil {
		return 0, err
	}
	return seq, nil
}

// EnsureFloor raises the counter for key to minimum if it is below it.
func (s *PgStore) EnsureFloor(ctx context.Context, key string, minimum int64) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO document_counters (key, seq)
		VALUES ($1, $2)
		ON CONFLICT (key)
		DO UPDATE SET seq = GREATEST(document_counters.seq, EXCLUDED.seq)
	`, key, minimum)
	return err
}
