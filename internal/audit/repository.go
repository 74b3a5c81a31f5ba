package audit

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists audit entries.
type Repository interface {
	Insert(ctx context.Context, entry Entry) error
	Timeline(ctx context.Context, entity, entityID string, limit int) ([]Entry, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a PostgreSQL-backed audit repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Insert(ctx context.Context, entry Entry) error {
	if entry.Entity == "" || entry.EntityID == "" || entry.Action == "" {
		return errors.New("audit: entry requires entity/entity_id/action")
	}
	oldJSON, err := json.Marshal(entry.OldValue)
	if err != nil {
		return err
	}
	newJSON, err := json.Marshal(entry.NewValue)
	if err != nil {
		return err
	}
	at := entry.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO audit_logs (id, entity, entity_id, action, field, old_value, new_value, actor, source_addr, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, entry.ID, entry.Entity, entry.EntityID, entry.Action, entry.Field, oldJSON, newJSON, entry.Actor, entry.SourceAddr, at)
	return err
}

func (r *repository) Timeline(ctx context.Context, entity, entityID string, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, entity, entity_id, action, field, old_value, new_value, actor, source_addr, occurred_at
		FROM audit_logs
		WHERE entity = $1 AND entity_id = $2
		ORDER BY occurred_at ASC, id ASC
		LIMIT $3
	`, entity, entityID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                Entry
			oldJSON, newJSON []byte
		)
		if err := rows.Scan(&e.ID, &e.Entity, &e.EntityID, &e.Action, &e.Field, &oldJSON, &newJSON, &e.Actor, &e.SourceAddr, &e.At); err != nil {
			return nil, err
		}
		_ = json.Unmarshal(oldJSON, &e.OldValue)
		_ = json.Unmarshal(newJSON, &e.NewValue)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
