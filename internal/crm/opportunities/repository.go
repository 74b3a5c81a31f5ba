package opportunities

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the opportunity does not exist.
var ErrNotFound = errors.New("opportunity not found")

type Repository interface {
	Get(ctx context.Context, id int64) (*Opportunity, error)
	GetByCode(ctx context.Context, code string) (*Opportunity, error)
	Create(ctx context.Context, o Opportunity) (int64, error)
	List(ctx context.Context, limit, offset int) ([]Opportunity, int, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const columns = `id, code, name, owner, customer_name, status, created_at, updated_at`

func scanOne(row pgx.Row) (*Opportunity, error) {
	var o Opportunity
	err := row.Scan(&o.ID, &o.Code, &o.Name, &o.Owner, &o.CustomerName, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Opportunity, error) {
	return scanOne(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM opportunities WHERE id = $1`, id))
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Opportunity, error) {
	return scanOne(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM opportunities WHERE code = $1`, code))
}

func (r *repository) Create(ctx context.Context, o Opportunity) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO opportunities (code, name, owner, customer_name, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, o.Code, o.Name, o.Owner, o.CustomerName, StatusOpen).Scan(&id)
	return id, err
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]Opportunity, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM opportunities`).Scan(&total); err != nil {
		return nil, 0, err
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM opportunities ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Opportunity
	for rows.Next() {
		var o Opportunity
		if err := rows.Scan(&o.ID, &o.Code, &o.Name, &o.Owner, &o.CustomerName, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, o)
	}
	return result, total, rows.Err()
}
