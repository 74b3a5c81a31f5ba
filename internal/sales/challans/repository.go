package challans

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/platform/db"
)

// ErrNotFound indicates the challan does not exist.
var ErrNotFound = errors.New("delivery challan not found")

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id int64) (*DeliveryChallan, error)
	GetByNumber(ctx context.Context, number string) (*DeliveryChallan, error)
	List(ctx context.Context, req ListChallansRequest) ([]DeliveryChallan, int, error)
	Create(ctx context.Context, dc DeliveryChallan) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	InsertLine(ctx context.Context, line ChallanLine) (int64, error)
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

const challanColumns = `id, number, source_kind, source_id, source_number, opportunity_owner, customer_name,
	customer_address, status, subtotal, tax_total, grand_total, notes, created_by, created_at, updated_at`

func scanChallan(row pgx.Row) (*DeliveryChallan, error) {
	var dc DeliveryChallan
	err := row.Scan(
		&dc.ID, &dc.Number, &dc.SourceKind, &dc.SourceID, &dc.SourceNumber, &dc.OpportunityOwner, &dc.CustomerName,
		&dc.CustomerAddress, &dc.Status, &dc.Subtotal, &dc.TaxTotal, &dc.GrandTotal, &dc.Notes, &dc.CreatedBy, &dc.CreatedAt, &dc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &dc, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*DeliveryChallan, error) {
	dc, err := scanChallan(r.db.QueryRow(ctx, `SELECT `+challanColumns+` FROM delivery_challans WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	dc.Lines, err = r.lines(ctx, dc.ID)
	return dc, err
}

func (r *repository) GetByNumber(ctx context.Context, number string) (*DeliveryChallan, error) {
	dc, err := scanChallan(r.db.QueryRow(ctx, `SELECT `+challanColumns+` FROM delivery_challans WHERE number = $1`, number))
	if err != nil {
		return nil, err
	}
	dc.Lines, err = r.lines(ctx, dc.ID)
	return dc, err
}

func (r *repository) lines(ctx context.Context, challanID int64) ([]ChallanLine, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, challan_id, product_id, description, hsn_code, quantity, unit_rate, gst_percent,
		       base_amount, tax_amount, total_amount, line_order
		FROM challan_lines
		WHERE challan_id = $1
		ORDER BY line_order, id
	`, challanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []ChallanLine
	for rows.Next() {
		var l ChallanLine
		if err := rows.Scan(&l.ID, &l.ChallanID, &l.ProductID, &l.Description, &l.HSNCode, &l.Quantity,
			&l.UnitRate, &l.GSTPercent, &l.BaseAmount, &l.TaxAmount, &l.TotalAmount, &l.LineOrder); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *repository) List(ctx context.Context, req ListChallansRequest) ([]DeliveryChallan, int, error) {
	conditions := []string{"TRUE"}
	var args []interface{}
	argPos := 1

	if req.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *req.Status)
		argPos++
	}
	if req.SourceKind != nil {
		conditions = append(conditions, fmt.Sprintf("source_kind = $%d", argPos))
		args = append(args, *req.SourceKind)
		argPos++
	}
	if req.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(number ILIKE $%d OR customer_name ILIKE $%d OR source_number ILIKE $%d)", argPos, argPos, argPos))
		args = append(args, "%"+req.Search+"%")
		argPos++
	}
	where := strings.Join(conditions, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM delivery_challans WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT %s FROM delivery_challans WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		challanColumns, where, argPos, argPos+1)
	args = append(args, limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []DeliveryChallan
	for rows.Next() {
		var dc DeliveryChallan
		if err := rows.Scan(
			&dc.ID, &dc.Number, &dc.SourceKind, &dc.SourceID, &dc.SourceNumber, &dc.OpportunityOwner, &dc.CustomerName,
			&dc.CustomerAddress, &dc.Status, &dc.Subtotal, &dc.TaxTotal, &dc.GrandTotal, &dc.Notes, &dc.CreatedBy, &dc.CreatedAt, &dc.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		result = append(result, dc)
	}
	return result, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, dc DeliveryChallan) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO delivery_challans (number, source_kind, source_id, source_number, opportunity_owner,
			customer_name, customer_address, status, subtotal, tax_total, grand_total, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`, dc.Number, dc.SourceKind, dc.SourceID, dc.SourceNumber, dc.OpportunityOwner,
		dc.CustomerName, dc.CustomerAddress, dc.Status, dc.Subtotal, dc.TaxTotal, dc.GrandTotal, dc.Notes, dc.CreatedBy).Scan(&id)
	return id, err
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	var sets []string
	var args []interface{}
	argPos := 1
	for col, val := range updates {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, argPos))
		args = append(args, val)
		argPos++
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	tag, err := r.db.Exec(ctx, fmt.Sprintf(`UPDATE delivery_challans SET %s WHERE id = $%d`, strings.Join(sets, ", "), argPos), args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) InsertLine(ctx context.Context, line ChallanLine) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO challan_lines (challan_id, product_id, description, hsn_code, quantity, unit_rate, gst_percent,
			base_amount, tax_amount, total_amount, line_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`, line.ChallanID, line.ProductID, line.Description, line.HSNCode, line.Quantity, line.UnitRate, line.GSTPercent,
		line.BaseAmount, line.TaxAmount, line.TotalAmount, line.LineOrder).Scan(&id)
	return id, err
}
