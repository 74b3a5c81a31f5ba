package quotations

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

// ErrNotFound indicates the quotation does not exist.
var ErrNotFound = errors.New("quotation not found")

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id int64) (*Quotation, error)
	GetByNumber(ctx context.Context, number string) (*Quotation, error)
	List(ctx context.Context, req ListQuotationsRequest) ([]Quotation, int, error)
	Create(ctx context.Context, q Quotation) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	InsertLine(ctx context.Context, line QuotationLine) (int64, error)
	DeleteLines(ctx context.Context, quotationID int64) error
	SetInvoiceRef(ctx context.Context, id, invoiceID int64, invoiceNumber string) error
	SetChallanRef(ctx context.Context, id, challanID int64, challanNumber string) error
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

const quotationColumns = `id, number, opportunity_code, customer_name, customer_address, customer_gstin,
	margin_percent, default_gst_percent, status, invoice_id, invoice_number, challan_id, challan_number,
	subtotal, tax_total, grand_total, notes, created_by, created_at, updated_at`

func scanQuotation(row pgx.Row) (*Quotation, error) {
	var q Quotation
	err := row.Scan(
		&q.ID, &q.Number, &q.OpportunityCode, &q.CustomerName, &q.CustomerAddress, &q.CustomerGSTIN,
		&q.MarginPercent, &q.DefaultGSTPercent, &q.Status, &q.InvoiceID, &q.InvoiceNumber, &q.ChallanID, &q.ChallanNumber,
		&q.Subtotal, &q.TaxTotal, &q.GrandTotal, &q.Notes, &q.CreatedBy, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Quotation, error) {
	q, err := scanQuotation(r.db.QueryRow(ctx, `SELECT `+quotationColumns+` FROM quotations WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	q.Lines, err = r.lines(ctx, q.ID)
	return q, err
}

func (r *repository) GetByNumber(ctx context.Context, number string) (*Quotation, error) {
	q, err := scanQuotation(r.db.QueryRow(ctx, `SELECT `+quotationColumns+` FROM quotations WHERE number = $1`, number))
	if err != nil {
		return nil, err
	}
	q.Lines, err = r.lines(ctx, q.ID)
	return q, err
}

func (r *repository) lines(ctx context.Context, quotationID int64) ([]QuotationLine, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, quotation_id, product_id, description, hsn_code, quantity, unit_rate, effective_rate,
		       gst_percent, base_amount, tax_amount, total_amount, line_order
		FROM quotation_lines
		WHERE quotation_id = $1
		ORDER BY line_order, id
	`, quotationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []QuotationLine
	for rows.Next() {
		var l QuotationLine
		if err := rows.Scan(&l.ID, &l.QuotationID, &l.ProductID, &l.Description, &l.HSNCode, &l.Quantity,
			&l.UnitRate, &l.EffectiveRate, &l.GSTPercent, &l.BaseAmount, &l.TaxAmount, &l.TotalAmount, &l.LineOrder); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *repository) List(ctx context.Context, req ListQuotationsRequest) ([]Quotation, int, error) {
	conditions := []string{"TRUE"}
	var args []interface{}
	argPos := 1

	if req.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *req.Status)
		argPos++
	}
	if req.OpportunityCode != nil {
		conditions = append(conditions, fmt.Sprintf("opportunity_code = $%d", argPos))
		args = append(args, *req.OpportunityCode)
		argPos++
	}
	if req.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(number ILIKE $%d OR customer_name ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+req.Search+"%")
		argPos++
	}
	where := strings.Join(conditions, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM quotations WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT %s FROM quotations WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		quotationColumns, where, argPos, argPos+1)
	args = append(args, limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Quotation
	for rows.Next() {
		var q Quotation
		if err := rows.Scan(
			&q.ID, &q.Number, &q.OpportunityCode, &q.CustomerName, &q.CustomerAddress, &q.CustomerGSTIN,
			&q.MarginPercent, &q.DefaultGSTPercent, &q.Status, &q.InvoiceID, &q.InvoiceNumber, &q.ChallanID, &q.ChallanNumber,
			&q.Subtotal, &q.TaxTotal, &q.GrandTotal, &q.Notes, &q.CreatedBy, &q.CreatedAt, &q.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		result = append(result, q)
	}
	return result, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, q Quotation) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO quotations (number, opportunity_code, customer_name, customer_address, customer_gstin,
			margin_percent, default_gst_percent, status, subtotal, tax_total, grand_total, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`, q.Number, q.OpportunityCode, q.CustomerName, q.CustomerAddress, q.CustomerGSTIN,
		q.MarginPercent, q.DefaultGSTPercent, q.Status, q.Subtotal, q.TaxTotal, q.GrandTotal, q.Notes, q.CreatedBy).Scan(&id)
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

	tag, err := r.db.Exec(ctx, fmt.Sprintf(`UPDATE quotations SET %s WHERE id = $%d`, strings.Join(sets, ", "), argPos), args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) InsertLine(ctx context.Context, line QuotationLine) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO quotation_lines (quotation_id, product_id, description, hsn_code, quantity, unit_rate,
			effective_rate, gst_percent, base_amount, tax_amount, total_amount, line_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`, line.QuotationID, line.ProductID, line.Description, line.HSNCode, line.Quantity, line.UnitRate,
		line.EffectiveRate, line.GSTPercent, line.BaseAmount, line.TaxAmount, line.TotalAmount, line.LineOrder).Scan(&id)
	return id, err
}

func (r *repository) DeleteLines(ctx context.Context, quotationID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM quotation_lines WHERE quotation_id = $1`, quotationID)
	return err
}

func (r *repository) SetInvoiceRef(ctx context.Context, id, invoiceID int64, invoiceNumber string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE quotations
		SET invoice_id = $2, invoice_number = $3, status = $4, updated_at = NOW()
		WHERE id = $1
	`, id, invoiceID, invoiceNumber, QuotationStatusConverted)
	return err
}

func (r *repository) SetChallanRef(ctx context.Context, id, challanID int64, challanNumber string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE quotations
		SET challan_id = $2, challan_number = $3, updated_at = NOW()
		WHERE id = $1
	`, id, challanID, challanNumber)
	return err
}
