package invoices

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

// ErrNotFound indicates the invoice does not exist.
var ErrNotFound = errors.New("invoice not found")

// ErrDuplicateNumber indicates the insert lost a race on the unique number
// column. The caller may allocate a fresh number and retry once.
var ErrDuplicateNumber = errors.New("invoice number already taken")

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id int64) (*Invoice, error)
	GetByNumber(ctx context.Context, number string) (*Invoice, error)
	List(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error)
	Create(ctx context.Context, inv Invoice) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	InsertLine(ctx context.Context, line InvoiceLine) (int64, error)
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

const invoiceColumns = `id, number, source_quotation_id, source_quotation_number, customer_name, customer_address,
	customer_gstin, default_gst_percent, status, challan_id, challan_number,
	subtotal, cgst_total, sgst_total, tax_total, grand_total, notes, created_by, created_at, updated_at`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	err := row.Scan(
		&inv.ID, &inv.Number, &inv.SourceQuotationID, &inv.SourceQuotationNumber, &inv.CustomerName, &inv.CustomerAddress,
		&inv.CustomerGSTIN, &inv.DefaultGSTPercent, &inv.Status, &inv.ChallanID, &inv.ChallanNumber,
		&inv.Subtotal, &inv.CGSTTotal, &inv.SGSTTotal, &inv.TaxTotal, &inv.GrandTotal, &inv.Notes, &inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Invoice, error) {
	inv, err := scanInvoice(r.db.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	inv.Lines, err = r.lines(ctx, inv.ID)
	return inv, err
}

func (r *repository) GetByNumber(ctx context.Context, number string) (*Invoice, error) {
	inv, err := scanInvoice(r.db.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE number = $1`, number))
	if err != nil {
		return nil, err
	}
	inv.Lines, err = r.lines(ctx, inv.ID)
	return inv, err
}

func (r *repository) lines(ctx context.Context, invoiceID int64) ([]InvoiceLine, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, invoice_id, product_id, description, hsn_code, quantity, unit_rate, gst_percent,
		       base_amount, cgst_amount, sgst_amount, tax_amount, total_amount, line_order
		FROM invoice_lines
		WHERE invoice_id = $1
		ORDER BY line_order, id
	`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []InvoiceLine
	for rows.Next() {
		var l InvoiceLine
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.ProductID, &l.Description, &l.HSNCode, &l.Quantity,
			&l.UnitRate, &l.GSTPercent, &l.BaseAmount, &l.CGSTAmount, &l.SGSTAmount, &l.TaxAmount, &l.TotalAmount, &l.LineOrder); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *repository) List(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error) {
	conditions := []string{"TRUE"}
	var args []interface{}
	argPos := 1

	if req.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *req.Status)
		argPos++
	}
	if req.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(number ILIKE $%d OR customer_name ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+req.Search+"%")
		argPos++
	}
	where := strings.Join(conditions, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM invoices WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT %s FROM invoices WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		invoiceColumns, where, argPos, argPos+1)
	args = append(args, limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Invoice
	for rows.Next() {
		var inv Invoice
		if err := rows.Scan(
			&inv.ID, &inv.Number, &inv.SourceQuotationID, &inv.SourceQuotationNumber, &inv.CustomerName, &inv.CustomerAddress,
			&inv.CustomerGSTIN, &inv.DefaultGSTPercent, &inv.Status, &inv.ChallanID, &inv.ChallanNumber,
			&inv.Subtotal, &inv.CGSTTotal, &inv.SGSTTotal, &inv.TaxTotal, &inv.GrandTotal, &inv.Notes, &inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		result = append(result, inv)
	}
	return result, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, inv Invoice) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO invoices (number, source_quotation_id, source_quotation_number, customer_name, customer_address,
			customer_gstin, default_gst_percent, status, subtotal, cgst_total, sgst_total, tax_total, grand_total, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`, inv.Number, inv.SourceQuotationID, inv.SourceQuotationNumber, inv.CustomerName, inv.CustomerAddress,
		inv.CustomerGSTIN, inv.DefaultGSTPercent, inv.Status, inv.Subtotal, inv.CGSTTotal, inv.SGSTTotal,
		inv.TaxTotal, inv.GrandTotal, inv.Notes, inv.CreatedBy).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrDuplicateNumber
		}
		return 0, err
	}
	return id, nil
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

	tag, err := r.db.Exec(ctx, fmt.Sprintf(`UPDATE invoices SET %s WHERE id = $%d`, strings.Join(sets, ", "), argPos), args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) InsertLine(ctx context.Context, line InvoiceLine) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO invoice_lines (invoice_id, product_id, description, hsn_code, quantity, unit_rate, gst_percent,
			base_amount, cgst_amount, sgst_amount, tax_amount, total_amount, line_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`, line.InvoiceID, line.ProductID, line.Description, line.HSNCode, line.Quantity, line.UnitRate, line.GSTPercent,
		line.BaseAmount, line.CGSTAmount, line.SGSTAmount, line.TaxAmount, line.TotalAmount, line.LineOrder).Scan(&id)
	return id, err
}

func (r *repository) SetChallanRef(ctx context.Context, id, challanID int64, challanNumber string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE invoices
		SET challan_id = $2, challan_number = $3, updated_at = NOW()
		WHERE id = $1
	`, id, challanID, challanNumber)
	return err
}
