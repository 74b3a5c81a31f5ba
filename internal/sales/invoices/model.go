package invoices

import "time"

type InvoiceStatus string

const (
	InvoiceStatusIssued    InvoiceStatus = "ISSUED"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// Invoice is the tax document. Its number is scoped to the fiscal year of
// issue, and its tax amount is split into CGST and SGST legs per line.
// Lines priced from a quotation carry the quotation's effective rate; the
// margin is never applied a second time here.
type Invoice struct {
	ID                    int64         `json:"id" db:"id"`
	Number                string        `json:"number" db:"number"`
	SourceQuotationID     *int64        `json:"source_quotation_id,omitempty" db:"source_quotation_id"`
	SourceQuotationNumber *string       `json:"source_quotation_number,omitempty" db:"source_quotation_number"`
	CustomerName          string        `json:"customer_name" db:"customer_name"`
	CustomerAddress       *string       `json:"customer_address,omitempty" db:"customer_address"`
	CustomerGSTIN         *string       `json:"customer_gstin,omitempty" db:"customer_gstin"`
	DefaultGSTPercent     *float64      `json:"default_gst_percent,omitempty" db:"default_gst_percent"`
	Status                InvoiceStatus `json:"status" db:"status"`
	ChallanID             *int64        `json:"challan_id,omitempty" db:"challan_id"`
	ChallanNumber         *string       `json:"challan_number,omitempty" db:"challan_number"`
	Subtotal              float64       `json:"subtotal" db:"subtotal"`
	CGSTTotal             float64       `json:"cgst_total" db:"cgst_total"`
	SGSTTotal             float64       `json:"sgst_total" db:"sgst_total"`
	TaxTotal              float64       `json:"tax_total" db:"tax_total"`
	GrandTotal            float64       `json:"grand_total" db:"grand_total"`
	Notes                 *string       `json:"notes,omitempty" db:"notes"`
	CreatedBy             string        `json:"created_by" db:"created_by"`
	CreatedAt             time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time     `json:"updated_at" db:"updated_at"`
	Lines                 []InvoiceLine `json:"lines,omitempty" db:"-"`
}

// InvoiceLine holds per-line GST legs. CGST and SGST are each rounded on
// their own, so a leg pair may differ from half the tax by a paisa.
type InvoiceLine struct {
	ID          int64    `json:"id" db:"id"`
	InvoiceID   int64    `json:"invoice_id" db:"invoice_id"`
	ProductID   *int64   `json:"product_id,omitempty" db:"product_id"`
	Description string   `json:"description" db:"description"`
	HSNCode     string   `json:"hsn_code" db:"hsn_code"`
	Quantity    float64  `json:"quantity" db:"quantity"`
	UnitRate    float64  `json:"unit_rate" db:"unit_rate"`
	GSTPercent  *float64 `json:"gst_percent,omitempty" db:"gst_percent"`
	BaseAmount  float64  `json:"base_amount" db:"base_amount"`
	CGSTAmount  float64  `json:"cgst_amount" db:"cgst_amount"`
	SGSTAmount  float64  `json:"sgst_amount" db:"sgst_amount"`
	TaxAmount   float64  `json:"tax_amount" db:"tax_amount"`
	TotalAmount float64  `json:"total_amount" db:"total_amount"`
	LineOrder   int      `json:"line_order" db:"line_order"`
}
