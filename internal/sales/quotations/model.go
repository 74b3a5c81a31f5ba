package quotations

import "time"

type QuotationStatus string

const (
	QuotationStatusDraft     QuotationStatus = "DRAFT"
	QuotationStatusSent      QuotationStatus = "SENT"
	QuotationStatusConverted QuotationStatus = "CONVERTED"
)

// Quotation is the root commercial document. Number is minted once at
// creation and never changes; margin is applied to line rates here and only
// here, so documents derived from a quotation reuse the already-margined
// effective rate.
type Quotation struct {
	ID                int64           `json:"id" db:"id"`
	Number            string          `json:"number" db:"number"`
	OpportunityCode   *string         `json:"opportunity_code,omitempty" db:"opportunity_code"`
	CustomerName      string          `json:"customer_name" db:"customer_name"`
	CustomerAddress   *string         `json:"customer_address,omitempty" db:"customer_address"`
	CustomerGSTIN     *string         `json:"customer_gstin,omitempty" db:"customer_gstin"`
	MarginPercent     float64         `json:"margin_percent" db:"margin_percent"`
	DefaultGSTPercent *float64        `json:"default_gst_percent,omitempty" db:"default_gst_percent"`
	Status            QuotationStatus `json:"status" db:"status"`
	InvoiceID         *int64          `json:"invoice_id,omitempty" db:"invoice_id"`
	InvoiceNumber     *string         `json:"invoice_number,omitempty" db:"invoice_number"`
	ChallanID         *int64          `json:"challan_id,omitempty" db:"challan_id"`
	ChallanNumber     *string         `json:"challan_number,omitempty" db:"challan_number"`
	Subtotal          float64         `json:"subtotal" db:"subtotal"`
	TaxTotal          float64         `json:"tax_total" db:"tax_total"`
	GrandTotal        float64         `json:"grand_total" db:"grand_total"`
	Notes             *string         `json:"notes,omitempty" db:"notes"`
	CreatedBy         string          `json:"created_by" db:"created_by"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`
	Lines             []QuotationLine `json:"lines,omitempty" db:"-"`
}

// QuotationLine keeps both the raw unit rate and the margined effective rate.
// EffectiveRate is the canonical sell-side price all derived documents read.
type QuotationLine struct {
	ID            int64    `json:"id" db:"id"`
	QuotationID   int64    `json:"quotation_id" db:"quotation_id"`
	ProductID     *int64   `json:"product_id,omitempty" db:"product_id"`
	Description   string   `json:"description" db:"description"`
	HSNCode       string   `json:"hsn_code" db:"hsn_code"`
	Quantity      float64  `json:"quantity" db:"quantity"`
	UnitRate      float64  `json:"unit_rate" db:"unit_rate"`
	EffectiveRate float64  `json:"effective_rate" db:"effective_rate"`
	GSTPercent    *float64 `json:"gst_percent,omitempty" db:"gst_percent"`
	BaseAmount    float64  `json:"base_amount" db:"base_amount"`
	TaxAmount     float64  `json:"tax_amount" db:"tax_amount"`
	TotalAmount   float64  `json:"total_amount" db:"total_amount"`
	LineOrder     int      `json:"line_order" db:"line_order"`
}
