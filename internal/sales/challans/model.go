package challans

import "time"

// SourceKind names the document a challan was derived from.
type SourceKind string

const (
	SourceQuotation SourceKind = "QUOTATION"
	SourceInvoice   SourceKind = "INVOICE"
)

type ChallanStatus string

const (
	ChallanStatusPrepared   ChallanStatus = "PREPARED"
	ChallanStatusDispatched ChallanStatus = "DISPATCHED"
	ChallanStatusDelivered  ChallanStatus = "DELIVERED"
)

// DeliveryChallan accompanies goods in transit. It carries no tax split of
// its own; line amounts are copied from the source document's conventions.
// OpportunityOwner is enrichment pulled from the CRM when the source chain
// leads back to an opportunity, and stays nil when it does not.
type DeliveryChallan struct {
	ID                int64         `json:"id" db:"id"`
	Number            string        `json:"number" db:"number"`
	SourceKind        SourceKind    `json:"source_kind" db:"source_kind"`
	SourceID          int64         `json:"source_id" db:"source_id"`
	SourceNumber      string        `json:"source_number" db:"source_number"`
	OpportunityOwner  *string       `json:"opportunity_owner,omitempty" db:"opportunity_owner"`
	CustomerName      string        `json:"customer_name" db:"customer_name"`
	CustomerAddress   *string       `json:"customer_address,omitempty" db:"customer_address"`
	Status            ChallanStatus `json:"status" db:"status"`
	Subtotal          float64       `json:"subtotal" db:"subtotal"`
	TaxTotal          float64       `json:"tax_total" db:"tax_total"`
	GrandTotal        float64       `json:"grand_total" db:"grand_total"`
	Notes             *string       `json:"notes,omitempty" db:"notes"`
	CreatedBy         string        `json:"created_by" db:"created_by"`
	CreatedAt         time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at" db:"updated_at"`
	Lines             []ChallanLine `json:"lines,omitempty" db:"-"`
}

type ChallanLine struct {
	ID          int64    `json:"id" db:"id"`
	ChallanID   int64    `json:"challan_id" db:"challan_id"`
	ProductID   *int64   `json:"product_id,omitempty" db:"product_id"`
	Description string   `json:"description" db:"description"`
	HSNCode     string   `json:"hsn_code" db:"hsn_code"`
	Quantity    float64  `json:"quantity" db:"quantity"`
	UnitRate    float64  `json:"unit_rate" db:"unit_rate"`
	GSTPercent  *float64 `json:"gst_percent,omitempty" db:"gst_percent"`
	BaseAmount  float64  `json:"base_amount" db:"base_amount"`
	TaxAmount   float64  `json:"tax_amount" db:"tax_amount"`
	TotalAmount float64  `json:"total_amount" db:"total_amount"`
	LineOrder   int      `json:"line_order" db:"line_order"`
}
