package products

import "time"

// Product is one catalog item. HSNCode and GSTPercent are the tax
// classification fields backfilled onto document lines that omit them.
type Product struct {
	ID         int64     `json:"id" db:"id"`
	SKU        string    `json:"sku" db:"sku"`
	Name       string    `json:"name" db:"name"`
	HSNCode    string    `json:"hsn_code" db:"hsn_code"`
	GSTPercent *float64  `json:"gst_percent,omitempty" db:"gst_percent"`
	UnitRate   float64   `json:"unit_rate" db:"unit_rate"`
	UOM        string    `json:"uom" db:"uom"`
	IsActive   bool      `json:"is_active" db:"is_active"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
