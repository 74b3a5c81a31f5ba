package invoices

type CreateInvoiceRequest struct {
	CustomerName      string                 `json:"customer_name" validate:"required,max=255"`
	CustomerAddress   *string                `json:"customer_address,omitempty"`
	CustomerGSTIN     *string                `json:"customer_gstin,omitempty" validate:"omitempty,len=15"`
	DefaultGSTPercent *float64               `json:"default_gst_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
	Notes             *string                `json:"notes,omitempty"`
	Lines             []CreateInvoiceLineReq `json:"lines" validate:"required,min=1,dive"`
}

type CreateInvoiceLineReq struct {
	ProductID   *int64   `json:"product_id,omitempty"`
	Description string   `json:"description" validate:"required,max=500"`
	HSNCode     string   `json:"hsn_code" validate:"required,max=16"`
	Quantity    float64  `json:"quantity" validate:"required,gt=0"`
	UnitRate    float64  `json:"unit_rate" validate:"required,gte=0"`
	GSTPercent  *float64 `json:"gst_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
	LineOrder   int      `json:"line_order" validate:"gte=0"`
}

type UpdateInvoiceRequest struct {
	CustomerName    *string        `json:"customer_name,omitempty" validate:"omitempty,max=255"`
	CustomerAddress *string        `json:"customer_address,omitempty"`
	CustomerGSTIN   *string        `json:"customer_gstin,omitempty" validate:"omitempty,len=15"`
	Status          *InvoiceStatus `json:"status,omitempty" validate:"omitempty,oneof=ISSUED PAID CANCELLED"`
	Notes           *string        `json:"notes,omitempty"`
}

type ListInvoicesRequest struct {
	Status *InvoiceStatus `json:"status,omitempty"`
	Search string         `json:"search"`
	Limit  int            `json:"limit" validate:"gte=0,lte=1000"`
	Offset int            `json:"offset" validate:"gte=0"`
}
