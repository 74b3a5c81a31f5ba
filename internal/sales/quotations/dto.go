package quotations

type CreateQuotationRequest struct {
	OpportunityCode   *string                  `json:"opportunity_code,omitempty" validate:"omitempty,max=32"`
	CustomerName      string                   `json:"customer_name" validate:"required,max=255"`
	CustomerAddress   *string                  `json:"customer_address,omitempty"`
	CustomerGSTIN     *string                  `json:"customer_gstin,omitempty" validate:"omitempty,len=15"`
	MarginPercent     float64                  `json:"margin_percent" validate:"gte=0,lte=500"`
	DefaultGSTPercent *float64                 `json:"default_gst_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
	Notes             *string                  `json:"notes,omitempty"`
	Lines             []CreateQuotationLineReq `json:"lines" validate:"required,min=1,dive"`
}

type CreateQuotationLineReq struct {
	ProductID   *int64   `json:"product_id,omitempty"`
	Description string   `json:"description" validate:"required,max=500"`
	HSNCode     string   `json:"hsn_code" validate:"omitempty,max=16"`
	Quantity    float64  `json:"quantity" validate:"required,gt=0"`
	UnitRate    float64  `json:"unit_rate" validate:"required,gte=0"`
	GSTPercent  *float64 `json:"gst_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
	LineOrder   int      `json:"line_order" validate:"gte=0"`
}

type UpdateQuotationRequest struct {
	CustomerName      *string                   `json:"customer_name,omitempty" validate:"omitempty,max=255"`
	CustomerAddress   *string                   `json:"customer_address,omitempty"`
	CustomerGSTIN     *string                   `json:"customer_gstin,omitempty" validate:"omitempty,len=15"`
	DefaultGSTPercent *float64                  `json:"default_gst_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
	Notes             *string                   `json:"notes,omitempty"`
	Lines             *[]CreateQuotationLineReq `json:"lines,omitempty" validate:"omitempty,min=1,dive"`
}

type ListQuotationsRequest struct {
	Status          *QuotationStatus `json:"status,omitempty"`
	OpportunityCode *string          `json:"opportunity_code,omitempty"`
	Search          string           `json:"search"`
	Limit           int              `json:"limit" validate:"gte=0,lte=1000"`
	Offset          int              `json:"offset" validate:"gte=0"`
}
