package products

type CreateProductRequest struct {
	SKU        string   `json:"sku" validate:"required,max=64"`
	Name       string   `json:"name" validate:"required,max=255"`
	HSNCode    string   `json:"hsn_code" validate:"omitempty,max=16"`
	GSTPercent *float64 `json:"gst_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
	UnitRate   float64  `json:"unit_rate" validate:"gte=0"`
	UOM        string   `json:"uom" validate:"required,max=20"`
}

type UpdateProductRequest struct {
	Name       *string  `json:"name,omitempty" validate:"omitempty,max=255"`
	HSNCode    *string  `json:"hsn_code,omitempty" validate:"omitempty,max=16"`
	GSTPercent *float64 `json:"gst_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
	UnitRate   *float64 `json:"unit_rate,omitempty" validate:"omitempty,gte=0"`
	UOM        *string  `json:"uom,omitempty" validate:"omitempty,max=20"`
	IsActive   *bool    `json:"is_active,omitempty"`
}

type ListProductsRequest struct {
	Search   string `json:"search"`
	IsActive *bool  `json:"is_active,omitempty"`
	Limit    int    `json:"limit" validate:"gte=0,lte=1000"`
	Offset   int    `json:"offset" validate:"gte=0"`
}
