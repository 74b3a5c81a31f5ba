package challans

type UpdateChallanRequest struct {
	CustomerAddress *string        `json:"customer_address,omitempty"`
	Status          *ChallanStatus `json:"status,omitempty" validate:"omitempty,oneof=PREPARED DISPATCHED DELIVERED"`
	Notes           *string        `json:"notes,omitempty"`
}

type ListChallansRequest struct {
	Status     *ChallanStatus `json:"status,omitempty"`
	SourceKind *SourceKind    `json:"source_kind,omitempty"`
	Search     string         `json:"search"`
	Limit      int            `json:"limit" validate:"gte=0,lte=1000"`
	Offset     int            `json:"offset" validate:"gte=0"`
}
