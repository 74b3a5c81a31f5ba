package opportunities

import "time"

type OpportunityStatus string

const (
	StatusOpen OpportunityStatus = "OPEN"
	StatusWon  OpportunityStatus = "WON"
	StatusLost OpportunityStatus = "LOST"
)

// Opportunity tracks a sales lead. Code is the human-visible identifier that
// commercial documents reference; Owner is the enrichment field copied onto
// derived delivery challans.
type Opportunity struct {
	ID           int64             `json:"id" db:"id"`
	Code         string            `json:"code" db:"code"`
	Name         string            `json:"name" db:"name"`
	Owner        string            `json:"owner" db:"owner"`
	CustomerName string            `json:"customer_name" db:"customer_name"`
	Status       OpportunityStatus `json:"status" db:"status"`
	CreatedAt    time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at" db:"updated_at"`
}

type CreateOpportunityRequest struct {
	Code         string `json:"code" validate:"required,max=32"`
	Name         string `json:"name" validate:"required,max=255"`
	Owner        string `json:"owner" validate:"required,max=128"`
	CustomerName string `json:"customer_name" validate:"required,max=255"`
}
