package tasks

import "time"

type TaskStatus string

const (
	TaskStatusOpen   TaskStatus = "OPEN"
	TaskStatusClosed TaskStatus = "CLOSED"
)

// Task is a follow-up item, optionally recurring. Schedule is derived from
// the recurrence rule and range; it is recomputed whenever either changes and
// is never edited directly.
type Task struct {
	ID              int64       `json:"id" db:"id"`
	Title           string      `json:"title" db:"title"`
	Notes           *string     `json:"notes,omitempty" db:"notes"`
	OpportunityCode *string     `json:"opportunity_code,omitempty" db:"opportunity_code"`
	AssignedTo      string      `json:"assigned_to" db:"assigned_to"`
	Pattern         Pattern     `json:"pattern" db:"pattern"`
	RangeStart      time.Time   `json:"range_start" db:"range_start"`
	RangeEnd        time.Time   `json:"range_end" db:"range_end"`
	Schedule        []time.Time `json:"schedule" db:"schedule"`
	Status          TaskStatus  `json:"status" db:"status"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" db:"updated_at"`
}
