package tasks

import "time"

type CreateTaskRequest struct {
	Title           string      `json:"title" validate:"required,max=255"`
	Notes           *string     `json:"notes,omitempty"`
	OpportunityCode *string     `json:"opportunity_code,omitempty" validate:"omitempty,max=32"`
	AssignedTo      string      `json:"assigned_to" validate:"required,max=128"`
	Pattern         Pattern     `json:"pattern" validate:"required,oneof=NONE DAILY WEEKLY MONTHLY ALTERNATE_DAYS EXPLICIT"`
	RangeStart      time.Time   `json:"range_start" validate:"required"`
	RangeEnd        time.Time   `json:"range_end" validate:"required"`
	ExplicitDates   []time.Time `json:"explicit_dates,omitempty"`
}

type UpdateTaskRequest struct {
	Title         *string     `json:"title,omitempty" validate:"omitempty,max=255"`
	Notes         *string     `json:"notes,omitempty"`
	AssignedTo    *string     `json:"assigned_to,omitempty" validate:"omitempty,max=128"`
	Pattern       *Pattern    `json:"pattern,omitempty" validate:"omitempty,oneof=NONE DAILY WEEKLY MONTHLY ALTERNATE_DAYS EXPLICIT"`
	RangeStart    *time.Time  `json:"range_start,omitempty"`
	RangeEnd      *time.Time  `json:"range_end,omitempty"`
	ExplicitDates []time.Time `json:"explicit_dates,omitempty"`
	Status        *TaskStatus `json:"status,omitempty" validate:"omitempty,oneof=OPEN CLOSED"`
}
