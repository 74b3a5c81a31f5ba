// Package audit appends immutable field-level change logs to business
// documents. Entries are written once and never updated or deleted.
package audit

import "time"

// Action classifies an audit entry.
type Action string

const (
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// Entry is one immutable audit record. Create logs NewValue with a nil
// OldValue, Delete logs the terminal state as OldValue with a nil NewValue.
type Entry struct {
	ID         string    `json:"id"`
	Entity     string    `json:"entity"`
	EntityID   string    `json:"entity_id"`
	Action     Action    `json:"action"`
	Field      string    `json:"field,omitempty"`
	OldValue   any       `json:"old_value,omitempty"`
	NewValue   any       `json:"new_value,omitempty"`
	Actor      string    `json:"actor"`
	SourceAddr string    `json:"source_addr,omitempty"`
	At         time.Time `json:"at"`
}

// Change is one field-level difference produced by Diff.
type Change struct {
	Field string
	Old   any
	New   any
}
