package tasks

import "time"

// Pattern names a recurrence rule for a task schedule.
type Pattern string

const (
	PatternNone          Pattern = "NONE"
	PatternDaily         Pattern = "DAILY"
	PatternWeekly        Pattern = "WEEKLY"
	PatternMonthly       Pattern = "MONTHLY"
	PatternAlternateDays Pattern = "ALTERNATE_DAYS"
	PatternExplicit      Pattern = "EXPLICIT"
)

// ExpandSchedule turns a recurrence rule and date range into the concrete,
// ordered occurrence dates. Pure and idempotent: it re-runs on every edit of
// the owning rule and must produce the same output for the same inputs.
//
// Monthly steps one calendar month but is truncated at Dec 31 of the start
// year even when rangeEnd is later. That clamp is long-shipped behaviour that
// downstream reports depend on; do not widen it to the full range.
func ExpandSchedule(pattern Pattern, rangeStart, rangeEnd time.Time, explicit []time.Time) []time.Time {
	switch pattern {
	case PatternDaily:
		return stepDays(rangeStart, rangeEnd, 1)
	case PatternWeekly:
		return stepDays(rangeStart, rangeEnd, 7)
	case PatternAlternateDays:
		return stepDays(rangeStart, rangeEnd, 2)
	case PatternMonthly:
		yearEnd := time.Date(rangeStart.Year(), time.December, 31, 23, 59, 59, 0, rangeStart.Location())
		end := rangeEnd
		if end.After(yearEnd) {
			end = yearEnd
		}
		var out []time.Time
		for d := rangeStart; !d.After(end); d = d.AddDate(0, 1, 0) {
			out = append(out, d)
		}
		return out
	default:
		// None/Explicit: the supplied set passes through unchanged.
		out := make([]time.Time, len(explicit))
		copy(out, explicit)
		return out
	}
}

func stepDays(start, end time.Time, step int) []time.Time {
	var out []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, step) {
		out = append(out, d)
	}
	return out
}
