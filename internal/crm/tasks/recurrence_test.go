package tasks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExpandDaily(t *testing.T) {
	got := ExpandSchedule(PatternDaily, day(2024, 1, 1), day(2024, 1, 4), nil)
	assert.Equal(t, []time.Time{day(2024, 1, 1), day(2024, 1, 2), day(2024, 1, 3), day(2024, 1, 4)}, got)
}

func TestExpandWeekly(t *testing.T) {
	got := ExpandSchedule(PatternWeekly, day(2024, 1, 1), day(2024, 1, 22), nil)
	assert.Equal(t, []time.Time{day(2024, 1, 1), day(2024, 1, 8), day(2024, 1, 15), day(2024, 1, 22)}, got)
}

func TestExpandAlternateDays(t *testing.T) {
	got := ExpandSchedule(PatternAlternateDays, day(2024, 1, 1), day(2024, 1, 6), nil)
	assert.Equal(t, []time.Time{day(2024, 1, 1), day(2024, 1, 3), day(2024, 1, 5)}, got)
}

func TestExpandMonthlyBoundedByRangeEnd(t *testing.T) {
	got := ExpandSchedule(PatternMonthly, day(2024, 1, 15), day(2024, 6, 30), nil)
	want := []time.Time{
		day(2024, 1, 15), day(2024, 2, 15), day(2024, 3, 15),
		day(2024, 4, 15), day(2024, 5, 15), day(2024, 6, 15),
	}
	assert.Equal(t, want, got)
}

func TestExpandMonthlyClampedToYearEnd(t *testing.T) {
	// rangeEnd reaches into the following year; occurrences stop at Dec 31
	// of the start year.
	got := ExpandSchedule(PatternMonthly, day(2024, 10, 10), day(2025, 6, 30), nil)
	want := []time.Time{day(2024, 10, 10), day(2024, 11, 10), day(2024, 12, 10)}
	assert.Equal(t, want, got)
}

func TestExpandExplicitPassesThrough(t *testing.T) {
	dates := []time.Time{day(2024, 2, 1), day(2024, 2, 14)}
	got := ExpandSchedule(PatternExplicit, day(2024, 1, 1), day(2024, 12, 31), dates)
	assert.Equal(t, dates, got)

	got = ExpandSchedule(PatternNone, day(2024, 1, 1), day(2024, 12, 31), dates)
	assert.Equal(t, dates, got)
}

func TestExpandSingleDayRange(t *testing.T) {
	got := ExpandSchedule(PatternDaily, day(2024, 3, 5), day(2024, 3, 5), nil)
	assert.Equal(t, []time.Time{day(2024, 3, 5)}, got)
}

func TestExpandEmptyWhenEndBeforeStart(t *testing.T) {
	assert.Empty(t, ExpandSchedule(PatternDaily, day(2024, 3, 5), day(2024, 3, 4), nil))
}

func TestExpandIsIdempotent(t *testing.T) {
	first := ExpandSchedule(PatternMonthly, day(2024, 1, 15), day(2024, 6, 30), nil)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, ExpandSchedule(PatternMonthly, day(2024, 1, 15), day(2024, 6, 30), nil))
	}
}
