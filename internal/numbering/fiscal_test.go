package numbering

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFiscalYearKey(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want string
	}{
		{"mid fiscal year", time.Date(2024, time.July, 10, 12, 0, 0, 0, time.UTC), "24-25"},
		{"january belongs to previous april", time.Date(2025, time.January, 15, 12, 0, 0, 0, time.UTC), "24-25"},
		{"march 31 still previous year", time.Date(2025, time.March, 31, 10, 0, 0, 0, ist), "24-25"},
		{"april 1 rolls over", time.Date(2025, time.April, 1, 0, 0, 0, 0, ist), "25-26"},
		{"century wrap keeps two digits", time.Date(1999, time.June, 1, 0, 0, 0, 0, time.UTC), "99-00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FiscalYearKey(tc.in))
		})
	}
}

func TestFiscalYearKeyUsesIST(t *testing.T) {
	// 2024-03-31 19:00 UTC is already 2024-04-01 00:30 in IST.
	utcEve := time.Date(2024, time.March, 31, 19, 0, 0, 0, time.UTC)
	assert.Equal(t, "24-25", FiscalYearKey(utcEve))

	// A few hours earlier it is still March in IST.
	assert.Equal(t, "23-24", FiscalYearKey(utcEve.Add(-6*time.Hour)))
}
