// Package numbering mints human-readable document numbers from monotonic
// counters, fiscal-period keys and format templates.
package numbering

import (
	"fmt"
	"time"
)

// India Standard Time. Fiscal years run April 1 to March 31 and are always
// resolved in IST regardless of the server's local zone.
var ist = time.FixedZone("IST", 5*3600+1800)

// FiscalYearKey maps a timestamp to its Indian fiscal-year key, e.g. a date in
// July 2024 yields "24-25" and a date in February 2025 also yields "24-25".
func FiscalYearKey(t time.Time) string {
	local := t.In(ist)
	year := local.Year()
	if local.Month() < time.April {
		year--
	}
	return fmt.Sprintf("%02d-%02d", year%100, (year+1)%100)
}
