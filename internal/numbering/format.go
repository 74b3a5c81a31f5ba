package numbering

import (
	"fmt"
	"strconv"
	"strings"
)

// Format renders a document number from a template. Two token kinds are
// recognised: {FY} is replaced with the fiscal-period key, and {SEQn} with the
// sequence zero-padded to n digits (e.g. {SEQ4} with seq 7 renders "0007").
// Anything else in the template passes through literally.
func Format(template, period string, seq int64) string {
	var b strings.Builder
	for {
		open := strings.IndexByte(template, '{')
		if open < 0 {
			b.WriteString(template)
			return b.String()
		}
		close := strings.IndexByte(template[open:], '}')
		if close < 0 {
			b.WriteString(template)
			return b.String()
		}
		close += open

		b.WriteString(template[:open])
		token := template[open+1 : close]
		switch {
		case token == "FY":
			b.WriteString(period)
		case strings.HasPrefix(token, "SEQ"):
			width, err := strconv.Atoi(token[len("SEQ"):])
			if err != nil || width < 0 {
				b.WriteString(template[open : close+1])
				break
			}
			b.WriteString(fmt.Sprintf("%0*d", width, seq))
		default:
			// Unknown token, keep it literal.
			b.WriteString(template[open : close+1])
		}
		template = template[close+1:]
	}
}
