package numbering

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		name     string
		template string
		period   string
		seq      int64
		want     string
	}{
		{"fiscal year and padded sequence", "APP/{FY}/{SEQ4}", "24-25", 7, "APP/24-25/0007"},
		{"different pad width", "DC/{FY}/{SEQ6}", "24-25", 42, "DC/24-25/000042"},
		{"sequence wider than pad", "Q-{SEQ2}", "", 12345, "Q-12345"},
		{"no tokens", "PLAIN-1", "24-25", 9, "PLAIN-1"},
		{"unknown token passes through", "X/{FOO}/{SEQ3}", "24-25", 5, "X/{FOO}/005"},
		{"unclosed brace passes through", "X/{SEQ4", "24-25", 5, "X/{SEQ4"},
		{"seq token without width stays literal", "X/{SEQ}", "24-25", 5, "X/{SEQ}"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Format(tc.template, tc.period, tc.seq))
		})
	}
}

func TestFormatIsDeterministic(t *testing.T) {
	first := Format("INV/{FY}/{SEQ4}", "25-26", 19)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Format("INV/{FY}/{SEQ4}", "25-26", 19))
	}
}
