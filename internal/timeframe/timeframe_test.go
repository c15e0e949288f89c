package timeframe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAcceptsAllowListOnly(t *testing.T) {
	for _, p := range All() {
		got, ok := Parse(string(p))
		assert.True(t, ok, "expected %q to parse", p)
		assert.Equal(t, p, got)
	}

	invalid := []string{"", "2 hour", "24 Hour", "24hour", " 24 hour", "1 year", "month"}
	for _, raw := range invalid {
		_, ok := Parse(raw)
		assert.False(t, ok, "expected %q to be rejected", raw)
	}
}

func TestTitleNormalizesLabel(t *testing.T) {
	cases := map[Period]string{
		Hour24: "24-Hour",
		Hour12: "12-Hour",
		Hour4:  "4-Hour",
		Hour1:  "1-Hour",
		Week1:  "1-Week",
		Month1: "1-Month",
		Month3: "3-Month",
	}
	for period, want := range cases {
		assert.Equal(t, want, period.Title())
		assert.NotEqual(t, string(period), period.Title())
	}
}

func TestAllowedListMentionsEveryPeriod(t *testing.T) {
	list := AllowedList()
	for _, p := range All() {
		assert.Contains(t, list, string(p))
	}
}
