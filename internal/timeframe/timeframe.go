package timeframe

import "strings"

// Period is one of the chart windows offered by the heatmap page.
// The set is closed: anything not listed here is rejected before any
// capture work starts.
type Period string

const (
	Hour24 Period = "24 hour"
	Hour12 Period = "12 hour"
	Hour4  Period = "4 hour"
	Hour1  Period = "1 hour"
	Week1  Period = "1 week"
	Month1 Period = "1 month"
	Month3 Period = "3 month"
)

var all = []Period{Hour24, Hour12, Hour4, Hour1, Week1, Month1, Month3}

// Parse matches raw user input against the allow-list. The match is
// exact: case and spacing must equal the page's own labels, because the
// browser strategy compares this string against the dropdown text.
func Parse(raw string) (Period, bool) {
	p := Period(raw)
	for _, v := range all {
		if p == v {
			return p, true
		}
	}
	return "", false
}

// All returns every valid period in display order.
func All() []Period {
	out := make([]Period, len(all))
	copy(out, all)
	return out
}

// AllowedList renders the allow-list for rejection replies.
func AllowedList() string {
	labels := make([]string, len(all))
	for i, p := range all {
		labels[i] = string(p)
	}
	return strings.Join(labels, ", ")
}

func (p Period) String() string {
	return string(p)
}

// Title renders the caption form of the period, e.g. "24 hour" -> "24-Hour".
func (p Period) Title() string {
	r := strings.NewReplacer(
		" hour", "-Hour",
		" week", "-Week",
		" month", "-Month",
	)
	return r.Replace(string(p))
}
