package delivery

import (
	"fmt"
	"strings"
	"time"

	"heatmap-telegram-bot/internal/timeframe"
)

// BuildCaption composes the photo caption: a title line with the
// normalized period, the acquisition timestamp at minute precision in
// UTC, and a price line when a price is available. Pure function, no
// failure mode.
func BuildCaption(period timeframe.Period, takenAt time.Time, priceDisplay string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 %s Bitcoin Liquidation Heatmap\n", period.Title())
	fmt.Fprintf(&b, "🕒 %s UTC", takenAt.UTC().Format("2006-01-02 15:04"))
	if priceDisplay != "" {
		fmt.Fprintf(&b, "\n💰 BTC Price: %s", priceDisplay)
	}
	return b.String()
}
