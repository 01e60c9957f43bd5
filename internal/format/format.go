// Package format renders market and portfolio figures for display.
package format

import (
	"fmt"
	"math"
	"time"

	"github.com/Rhymond/go-money"
)

// Money formats a USD amount. Prices at a dollar or more use the standard
// two decimal places with thousand separators; sub-dollar prices keep more
// precision so small-cap coins do not round to zero.
func Money(v float64) string {
	av := math.Abs(v)
	switch {
	case av >= 1 || av == 0:
		m := money.New(int64(math.Round(v*100)), money.USD)
		return m.Display()
	case av >= 0.1:
		return signedFixed(v, 4)
	default:
		return signedFixed(v, 8)
	}
}

func signedFixed(v float64, places int) string {
	if v < 0 {
		return fmt.Sprintf("-$%.*f", places, -v)
	}
	return fmt.Sprintf("$%.*f", places, v)
}

// SignedMoney formats a dollar amount with a +/- prefix.
func SignedMoney(v float64) string {
	if v >= 0 {
		return "+" + Money(v)
	}
	return Money(v)
}

// SignedPercent formats a percentage with a +/- prefix.
func SignedPercent(v float64) string {
	if v >= 0 {
		return fmt.Sprintf("+%.2f%%", v)
	}
	return fmt.Sprintf("%.2f%%", v)
}

// Compact formats large dollar amounts with a magnitude suffix.
// 1234567890 -> "$1.23B".
func Compact(v float64) string {
	av := math.Abs(v)
	switch {
	case av >= 1e12:
		return fmt.Sprintf("$%.2fT", v/1e12)
	case av >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case av >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	case av >= 1e3:
		return fmt.Sprintf("$%.2fK", v/1e3)
	default:
		return Money(v)
	}
}

// RelativeTime renders how long ago t was, for news timestamps.
func RelativeTime(t time.Time, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// Truncate shortens s to max runes, appending an ellipsis when cut.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
