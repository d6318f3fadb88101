package models

import (
	"fmt"
	"strings"
)

// StatValue pairs a raw count with its compact human label.
type StatValue struct {
	Count int64  `json:"count"`
	Label string `json:"label"`
}

// SiteStats holds the aggregate counts shown on the landing page.
type SiteStats struct {
	Samples   StatValue `json:"samples"`
	Libraries StatValue `json:"libraries"`
	Users     StatValue `json:"users"`
	Plays     StatValue `json:"plays"`
}

// NewStatValue builds a StatValue with a compact label, e.g. 1234 -> "1.2K".
func NewStatValue(n int64) StatValue {
	return StatValue{Count: n, Label: FormatCompact(n)}
}

// FormatCompact renders a count the way the UI shows it: exact below a
// thousand, then one decimal with a K/M/B suffix, trailing ".0" dropped.
func FormatCompact(n int64) string {
	switch {
	case n < 1_000:
		return fmt.Sprintf("%d", n)
	case n < 1_000_000:
		return compact(float64(n)/1_000, "K")
	case n < 1_000_000_000:
		return compact(float64(n)/1_000_000, "M")
	default:
		return compact(float64(n)/1_000_000_000, "B")
	}
}

func compact(v float64, suffix string) string {
	s := fmt.Sprintf("%.1f", v)
	s = strings.TrimSuffix(s, ".0")
	return s + suffix
}
