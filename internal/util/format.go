package util

import (
	"fmt"
	"math"
	"time"
)

// FormatDuration formats a duration as m:ss.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	m := total / 60
	s := total % 60
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatDB formats a loudness value with one decimal, or "-inf dB" for
// silence.
func FormatDB(db float64) string {
	if math.IsInf(db, -1) || math.IsNaN(db) {
		return "-inf dB"
	}
	return fmt.Sprintf("%.1f dB", db)
}
