package links

import (
	"fmt"
	"time"
)

// FormatTime renders fractional minutes as m:ss, flooring both parts.
func FormatTime(minutes float64) string {
	if minutes <= 0 {
		return "0:00"
	}
	mins := int(minutes)
	secs := int((minutes - float64(mins)) * 60)
	return fmt.Sprintf("%d:%02d", mins, secs)
}

// FormatDuration renders d as m:ss in whole seconds. Unlike FormatTime it
// works on the exact duration, so every second of a countdown is shown once.
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "0:00"
	}
	s := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}
