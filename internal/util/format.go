// Package util holds small formatting helpers shared by the UI and logs.
package util

import (
	"fmt"
	"time"
)

// FormatDuration formats a duration as m:ss, or h:mm:ss from an hour up.
// Negative durations print as zero.
func FormatDuration(d time.Duration) string {
	total := int(max(d, 0) / time.Second)
	h, m, s := total/3600, total/60%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
