package tui

import (
	"fmt"
	"time"
)

// runTime renders how long a process has been running, coarsening with
// age so the table column stays narrow.
func runTime(start, now time.Time) string {
	if start.IsZero() {
		return "-"
	}
	elapsed := now.Sub(start)
	if elapsed < 0 {
		elapsed = 0
	}
	total := int64(elapsed.Seconds())
	seconds := total % 60
	minutes := (total % 3600) / 60
	hours := total / 3600
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}

// startedAt renders the process start timestamp for the detail pane.
func startedAt(start time.Time) string {
	if start.IsZero() {
		return "-"
	}
	return start.Local().Format("15:04:05")
}
