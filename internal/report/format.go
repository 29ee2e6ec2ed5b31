package report

import (
	"fmt"
)

// formatFloat formats a float64 value for report output with exactly 2
// decimal places, so values like 13.4 appear as 13.40.
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatInt formats an int64 value for report output
func formatInt(i int64) string {
	return fmt.Sprintf("%d", i)
}

// formatPercent formats a proportion in [0,1] as a percentage
func formatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}
