package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cartscope/internal/analytics"
	"cartscope/internal/dataset"
)

// Insights bundles every aggregate the narrative draws on.
type Insights struct {
	Quality       []dataset.QualityReport
	OrdersByDow   analytics.Summary
	OrdersByHour  analytics.Summary
	ActiveUsers   analytics.Summary
	TopProducts   analytics.Summary
	TopDepts      analytics.Summary
	CartSizes     analytics.CartSizeStats
	OrdersPerUser analytics.Summary
	OverallRate   analytics.Ratio
}

// GenerateInsights renders the run's findings as a plain-text narrative for
// a human reader. Presentation only: every number is computed upstream.
func GenerateInsights(data Insights) string {
	var b strings.Builder

	b.WriteString("Basket analysis insights\n")
	b.WriteString("========================\n\n")

	b.WriteString("Data quality\n------------\n")
	for _, q := range data.Quality {
		line := fmt.Sprintf("- %s: %d rows in, %d rows out, %d exact duplicates dropped",
			q.Table, q.RowsIn, q.RowsOut, q.DuplicatesDropped)
		if q.SoftDuplicates > 0 {
			line += fmt.Sprintf(", %d soft duplicates (case-insensitive name collisions)", q.SoftDuplicates)
		}
		for col, n := range q.Filled {
			line += fmt.Sprintf(", %d nulls filled in %s", n, col)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")

	b.WriteString("Ordering patterns\n-----------------\n")
	if row, ok := peakRow(data.OrdersByDow); ok {
		b.WriteString(fmt.Sprintf("- Busiest day of week: dow %s with %d orders.\n", row.Key, row.Count))
	}
	if row, ok := peakRow(data.OrdersByHour); ok {
		b.WriteString(fmt.Sprintf("- Busiest hour of day: %s:00 with %d orders.\n", row.Key, row.Count))
	}
	if row, ok := peakRow(data.ActiveUsers); ok {
		b.WriteString(fmt.Sprintf("- Most distinct users are active at %s:00 (%d users).\n", row.Key, row.Count))
	}
	b.WriteString("\n")

	b.WriteString("Products\n--------\n")
	if len(data.TopProducts.Rows) > 0 {
		top := data.TopProducts.Rows[0]
		b.WriteString(fmt.Sprintf("- Most reordered product: %s (%d reordered line items).\n", top.Key, top.Count))
	}
	if len(data.TopDepts.Rows) > 0 {
		top := data.TopDepts.Rows[0]
		b.WriteString(fmt.Sprintf("- Largest department by line items: %s (%d).\n", top.Key, top.Count))
	}
	if data.OverallRate.Defined() {
		v, _ := data.OverallRate.Value()
		b.WriteString(fmt.Sprintf("- Overall reorder share: %s of all line items are repeat purchases.\n", formatPercent(v)))
	} else {
		b.WriteString("- Overall reorder share: undefined (no line items).\n")
	}
	b.WriteString("\n")

	b.WriteString("Carts and loyalty\n-----------------\n")
	b.WriteString(fmt.Sprintf("- Cart size: mean %s items, median %s items across %d orders.\n",
		formatFloat(data.CartSizes.Mean), formatFloat(data.CartSizes.Median), data.CartSizes.Orders))
	if len(data.OrdersPerUser.Rows) > 0 {
		first := data.OrdersPerUser.Rows[0]
		last := data.OrdersPerUser.Rows[len(data.OrdersPerUser.Rows)-1]
		b.WriteString(fmt.Sprintf("- Loyalty long tail: %d users placed %s order(s); the heaviest users placed %s.\n",
			first.Count, first.Key, last.Key))
	}

	return b.String()
}

// WriteInsights renders the narrative and writes it to the given path.
func WriteInsights(path string, data Insights) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateInsights(data)), 0644); err != nil {
		return fmt.Errorf("failed to write insights: %w", err)
	}
	return nil
}

// peakRow returns the row with the highest count, first occurrence winning
// ties.
func peakRow(s analytics.Summary) (analytics.CountRow, bool) {
	if len(s.Rows) == 0 {
		return analytics.CountRow{}, false
	}
	best := s.Rows[0]
	for _, row := range s.Rows[1:] {
		if row.Count > best.Count {
			best = row
		}
	}
	return best, best.Count > 0
}
