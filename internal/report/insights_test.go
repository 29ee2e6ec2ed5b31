package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cartscope/internal/analytics"
	"cartscope/internal/dataset"
)

func sampleInsights() Insights {
	return Insights{
		Quality: []dataset.QualityReport{
			{
				Table:             "orders",
				RowsIn:            1000,
				RowsOut:           985,
				DuplicatesDropped: 15,
				Filled:            map[string]int{"days_since_prior_order": 60},
			},
			{
				Table:          "products",
				RowsIn:         100,
				RowsOut:        100,
				SoftDuplicates: 3,
				Filled:         map[string]int{},
			},
		},
		OrdersByDow: analytics.Summary{Rows: []analytics.CountRow{
			{Key: "0", Count: 300}, {Key: "1", Count: 120},
		}},
		OrdersByHour: analytics.Summary{Rows: []analytics.CountRow{
			{Key: "10", Count: 80}, {Key: "14", Count: 95},
		}},
		ActiveUsers: analytics.Summary{Rows: []analytics.CountRow{
			{Key: "14", Count: 40},
		}},
		TopProducts: analytics.Summary{Rows: []analytics.CountRow{
			{Key: "Organic Bananas", Count: 120},
		}},
		TopDepts: analytics.Summary{Rows: []analytics.CountRow{
			{Key: "produce", Count: 800},
		}},
		CartSizes: analytics.CartSizeStats{
			Orders: 985,
			Items:  9000,
			Mean:   9.14,
			Median: 8,
		},
		OrdersPerUser: analytics.Summary{Rows: []analytics.CountRow{
			{Key: "1", Count: 50}, {Key: "27", Count: 1},
		}},
		OverallRate: analytics.Ratio{Num: 5310, Den: 9000},
	}
}

func TestGenerateInsights(t *testing.T) {
	text := GenerateInsights(sampleInsights())

	assert.Contains(t, text, "orders: 1000 rows in, 985 rows out, 15 exact duplicates dropped")
	assert.Contains(t, text, "60 nulls filled in days_since_prior_order")
	assert.Contains(t, text, "3 soft duplicates")
	assert.Contains(t, text, "Busiest day of week: dow 0 with 300 orders")
	assert.Contains(t, text, "Busiest hour of day: 14:00 with 95 orders")
	assert.Contains(t, text, "Most reordered product: Organic Bananas (120 reordered line items)")
	assert.Contains(t, text, "Overall reorder share: 59.0%")
	assert.Contains(t, text, "mean 9.14 items, median 8.00 items across 985 orders")
	assert.Contains(t, text, "50 users placed 1 order(s)")
}

func TestGenerateInsights_UndefinedRate(t *testing.T) {
	data := sampleInsights()
	data.OverallRate = analytics.Ratio{}

	text := GenerateInsights(data)

	assert.Contains(t, text, "Overall reorder share: undefined")
}

func TestWriteInsights(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "insights.txt")

	require.NoError(t, WriteInsights(path, sampleInsights()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Basket analysis insights")
}

func TestPeakRow(t *testing.T) {
	tests := []struct {
		name    string
		summary analytics.Summary
		wantKey string
		wantOK  bool
	}{
		{
			name: "clear peak",
			summary: analytics.Summary{Rows: []analytics.CountRow{
				{Key: "a", Count: 1}, {Key: "b", Count: 5}, {Key: "c", Count: 2},
			}},
			wantKey: "b",
			wantOK:  true,
		},
		{
			name: "tie keeps first",
			summary: analytics.Summary{Rows: []analytics.CountRow{
				{Key: "a", Count: 5}, {Key: "b", Count: 5},
			}},
			wantKey: "a",
			wantOK:  true,
		},
		{
			name:    "empty summary",
			summary: analytics.Summary{},
			wantOK:  false,
		},
		{
			name: "all zero",
			summary: analytics.Summary{Rows: []analytics.CountRow{
				{Key: "a", Count: 0},
			}},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, ok := peakRow(tt.summary)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantKey, row.Key)
			}
		})
	}
}
