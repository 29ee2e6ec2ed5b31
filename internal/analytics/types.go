package analytics

import (
	"strconv"

	apperrors "cartscope/internal/errors"
)

// Ratio is a proportion carried as numerator/denominator so that a zero
// denominator stays representable. It renders as "undefined" instead of
// crashing or silently reporting zero.
type Ratio struct {
	Num int64
	Den int64
}

// Defined reports whether the ratio has a non-zero denominator.
func (r Ratio) Defined() bool {
	return r.Den != 0
}

// Value returns the ratio as floating-point division, or an undefined-metric
// error when the denominator is zero.
func (r Ratio) Value() (float64, error) {
	if !r.Defined() {
		return 0, apperrors.ErrUndefinedMetric
	}
	return float64(r.Num) / float64(r.Den), nil
}

// String renders the ratio for report output.
func (r Ratio) String() string {
	v, err := r.Value()
	if err != nil {
		return "undefined"
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// CountRow is one row of a count summary: a group key and its metric value.
type CountRow struct {
	Key   string
	Count int64
}

// Summary is a small group→count table produced by one aggregation.
type Summary struct {
	Title      string
	KeyLabel   string
	ValueLabel string
	Rows       []CountRow
}

// RateRow is one row of a rate table.
type RateRow struct {
	Key   string
	Label string
	Rate  Ratio
}

// RateTable is a small group→proportion table.
type RateTable struct {
	Title string
	Rows  []RateRow
}

// CartSizeStats describes the distribution of line items per order.
type CartSizeStats struct {
	Distribution Summary
	Orders       int64
	Items        int64
	Mean         float64
	Median       float64
}
