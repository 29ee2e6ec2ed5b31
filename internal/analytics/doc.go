// Package analytics computes the grouped summary statistics of the
// pipeline. Every aggregation is a pure function over cleaned or joined
// rows, returning a small summary table.
//
// Ranking aggregations truncate to top-N with a stable tie-break: rows with
// equal counts keep the order in which their group first appeared in the
// input. Proportions are carried as Ratio values so that a zero denominator
// renders as an explicit "undefined" instead of a divide-by-zero or a
// silent zero.
package analytics
