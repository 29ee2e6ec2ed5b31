// Package report turns summary tables into report artifacts: CSV exports
// (UTF-8 BOM for Excel compatibility), an xlsx workbook with one labeled
// chart per summary, and a plain-text narrative of the run's findings.
// Presentation only; no business rule lives here.
package report
