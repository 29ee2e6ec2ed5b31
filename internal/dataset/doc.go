// Package dataset owns the structural half of the pipeline: loading the
// five source tables, cleaning them under explicit per-column policies, and
// joining them into the wide tables the analytics layer consumes.
//
// # Data Flow
//
// The typical flow through this package:
//
//	CSV files → LoadDataset → typed rows → Cleaner → clean rows → Joiner → fact rows
//
// Loading is a pure structural parse: no values are repaired here. The
// cleaner deduplicates exact row copies, applies the fill policies for the
// three nullable columns, and validates every surviving row against its
// declared ranges. Cleaning is idempotent: running it on an already-clean
// dataset drops nothing and changes nothing.
//
// # Error Handling
//
// Structural failures surface as coded errors from internal/errors: a
// missing file is a FILE_ACCESS error, a row with the wrong field count or
// an unparsable value is a PARSE error carrying file and line, and a row
// that still violates its range after filling is a VALIDATION error naming
// table, row and column. Data-quality findings (duplicate counts, fill
// counts, soft duplicates) are not errors; they are returned in
// QualityReport values.
package dataset
