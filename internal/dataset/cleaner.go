package dataset

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "cartscope/internal/errors"
)

// QualityReport summarizes the data-quality findings for one table. These
// are metrics, not errors: duplicates are dropped and nulls are filled per
// policy, and the counts are reported for the analyst.
type QualityReport struct {
	Table                string
	RowsIn               int
	RowsOut              int
	DuplicatesDropped    int
	SoftDuplicates       int
	SoftDuplicatesMerged int
	Filled               map[string]int
}

// Cleaner repairs data-quality defects table by table. Each Clean* method
// returns a new slice; the input is never mutated.
type Cleaner struct {
	logger   *slog.Logger
	validate *validator.Validate

	// mergeSoftDuplicates collapses products whose names differ only in
	// letter case into the lowest product_id. Off by default: distinct
	// product IDs sharing a case-insensitive name are usually separate
	// catalog entries, so soft duplicates are reported, not merged.
	mergeSoftDuplicates bool
}

// NewCleaner creates a cleaner with the given soft-duplicate policy.
func NewCleaner(logger *slog.Logger, mergeSoftDuplicates bool) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{
		logger:              logger,
		validate:            newSchemaValidator(),
		mergeSoftDuplicates: mergeSoftDuplicates,
	}
}

// Clean runs the full cleaning pass over all five tables and returns the
// cleaned dataset plus one quality report per table.
func (c *Cleaner) Clean(ctx context.Context, ds *Dataset) (*Dataset, []QualityReport, error) {
	clean := &Dataset{}
	var reports []QualityReport

	orders, report, err := c.CleanOrders(ds.Orders)
	if err != nil {
		return nil, nil, err
	}
	clean.Orders = orders
	reports = append(reports, report)

	items, report, err := c.CleanLineItems(ds.LineItems)
	if err != nil {
		return nil, nil, err
	}
	clean.LineItems = items
	reports = append(reports, report)

	products, report, err := c.CleanProducts(ds.Products)
	if err != nil {
		return nil, nil, err
	}
	clean.Products = products
	reports = append(reports, report)

	if c.mergeSoftDuplicates {
		merged, remap := mergeProductAliases(clean.Products)
		if len(remap) > 0 {
			clean.Products = merged
			clean.LineItems = remapLineItems(clean.LineItems, remap)
			reports[2].SoftDuplicatesMerged = len(remap)
		}
	}

	aisles, report := c.CleanAisles(ds.Aisles)
	clean.Aisles = aisles
	reports = append(reports, report)

	departments, report := c.CleanDepartments(ds.Departments)
	clean.Departments = departments
	reports = append(reports, report)

	for _, r := range reports {
		c.logger.InfoContext(ctx, "cleaned table",
			slog.String("table", r.Table),
			slog.Int("rows_in", r.RowsIn),
			slog.Int("rows_out", r.RowsOut),
			slog.Int("duplicates_dropped", r.DuplicatesDropped),
			slog.Int("soft_duplicates", r.SoftDuplicates),
			slog.Any("filled", r.Filled))
	}

	return clean, reports, nil
}

// CleanOrders deduplicates exact row copies, fills days_since_prior_order
// (null marks a user's first order and becomes 0), and validates ranges.
func (c *Cleaner) CleanOrders(orders []Order) ([]Order, QualityReport, error) {
	report := QualityReport{Table: "orders", RowsIn: len(orders), Filled: map[string]int{}}

	rows, dropped := dedupe(orders)
	report.DuplicatesDropped = dropped

	for i := range rows {
		if rows[i].DaysSincePriorNull {
			rows[i].DaysSincePrior = 0
			rows[i].DaysSincePriorNull = false
			report.Filled["days_since_prior_order"]++
		}
	}

	if err := c.validateRows("orders", rows); err != nil {
		return nil, report, err
	}

	report.RowsOut = len(rows)
	return rows, report, nil
}

// CleanLineItems deduplicates exact row copies, fills add_to_cart_order with
// the unknown-position sentinel, and validates ranges.
func (c *Cleaner) CleanLineItems(items []LineItem) ([]LineItem, QualityReport, error) {
	report := QualityReport{Table: "line_items", RowsIn: len(items), Filled: map[string]int{}}

	rows, dropped := dedupe(items)
	report.DuplicatesDropped = dropped

	for i := range rows {
		if rows[i].AddToCartOrderNull {
			rows[i].AddToCartOrder = UnknownCartPosition
			rows[i].AddToCartOrderNull = false
			report.Filled["add_to_cart_order"]++
		}
	}

	if err := c.validateRows("line_items", rows); err != nil {
		return nil, report, err
	}

	report.RowsOut = len(rows)
	return rows, report, nil
}

// CleanProducts deduplicates exact row copies, fills null product names, and
// counts soft duplicates: distinct product IDs whose names collide under
// case-insensitive comparison. Soft duplicates are a data-quality metric and
// are not removed here.
func (c *Cleaner) CleanProducts(products []Product) ([]Product, QualityReport, error) {
	report := QualityReport{Table: "products", RowsIn: len(products), Filled: map[string]int{}}

	rows, dropped := dedupe(products)
	report.DuplicatesDropped = dropped

	// Soft duplicates are detected before filling so that the rows that get
	// the "Unknown" marker do not collide with each other.
	report.SoftDuplicates = countSoftDuplicates(rows)

	for i := range rows {
		if rows[i].ProductNameNull {
			rows[i].ProductName = UnknownProductName
			rows[i].ProductNameNull = false
			report.Filled["product_name"]++
		}
	}

	if err := c.validateRows("products", rows); err != nil {
		return nil, report, err
	}

	report.RowsOut = len(rows)
	return rows, report, nil
}

// CleanAisles deduplicates the aisle lookup.
func (c *Cleaner) CleanAisles(aisles []Aisle) ([]Aisle, QualityReport) {
	report := QualityReport{Table: "aisles", RowsIn: len(aisles), Filled: map[string]int{}}
	rows, dropped := dedupe(aisles)
	report.DuplicatesDropped = dropped
	report.RowsOut = len(rows)
	return rows, report
}

// CleanDepartments deduplicates the department lookup.
func (c *Cleaner) CleanDepartments(departments []Department) ([]Department, QualityReport) {
	report := QualityReport{Table: "departments", RowsIn: len(departments), Filled: map[string]int{}}
	rows, dropped := dedupe(departments)
	report.DuplicatesDropped = dropped
	report.RowsOut = len(rows)
	return rows, report
}

// validateRows checks every row against its declared ranges after the fill
// policies have been applied. Out-of-range rows are a hard failure, not
// something to clip silently.
func (c *Cleaner) validateRows(table string, rows interface{}) error {
	switch typed := rows.(type) {
	case []Order:
		for i, row := range typed {
			if err := c.rowError(table, i, row); err != nil {
				return err
			}
		}
	case []LineItem:
		for i, row := range typed {
			if err := c.rowError(table, i, row); err != nil {
				return err
			}
		}
	case []Product:
		for i, row := range typed {
			if err := c.rowError(table, i, row); err != nil {
				return err
			}
		}
	}
	return nil
}

// rowError maps the first validator failure of a row to a validation error
// naming the source column.
func (c *Cleaner) rowError(table string, row int, value interface{}) error {
	err := c.validate.Struct(value)
	if err == nil {
		return nil
	}
	if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return apperrors.NewValidation(table, row, fe.Field(), fe.Value())
	}
	return apperrors.NewValidation(table, row, "", nil)
}

// dedupe removes exact full-row duplicates, keeping the first occurrence in
// original order, and returns the number of rows dropped.
func dedupe[T comparable](rows []T) ([]T, int) {
	seen := make(map[T]struct{}, len(rows))
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if _, ok := seen[row]; ok {
			continue
		}
		seen[row] = struct{}{}
		out = append(out, row)
	}
	return out, len(rows) - len(out)
}

// countSoftDuplicates counts product rows beyond the first for each
// case-insensitive name. Null names are excluded.
func countSoftDuplicates(products []Product) int {
	byName := make(map[string]int, len(products))
	count := 0
	for _, p := range products {
		if p.ProductNameNull {
			continue
		}
		key := strings.ToLower(p.ProductName)
		if byName[key] > 0 {
			count++
		}
		byName[key]++
	}
	return count
}

// mergeProductAliases collapses case-insensitive name collisions into the
// occurrence with the lowest product_id and returns the dropped-ID remap.
func mergeProductAliases(products []Product) ([]Product, map[int64]int64) {
	canonical := make(map[string]int, len(products)) // lower name → index in products
	remap := make(map[int64]int64)

	for i, p := range products {
		if p.ProductNameNull || p.ProductName == UnknownProductName {
			continue
		}
		key := strings.ToLower(p.ProductName)
		j, ok := canonical[key]
		if !ok {
			canonical[key] = i
			continue
		}
		if p.ProductID < products[j].ProductID {
			remap[products[j].ProductID] = p.ProductID
			canonical[key] = i
		} else {
			remap[p.ProductID] = products[j].ProductID
		}
	}

	if len(remap) == 0 {
		return products, remap
	}

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if _, dropped := remap[p.ProductID]; dropped {
			continue
		}
		out = append(out, p)
	}
	return out, remap
}

// remapLineItems rewrites product IDs of merged aliases.
func remapLineItems(items []LineItem, remap map[int64]int64) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	for i := range out {
		// Follow the chain: an alias may itself have been remapped.
		for {
			target, ok := remap[out[i].ProductID]
			if !ok {
				break
			}
			out[i].ProductID = target
		}
	}
	return out
}
