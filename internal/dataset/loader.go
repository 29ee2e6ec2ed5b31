package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	apperrors "cartscope/internal/errors"
)

// SourcePaths names the five input files of one run.
type SourcePaths struct {
	Orders      string
	LineItems   string
	Products    string
	Aisles      string
	Departments string
}

// LoadDataset loads and parses all five source tables. It is a pure
// structural parse: empty cells in nullable columns become null flags,
// everything else must already match the declared column type.
func LoadDataset(ctx context.Context, logger *slog.Logger, paths SourcePaths, delim rune) (*Dataset, error) {
	if logger == nil {
		logger = slog.Default()
	}

	ds := &Dataset{}

	load := func(path, name string, parse func(*Table) error) error {
		table, err := LoadTable(path, name, delim)
		if err != nil {
			return err
		}
		if err := parse(table); err != nil {
			return err
		}
		logger.InfoContext(ctx, "loaded table",
			slog.String("table", name),
			slog.Int("rows", table.RowCount()))
		return nil
	}

	if err := load(paths.Orders, "orders", func(t *Table) error {
		rows, err := ParseOrders(t)
		ds.Orders = rows
		return err
	}); err != nil {
		return nil, err
	}
	if err := load(paths.LineItems, "line_items", func(t *Table) error {
		rows, err := ParseLineItems(t)
		ds.LineItems = rows
		return err
	}); err != nil {
		return nil, err
	}
	if err := load(paths.Products, "products", func(t *Table) error {
		rows, err := ParseProducts(t)
		ds.Products = rows
		return err
	}); err != nil {
		return nil, err
	}
	if err := load(paths.Aisles, "aisles", func(t *Table) error {
		rows, err := ParseAisles(t)
		ds.Aisles = rows
		return err
	}); err != nil {
		return nil, err
	}
	if err := load(paths.Departments, "departments", func(t *Table) error {
		rows, err := ParseDepartments(t)
		ds.Departments = rows
		return err
	}); err != nil {
		return nil, err
	}

	return ds, nil
}

// ParseOrders converts the raw orders table into typed rows.
func ParseOrders(t *Table) ([]Order, error) {
	if err := t.RequireColumns("order_id", "user_id", "order_dow", "order_hour_of_day", "days_since_prior_order"); err != nil {
		return nil, err
	}

	orders := make([]Order, 0, t.RowCount())
	for i, row := range t.Rows {
		p := rowParser{table: t, row: row, line: i + 2}

		order := Order{
			OrderID:   p.int64At("order_id"),
			UserID:    p.int64At("user_id"),
			OrderDow:  p.intAt("order_dow"),
			OrderHour: p.intAt("order_hour_of_day"),
		}
		order.DaysSincePrior, order.DaysSincePriorNull = p.nullableFloatAt("days_since_prior_order")

		if p.err != nil {
			return nil, p.err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// ParseLineItems converts the raw line items table into typed rows.
func ParseLineItems(t *Table) ([]LineItem, error) {
	if err := t.RequireColumns("order_id", "product_id", "add_to_cart_order", "reordered"); err != nil {
		return nil, err
	}

	items := make([]LineItem, 0, t.RowCount())
	for i, row := range t.Rows {
		p := rowParser{table: t, row: row, line: i + 2}

		item := LineItem{
			OrderID:   p.int64At("order_id"),
			ProductID: p.int64At("product_id"),
			Reordered: p.intAt("reordered"),
		}
		item.AddToCartOrder, item.AddToCartOrderNull = p.nullableInt64At("add_to_cart_order")

		if p.err != nil {
			return nil, p.err
		}
		items = append(items, item)
	}
	return items, nil
}

// ParseProducts converts the raw product catalog into typed rows.
func ParseProducts(t *Table) ([]Product, error) {
	if err := t.RequireColumns("product_id", "product_name", "aisle_id", "department_id"); err != nil {
		return nil, err
	}

	products := make([]Product, 0, t.RowCount())
	for i, row := range t.Rows {
		p := rowParser{table: t, row: row, line: i + 2}

		product := Product{
			ProductID:    p.int64At("product_id"),
			AisleID:      p.int64At("aisle_id"),
			DepartmentID: p.int64At("department_id"),
		}
		product.ProductName, product.ProductNameNull = p.nullableStringAt("product_name")

		if p.err != nil {
			return nil, p.err
		}
		products = append(products, product)
	}
	return products, nil
}

// ParseAisles converts the raw aisle lookup into typed rows.
func ParseAisles(t *Table) ([]Aisle, error) {
	if err := t.RequireColumns("aisle_id", "aisle_name"); err != nil {
		return nil, err
	}

	aisles := make([]Aisle, 0, t.RowCount())
	for i, row := range t.Rows {
		p := rowParser{table: t, row: row, line: i + 2}
		aisle := Aisle{
			AisleID:   p.int64At("aisle_id"),
			AisleName: p.stringAt("aisle_name"),
		}
		if p.err != nil {
			return nil, p.err
		}
		aisles = append(aisles, aisle)
	}
	return aisles, nil
}

// ParseDepartments converts the raw department lookup into typed rows.
func ParseDepartments(t *Table) ([]Department, error) {
	if err := t.RequireColumns("department_id", "department_name"); err != nil {
		return nil, err
	}

	departments := make([]Department, 0, t.RowCount())
	for i, row := range t.Rows {
		p := rowParser{table: t, row: row, line: i + 2}
		dept := Department{
			DepartmentID:   p.int64At("department_id"),
			DepartmentName: p.stringAt("department_name"),
		}
		if p.err != nil {
			return nil, p.err
		}
		departments = append(departments, dept)
	}
	return departments, nil
}

// rowParser accumulates the first conversion error of one row. Line is the
// 1-based source line (header is line 1).
type rowParser struct {
	table *Table
	row   []string
	line  int
	err   error
}

func (p *rowParser) cellAt(col string) string {
	idx, ok := p.table.ColumnIndex(col)
	if !ok || idx >= len(p.row) {
		return ""
	}
	return strings.TrimSpace(p.row[idx])
}

func (p *rowParser) int64At(col string) int64 {
	if p.err != nil {
		return 0
	}
	cell := p.cellAt(col)
	if cell == "" {
		p.err = apperrors.NewParse(p.table.Name, p.line,
			fmt.Errorf("column %s must not be empty", col))
		return 0
	}
	v, err := strconv.ParseInt(cell, 10, 64)
	if err != nil {
		p.err = apperrors.NewParse(p.table.Name, p.line,
			fmt.Errorf("column %s: %q is not an integer", col, cell))
		return 0
	}
	return v
}

func (p *rowParser) intAt(col string) int {
	return int(p.int64At(col))
}

func (p *rowParser) stringAt(col string) string {
	if p.err != nil {
		return ""
	}
	return p.cellAt(col)
}

// nullableInt64At returns (0, true) for an empty cell.
func (p *rowParser) nullableInt64At(col string) (int64, bool) {
	if p.err != nil {
		return 0, false
	}
	cell := p.cellAt(col)
	if cell == "" {
		return 0, true
	}
	v, err := strconv.ParseInt(cell, 10, 64)
	if err != nil {
		p.err = apperrors.NewParse(p.table.Name, p.line,
			fmt.Errorf("column %s: %q is not an integer", col, cell))
		return 0, false
	}
	return v, false
}

// nullableFloatAt returns (0, true) for an empty cell.
func (p *rowParser) nullableFloatAt(col string) (float64, bool) {
	if p.err != nil {
		return 0, false
	}
	cell := p.cellAt(col)
	if cell == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		p.err = apperrors.NewParse(p.table.Name, p.line,
			fmt.Errorf("column %s: %q is not a number", col, cell))
		return 0, false
	}
	return v, false
}

// nullableStringAt returns ("", true) for an empty cell.
func (p *rowParser) nullableStringAt(col string) (string, bool) {
	if p.err != nil {
		return "", false
	}
	cell := p.cellAt(col)
	if cell == "" {
		return "", true
	}
	return cell, false
}
