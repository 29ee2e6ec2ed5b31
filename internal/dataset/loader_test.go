package dataset

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "cartscope/internal/errors"
)

func loadFixture(t *testing.T, name, content string) *Table {
	t.Helper()
	table, err := LoadTable(writeFile(t, name, content), name, ';')
	require.NoError(t, err)
	return table
}

func TestParseOrders(t *testing.T) {
	table := loadFixture(t, "orders",
		"order_id;user_id;order_dow;order_hour_of_day;days_since_prior_order\n"+
			"1;100;2;14;7.0\n"+
			"2;100;3;9;\n")

	orders, err := ParseOrders(table)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Equal(t, Order{OrderID: 1, UserID: 100, OrderDow: 2, OrderHour: 14, DaysSincePrior: 7}, orders[0])

	// Empty days_since_prior_order marks the user's first order
	assert.True(t, orders[1].DaysSincePriorNull)
	assert.Zero(t, orders[1].DaysSincePrior)
}

func TestParseOrders_BadValue(t *testing.T) {
	tests := []struct {
		name string
		rows string
	}{
		{name: "non-numeric id", rows: "abc;100;2;14;7.0\n"},
		{name: "empty required column", rows: "1;;2;14;7.0\n"},
		{name: "non-numeric dow", rows: "1;100;two;14;7.0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := loadFixture(t, "orders",
				"order_id;user_id;order_dow;order_hour_of_day;days_since_prior_order\n"+tt.rows)

			_, err := ParseOrders(table)
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.CodeParse))
		})
	}
}

func TestParseLineItems(t *testing.T) {
	table := loadFixture(t, "line_items",
		"order_id;product_id;add_to_cart_order;reordered\n"+
			"1;501;1;0\n"+
			"1;502;;1\n")

	items, err := ParseLineItems(table)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, LineItem{OrderID: 1, ProductID: 501, AddToCartOrder: 1, Reordered: 0}, items[0])
	assert.True(t, items[1].AddToCartOrderNull)
}

func TestParseProducts(t *testing.T) {
	table := loadFixture(t, "products",
		"product_id;product_name;aisle_id;department_id\n"+
			"501;Organic Bananas;24;4\n"+
			"502;;100;21\n")

	products, err := ParseProducts(table)
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "Organic Bananas", products[0].ProductName)
	assert.True(t, products[1].ProductNameNull)
	assert.Equal(t, int64(UnmappedAisleID), products[1].AisleID)
}

func TestParseLookups(t *testing.T) {
	aisleTable := loadFixture(t, "aisles", "aisle_id;aisle_name\n24;fresh fruits\n")
	aisles, err := ParseAisles(aisleTable)
	require.NoError(t, err)
	assert.Equal(t, []Aisle{{AisleID: 24, AisleName: "fresh fruits"}}, aisles)

	deptTable := loadFixture(t, "departments", "department_id;department_name\n4;produce\n")
	departments, err := ParseDepartments(deptTable)
	require.NoError(t, err)
	assert.Equal(t, []Department{{DepartmentID: 4, DepartmentName: "produce"}}, departments)
}

func TestLoadDataset(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	paths := SourcePaths{
		Orders:      write("orders.csv", "order_id;user_id;order_dow;order_hour_of_day;days_since_prior_order\n1;100;2;14;\n"),
		LineItems:   write("order_products.csv", "order_id;product_id;add_to_cart_order;reordered\n1;501;1;0\n"),
		Products:    write("products.csv", "product_id;product_name;aisle_id;department_id\n501;Organic Bananas;24;4\n"),
		Aisles:      write("aisles.csv", "aisle_id;aisle_name\n24;fresh fruits\n"),
		Departments: write("departments.csv", "department_id;department_name\n4;produce\n"),
	}

	ds, err := LoadDataset(context.Background(), slog.Default(), paths, ';')
	require.NoError(t, err)

	assert.Len(t, ds.Orders, 1)
	assert.Len(t, ds.LineItems, 1)
	assert.Len(t, ds.Products, 1)
	assert.Len(t, ds.Aisles, 1)
	assert.Len(t, ds.Departments, 1)
}

func TestLoadDataset_MissingFile(t *testing.T) {
	paths := SourcePaths{
		Orders: filepath.Join(t.TempDir(), "orders.csv"),
	}

	_, err := LoadDataset(context.Background(), slog.Default(), paths, ';')
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeFileAccess))
}
