package dataset

import (
	"reflect"

	"github.com/go-playground/validator/v10"
)

// Sentinel values established by the cleaning pass.
const (
	// UnknownCartPosition marks an unrecorded add_to_cart_order. The column's
	// consumers expect an integer type, so a reserved value is used instead
	// of a null.
	UnknownCartPosition = 999

	// UnknownProductName fills a null product_name.
	UnknownProductName = "Unknown"

	// UnmappedAisleID is the catalog's marker for an unmapped aisle.
	UnmappedAisleID = 100
)

// Order is one row of the orders table. DaysSincePriorNull records that the
// source field was empty, which marks a user's chronologically first order.
type Order struct {
	OrderID            int64   `col:"order_id" validate:"required"`
	UserID             int64   `col:"user_id" validate:"required"`
	OrderDow           int     `col:"order_dow" validate:"min=0,max=6"`
	OrderHour          int     `col:"order_hour_of_day" validate:"min=0,max=23"`
	DaysSincePrior     float64 `col:"days_since_prior_order" validate:"min=0"`
	DaysSincePriorNull bool    `col:"-" validate:"-"`
}

// LineItem is one row of the order line items table, keyed by the
// (order_id, product_id) composite.
type LineItem struct {
	OrderID            int64 `col:"order_id" validate:"required"`
	ProductID          int64 `col:"product_id" validate:"required"`
	AddToCartOrder     int64 `col:"add_to_cart_order" validate:"min=1"`
	AddToCartOrderNull bool  `col:"-" validate:"-"`
	Reordered          int   `col:"reordered" validate:"min=0,max=1"`
}

// Product is one row of the product catalog.
type Product struct {
	ProductID       int64  `col:"product_id" validate:"required"`
	ProductName     string `col:"product_name"`
	ProductNameNull bool   `col:"-" validate:"-"`
	AisleID         int64  `col:"aisle_id" validate:"required"`
	DepartmentID    int64  `col:"department_id" validate:"required"`
}

// Aisle is a lookup row mapping aisle_id to its name.
type Aisle struct {
	AisleID   int64  `col:"aisle_id" validate:"required"`
	AisleName string `col:"aisle_name"`
}

// Department is a lookup row mapping department_id to its name.
type Department struct {
	DepartmentID   int64  `col:"department_id" validate:"required"`
	DepartmentName string `col:"department_name"`
}

// Dataset holds all five cleaned-or-raw tables for one run.
type Dataset struct {
	Orders      []Order
	LineItems   []LineItem
	Products    []Product
	Aisles      []Aisle
	Departments []Department
}

// newSchemaValidator builds the validator used by the cleaner. Field names
// in validation failures are reported as source column names via the col tag.
func newSchemaValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := field.Tag.Get("col")
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}
