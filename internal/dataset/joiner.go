package dataset

// ItemDetail is one line item widened with its catalog lookups. Left-join
// semantics: every line item survives; when a lookup has no match, the Found
// flag is false and the name columns carry their zero value.
type ItemDetail struct {
	OrderID        int64
	ProductID      int64
	AddToCartOrder int64
	Reordered      int

	ProductName  string
	AisleID      int64
	DepartmentID int64

	AisleName      string
	DepartmentName string

	ProductFound    bool
	AisleFound      bool
	DepartmentFound bool
}

// OrderFact is one per-order-per-product fact row: an ItemDetail widened
// with its order's columns. This is the table most aggregations run over.
type OrderFact struct {
	ItemDetail

	UserID         int64
	OrderDow       int
	OrderHour      int
	DaysSincePrior float64
	OrderFound     bool
}

// JoinItemDetails left-joins line items with the product catalog and its
// aisle/department lookups. The result has exactly one row per input line
// item. Join keys are non-null by construction (typed, required columns), so
// an unmatched row can only mean the lookup table genuinely lacks the key.
func JoinItemDetails(items []LineItem, products []Product, aisles []Aisle, departments []Department) []ItemDetail {
	productByID := make(map[int64]Product, len(products))
	for _, p := range products {
		// First occurrence wins, matching left-join lookup semantics.
		if _, ok := productByID[p.ProductID]; !ok {
			productByID[p.ProductID] = p
		}
	}

	aisleByID := make(map[int64]Aisle, len(aisles))
	for _, a := range aisles {
		if _, ok := aisleByID[a.AisleID]; !ok {
			aisleByID[a.AisleID] = a
		}
	}

	departmentByID := make(map[int64]Department, len(departments))
	for _, d := range departments {
		if _, ok := departmentByID[d.DepartmentID]; !ok {
			departmentByID[d.DepartmentID] = d
		}
	}

	details := make([]ItemDetail, 0, len(items))
	for _, item := range items {
		detail := ItemDetail{
			OrderID:        item.OrderID,
			ProductID:      item.ProductID,
			AddToCartOrder: item.AddToCartOrder,
			Reordered:      item.Reordered,
		}

		if product, ok := productByID[item.ProductID]; ok {
			detail.ProductFound = true
			detail.ProductName = product.ProductName
			detail.AisleID = product.AisleID
			detail.DepartmentID = product.DepartmentID

			if aisle, ok := aisleByID[product.AisleID]; ok {
				detail.AisleFound = true
				detail.AisleName = aisle.AisleName
			}
			if dept, ok := departmentByID[product.DepartmentID]; ok {
				detail.DepartmentFound = true
				detail.DepartmentName = dept.DepartmentName
			}
		}

		details = append(details, detail)
	}

	return details
}

// JoinOrderFacts left-joins item details with their orders on order_id,
// producing the per-order-per-product fact table. The result has exactly
// one row per input detail.
func JoinOrderFacts(details []ItemDetail, orders []Order) []OrderFact {
	orderByID := make(map[int64]Order, len(orders))
	for _, o := range orders {
		if _, ok := orderByID[o.OrderID]; !ok {
			orderByID[o.OrderID] = o
		}
	}

	facts := make([]OrderFact, 0, len(details))
	for _, detail := range details {
		fact := OrderFact{ItemDetail: detail}
		if order, ok := orderByID[detail.OrderID]; ok {
			fact.OrderFound = true
			fact.UserID = order.UserID
			fact.OrderDow = order.OrderDow
			fact.OrderHour = order.OrderHour
			fact.DaysSincePrior = order.DaysSincePrior
		}
		facts = append(facts, fact)
	}

	return facts
}
