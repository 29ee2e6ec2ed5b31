package analytics

import (
	"sort"
	"strconv"

	"cartscope/internal/dataset"
)

// Label used when a lookup column was unmatched by the left join.
const unknownLabel = "(unknown)"

// OrdersByDow counts orders per day of week. All seven buckets are present
// even when empty.
func OrdersByDow(orders []dataset.Order) Summary {
	counts := make([]int64, 7)
	for _, o := range orders {
		counts[o.OrderDow]++
	}

	rows := make([]CountRow, 7)
	for dow, n := range counts {
		rows[dow] = CountRow{Key: strconv.Itoa(dow), Count: n}
	}
	return Summary{
		Title:      "Orders by day of week",
		KeyLabel:   "order_dow",
		ValueLabel: "orders",
		Rows:       rows,
	}
}

// OrdersByHour counts orders per hour of day. All 24 buckets are present.
func OrdersByHour(orders []dataset.Order) Summary {
	counts := make([]int64, 24)
	for _, o := range orders {
		counts[o.OrderHour]++
	}

	rows := make([]CountRow, 24)
	for hour, n := range counts {
		rows[hour] = CountRow{Key: strconv.Itoa(hour), Count: n}
	}
	return Summary{
		Title:      "Orders by hour of day",
		KeyLabel:   "order_hour_of_day",
		ValueLabel: "orders",
		Rows:       rows,
	}
}

// ActiveUsersByHour counts distinct active users per hour of day.
func ActiveUsersByHour(orders []dataset.Order) Summary {
	users := make([]map[int64]struct{}, 24)
	for i := range users {
		users[i] = make(map[int64]struct{})
	}
	for _, o := range orders {
		users[o.OrderHour][o.UserID] = struct{}{}
	}

	rows := make([]CountRow, 24)
	for hour, set := range users {
		rows[hour] = CountRow{Key: strconv.Itoa(hour), Count: int64(len(set))}
	}
	return Summary{
		Title:      "Active users by hour of day",
		KeyLabel:   "order_hour_of_day",
		ValueLabel: "distinct_users",
		Rows:       rows,
	}
}

// TopReorderedProducts ranks products by the number of reordered line items,
// descending, truncated to n. Ties keep first-seen order: the product whose
// first reordered line item appears earlier ranks first.
func TopReorderedProducts(details []dataset.ItemDetail, n int) Summary {
	type bucket struct {
		label     string
		count     int64
		firstSeen int
	}

	byProduct := make(map[int64]*bucket)
	var order []int64

	for i, d := range details {
		if d.Reordered != 1 {
			continue
		}
		b, ok := byProduct[d.ProductID]
		if !ok {
			label := d.ProductName
			if !d.ProductFound {
				label = unknownLabel
			}
			b = &bucket{label: label, firstSeen: i}
			byProduct[d.ProductID] = b
			order = append(order, d.ProductID)
		}
		b.count++
	}

	// order already holds products by first appearance; a stable sort on
	// count alone preserves that for equal counts.
	ids := make([]int64, len(order))
	copy(ids, order)
	sort.SliceStable(ids, func(i, j int) bool {
		return byProduct[ids[i]].count > byProduct[ids[j]].count
	})

	if n > 0 && len(ids) > n {
		ids = ids[:n]
	}

	rows := make([]CountRow, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, CountRow{Key: byProduct[id].label, Count: byProduct[id].count})
	}
	return Summary{
		Title:      "Most reordered products",
		KeyLabel:   "product_name",
		ValueLabel: "reordered_line_items",
		Rows:       rows,
	}
}

// ProductReorderRates computes, for every catalog product, the fraction of
// its line items that are reorders. A product with no line items has an
// undefined rate, not zero.
func ProductReorderRates(products []dataset.Product, items []dataset.LineItem) RateTable {
	type counts struct{ reordered, total int64 }
	byProduct := make(map[int64]*counts, len(products))
	for _, item := range items {
		c, ok := byProduct[item.ProductID]
		if !ok {
			c = &counts{}
			byProduct[item.ProductID] = c
		}
		c.total++
		if item.Reordered == 1 {
			c.reordered++
		}
	}

	rows := make([]RateRow, 0, len(products))
	for _, p := range products {
		rate := Ratio{}
		if c, ok := byProduct[p.ProductID]; ok {
			rate = Ratio{Num: c.reordered, Den: c.total}
		}
		rows = append(rows, RateRow{
			Key:   strconv.FormatInt(p.ProductID, 10),
			Label: p.ProductName,
			Rate:  rate,
		})
	}
	return RateTable{Title: "Reorder rate by product", Rows: rows}
}

// UserReorderRates computes, for every user in the orders table, the
// proportion of their line items that are reorders. Users without any line
// items have an undefined rate.
func UserReorderRates(orders []dataset.Order, facts []dataset.OrderFact) RateTable {
	type counts struct{ reordered, total int64 }
	byUser := make(map[int64]*counts)
	var userOrder []int64

	for _, o := range orders {
		if _, ok := byUser[o.UserID]; !ok {
			byUser[o.UserID] = &counts{}
			userOrder = append(userOrder, o.UserID)
		}
	}
	for _, f := range facts {
		if !f.OrderFound {
			continue
		}
		c, ok := byUser[f.UserID]
		if !ok {
			continue
		}
		c.total++
		if f.Reordered == 1 {
			c.reordered++
		}
	}

	rows := make([]RateRow, 0, len(userOrder))
	for _, userID := range userOrder {
		c := byUser[userID]
		rows = append(rows, RateRow{
			Key:  strconv.FormatInt(userID, 10),
			Rate: Ratio{Num: c.reordered, Den: c.total},
		})
	}
	return RateTable{Title: "Reorder proportion by user", Rows: rows}
}

// CartSizes computes the distribution of line items per order, with mean
// and median cart size.
func CartSizes(items []dataset.LineItem) CartSizeStats {
	perOrder := make(map[int64]int64)
	var orderIDs []int64
	for _, item := range items {
		if _, ok := perOrder[item.OrderID]; !ok {
			orderIDs = append(orderIDs, item.OrderID)
		}
		perOrder[item.OrderID]++
	}

	sizes := make([]int64, 0, len(orderIDs))
	for _, id := range orderIDs {
		sizes = append(sizes, perOrder[id])
	}
	sort.Slice(sizes, func(i, j int) bool { return sizes[i] < sizes[j] })

	stats := CartSizeStats{
		Orders: int64(len(sizes)),
		Items:  int64(len(items)),
	}
	if len(sizes) > 0 {
		stats.Mean = float64(stats.Items) / float64(stats.Orders)
		mid := len(sizes) / 2
		if len(sizes)%2 == 1 {
			stats.Median = float64(sizes[mid])
		} else {
			stats.Median = float64(sizes[mid-1]+sizes[mid]) / 2
		}
	}

	// Histogram buckets: cart size → number of orders
	bySize := make(map[int64]int64)
	var sizeKeys []int64
	for _, size := range sizes {
		if _, ok := bySize[size]; !ok {
			sizeKeys = append(sizeKeys, size)
		}
		bySize[size]++
	}
	sort.Slice(sizeKeys, func(i, j int) bool { return sizeKeys[i] < sizeKeys[j] })

	rows := make([]CountRow, 0, len(sizeKeys))
	for _, size := range sizeKeys {
		rows = append(rows, CountRow{Key: strconv.FormatInt(size, 10), Count: bySize[size]})
	}
	stats.Distribution = Summary{
		Title:      "Cart size distribution",
		KeyLabel:   "items_per_order",
		ValueLabel: "orders",
		Rows:       rows,
	}
	return stats
}

// OrdersPerUser computes the loyalty long tail: for each order count, the
// number of distinct users who placed exactly that many orders.
func OrdersPerUser(orders []dataset.Order) Summary {
	perUser := make(map[int64]int64)
	for _, o := range orders {
		perUser[o.UserID]++
	}

	byCount := make(map[int64]int64)
	var counts []int64
	for _, n := range perUser {
		if _, ok := byCount[n]; !ok {
			counts = append(counts, n)
		}
		byCount[n]++
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i] < counts[j] })

	rows := make([]CountRow, 0, len(counts))
	for _, n := range counts {
		rows = append(rows, CountRow{Key: strconv.FormatInt(n, 10), Count: byCount[n]})
	}
	return Summary{
		Title:      "Orders placed per user",
		KeyLabel:   "orders_per_user",
		ValueLabel: "users",
		Rows:       rows,
	}
}

// TopDepartments ranks departments by line-item count, descending, stable
// first-seen tie-break. Unmatched departments group under a single label.
func TopDepartments(details []dataset.ItemDetail, n int) Summary {
	return topByLabel(details, n, "Line items by department", "department_name",
		func(d dataset.ItemDetail) (string, bool) { return d.DepartmentName, d.DepartmentFound })
}

// TopAisles ranks aisles by line-item count, descending, stable first-seen
// tie-break. Unmatched aisles group under a single label.
func TopAisles(details []dataset.ItemDetail, n int) Summary {
	return topByLabel(details, n, "Line items by aisle", "aisle_name",
		func(d dataset.ItemDetail) (string, bool) { return d.AisleName, d.AisleFound })
}

func topByLabel(details []dataset.ItemDetail, n int, title, keyLabel string, key func(dataset.ItemDetail) (string, bool)) Summary {
	counts := make(map[string]int64)
	var order []string

	for _, d := range details {
		label, found := key(d)
		if !found {
			label = unknownLabel
		}
		if _, ok := counts[label]; !ok {
			order = append(order, label)
		}
		counts[label]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if n > 0 && len(order) > n {
		order = order[:n]
	}

	rows := make([]CountRow, 0, len(order))
	for _, label := range order {
		rows = append(rows, CountRow{Key: label, Count: counts[label]})
	}
	return Summary{
		Title:      title,
		KeyLabel:   keyLabel,
		ValueLabel: "line_items",
		Rows:       rows,
	}
}
