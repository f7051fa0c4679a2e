package basket

import (
	"sort"
)

// Matrix is the boolean order-by-product presence matrix. A product is
// present in an order iff the summed quantity across all line-items for the
// (order, product) pair is positive. Built once per run, read-only after.
type Matrix struct {
	orders   map[string]map[string]bool
	products []string
}

// BuildMatrix constructs the presence matrix from raw transaction rows.
// Rows with an empty order or product identifier are dropped, not rejected;
// duplicate (order, product) pairs have their quantities summed before the
// positivity check. The result is deterministic regardless of input order.
func BuildMatrix(rows []Transaction) *Matrix {
	totals := make(map[string]map[string]float64)
	for _, row := range rows {
		if row.OrderID == "" || row.ProductID == "" {
			continue
		}
		byProduct, ok := totals[row.OrderID]
		if !ok {
			byProduct = make(map[string]float64)
			totals[row.OrderID] = byProduct
		}
		byProduct[row.ProductID] += row.Quantity
	}

	orders := make(map[string]map[string]bool, len(totals))
	productSet := make(map[string]bool)
	for orderID, byProduct := range totals {
		present := make(map[string]bool)
		for productID, qty := range byProduct {
			if qty > 0 {
				present[productID] = true
				productSet[productID] = true
			}
		}
		if len(present) > 0 {
			orders[orderID] = present
		}
	}

	products := make([]string, 0, len(productSet))
	for p := range productSet {
		products = append(products, p)
	}
	sort.Strings(products)

	return &Matrix{orders: orders, products: products}
}

// Orders returns the number of orders in the matrix.
func (m *Matrix) Orders() int {
	return len(m.orders)
}

// Products returns all product identifiers present in at least one order,
// sorted. Callers must not mutate the returned slice.
func (m *Matrix) Products() []string {
	return m.products
}

// Contains reports whether the order contains the product.
func (m *Matrix) Contains(orderID, productID string) bool {
	return m.orders[orderID][productID]
}

// CountContaining returns the number of orders containing every item.
func (m *Matrix) CountContaining(items []string) int {
	count := 0
	for _, present := range m.orders {
		all := true
		for _, item := range items {
			if !present[item] {
				all = false
				break
			}
		}
		if all {
			count++
		}
	}
	return count
}

// Support returns the fraction of orders containing every item, or 0 when
// the matrix is empty.
func (m *Matrix) Support(items []string) float64 {
	if len(m.orders) == 0 {
		return 0
	}
	return float64(m.CountContaining(items)) / float64(len(m.orders))
}
