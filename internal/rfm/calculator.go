package rfm

import (
	"sort"
	"time"
)

// Calculate aggregates raw Recency/Frequency/Monetary values per customer.
//
// Recency is the number of whole days between the reference date and the
// customer's most recent order. A zero reference date defaults to the most
// recent order date in the dataset plus one day, so the newest customers
// land at recency 1. Frequency counts distinct order identifiers and
// Monetary sums net revenue.
//
// Every customer with at least one well-formed order appears exactly once;
// rows with an empty customer or order identifier are dropped. The result
// is sorted by customer identifier.
func Calculate(orders []Order, reference time.Time) []Customer {
	type agg struct {
		lastOrder time.Time
		orderIDs  map[string]bool
		monetary  float64
	}

	byCustomer := make(map[string]*agg)
	var maxDate time.Time
	for _, order := range orders {
		if order.CustomerID == "" || order.OrderID == "" {
			continue
		}
		a, ok := byCustomer[order.CustomerID]
		if !ok {
			a = &agg{orderIDs: make(map[string]bool)}
			byCustomer[order.CustomerID] = a
		}
		if order.OrderDate.After(a.lastOrder) {
			a.lastOrder = order.OrderDate
		}
		a.orderIDs[order.OrderID] = true
		a.monetary += order.NetRevenue
		if order.OrderDate.After(maxDate) {
			maxDate = order.OrderDate
		}
	}

	if len(byCustomer) == 0 {
		return nil
	}

	if reference.IsZero() {
		reference = maxDate.AddDate(0, 0, 1)
	}

	customers := make([]Customer, 0, len(byCustomer))
	for customerID, a := range byCustomer {
		customers = append(customers, Customer{
			CustomerID: customerID,
			Recency:    int(reference.Sub(a.lastOrder).Hours() / 24),
			Frequency:  len(a.orderIDs),
			Monetary:   a.monetary,
		})
	}

	sort.Slice(customers, func(i, j int) bool {
		return customers[i].CustomerID < customers[j].CustomerID
	})

	return customers
}
