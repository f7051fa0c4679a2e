package dataprocessing

import (
	"sort"
	"time"

	"shoppulse/internal/basket"
	"shoppulse/internal/rfm"
	"shoppulse/pkg/contracts/domain"
)

// Transactions converts normalized line items into basket-analysis
// transactions. Cancelled, returned and unpaid orders do not count.
func Transactions(items []domain.OrderItem) []basket.Transaction {
	txns := make([]basket.Transaction, 0, len(items))
	for _, item := range items {
		if !item.Status.Countable() {
			continue
		}
		txns = append(txns, basket.Transaction{
			OrderID:   item.OrderID,
			ProductID: item.ProductName,
			Quantity:  item.Quantity,
		})
	}
	return txns
}

// CustomerOrders converts normalized line items into per-customer order
// records for RFM analysis. Items without a buyer username carry no
// customer identity and are dropped, as are non-countable orders.
func CustomerOrders(items []domain.OrderItem) []rfm.Order {
	orders := make([]rfm.Order, 0, len(items))
	for _, item := range items {
		if !item.Status.Countable() || item.BuyerUsername == "" {
			continue
		}
		orders = append(orders, rfm.Order{
			CustomerID: item.BuyerUsername,
			OrderID:    item.OrderID,
			OrderDate:  item.OrderDate,
			NetRevenue: item.NetRevenue(),
		})
	}
	return orders
}

// AggregateDailySales rolls line items up into one row per calendar day
// and platform, sorted by date then platform. Orders counts distinct
// order ids, GMV sums net sales before fees, and AOV is GMV per order.
func AggregateDailySales(items []domain.OrderItem) []domain.DailySales {
	type key struct {
		date     time.Time
		platform domain.Platform
	}
	type acc struct {
		orders     map[string]struct{}
		units      float64
		gmv        float64
		netRevenue float64
	}

	buckets := make(map[key]*acc)
	for _, item := range items {
		if !item.Status.Countable() || item.OrderDate.IsZero() {
			continue
		}
		k := key{
			date:     item.OrderDate.Truncate(24 * time.Hour),
			platform: item.Platform,
		}
		a, ok := buckets[k]
		if !ok {
			a = &acc{orders: make(map[string]struct{})}
			buckets[k] = a
		}
		a.orders[item.OrderID] = struct{}{}
		a.units += item.Quantity
		a.gmv += item.NetSales
		a.netRevenue += item.NetRevenue()
	}

	rows := make([]domain.DailySales, 0, len(buckets))
	for k, a := range buckets {
		row := domain.DailySales{
			Date:       k.date,
			Platform:   k.platform,
			Orders:     len(a.orders),
			UnitsSold:  a.units,
			GMV:        a.gmv,
			NetRevenue: a.netRevenue,
		}
		if row.Orders > 0 {
			row.AOV = row.GMV / float64(row.Orders)
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		return rows[i].Platform < rows[j].Platform
	})
	return rows
}
