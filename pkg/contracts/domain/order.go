package domain

import (
	"time"
)

// Platform identifies the marketplace an export came from.
type Platform string

const (
	PlatformShopee Platform = "shopee"
	PlatformTikTok Platform = "tiktok"
)

// OrderStatus is the normalized order state after column translation.
type OrderStatus string

const (
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusShipping  OrderStatus = "shipping"
	OrderStatusUnpaid    OrderStatus = "unpaid"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusReturned  OrderStatus = "returned"
	OrderStatusUnknown   OrderStatus = "unknown"
)

// Countable reports whether orders in this status contribute to analytics.
// Cancelled, returned and unpaid orders are excluded from baskets and RFM.
func (s OrderStatus) Countable() bool {
	switch s {
	case OrderStatusCancelled, OrderStatusReturned, OrderStatusUnpaid:
		return false
	default:
		return true
	}
}

// OrderItem is one normalized order line-item: one (order, product) pair
// with quantities and money already translated from the export's localized
// columns and currency strings.
type OrderItem struct {
	Platform       Platform    `json:"platform"`
	OrderID        string      `json:"order_id" validate:"required"`
	Status         OrderStatus `json:"status"`
	OrderDate      time.Time   `json:"order_date"`
	ProductName    string      `json:"product_name" validate:"required"`
	SKU            string      `json:"sku,omitempty"`
	Quantity       float64     `json:"quantity"`
	OriginalPrice  float64     `json:"original_price"`
	SellingPrice   float64     `json:"selling_price"`
	NetSales       float64     `json:"net_sales"`
	Commission     float64     `json:"commission"`
	TransactionFee float64     `json:"transaction_fee"`
	ServiceFee     float64     `json:"service_fee"`
	BuyerUsername  string      `json:"buyer_username,omitempty"`
	Province       string      `json:"province,omitempty"`
}

// NetRevenue is the seller's take after marketplace fees.
func (o OrderItem) NetRevenue() float64 {
	return o.NetSales - o.Commission - o.TransactionFee - o.ServiceFee
}

// DailySales is one row of the aggregated reporting table consumed by
// dashboards.
type DailySales struct {
	Date       time.Time `json:"date"`
	Platform   Platform  `json:"platform"`
	Orders     int       `json:"orders"`
	UnitsSold  float64   `json:"units_sold"`
	GMV        float64   `json:"gmv"`
	NetRevenue float64   `json:"net_revenue"`
	AOV        float64   `json:"aov"`
}
