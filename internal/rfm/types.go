package rfm

import (
	"time"
)

// DefaultBins is the standard five-point RFM score scale.
const DefaultBins = 5

// Order is one order line as handed over by the ETL layer, reduced to the
// fields the RFM pipeline needs. Rows missing a customer or order
// identifier are dropped during aggregation.
type Order struct {
	CustomerID string    `json:"customer_id"`
	OrderID    string    `json:"order_id"`
	OrderDate  time.Time `json:"order_date"`
	NetRevenue float64   `json:"net_revenue"`
}

// Customer holds the raw R/F/M values for one customer.
type Customer struct {
	CustomerID string  `json:"customer_id"`
	Recency    int     `json:"recency"`
	Frequency  int     `json:"frequency"`
	Monetary   float64 `json:"monetary"`
}

// ScoredCustomer is a customer with quantile scores and segment assignment.
type ScoredCustomer struct {
	Customer

	RScore   int    `json:"r_score"`
	FScore   int    `json:"f_score"`
	MScore   int    `json:"m_score"`
	Code     string `json:"rfm_code"`
	Segment  string `json:"segment"`
	Strategy string `json:"strategy"`
}

// SegmentSummary is one row of the per-segment rollup table.
type SegmentSummary struct {
	Segment       string  `json:"segment"`
	Customers     int     `json:"customers"`
	AvgRecency    float64 `json:"avg_recency_days"`
	AvgFrequency  float64 `json:"avg_frequency"`
	AvgMonetary   float64 `json:"avg_monetary"`
	TotalMonetary float64 `json:"total_monetary"`
	PctCustomers  float64 `json:"pct_customers"`
	PctRevenue    float64 `json:"pct_revenue"`
}
