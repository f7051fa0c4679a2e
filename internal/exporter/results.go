package exporter

import (
	"strconv"
	"strings"

	"shoppulse/internal/basket"
	"shoppulse/internal/rfm"
	"shoppulse/pkg/contracts/domain"
)

// Output file names, one per result table.
const (
	FileItemsets       = "frequent_itemsets.csv"
	FileRules          = "association_rules.csv"
	FileCustomers      = "customer_rfm.csv"
	FileSegmentSummary = "segment_summary.csv"
	FileDailySales     = "daily_sales.csv"
	FilePerformance    = "channel_performance.csv"
)

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}

func formatMoney(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// joinItems renders a product list the way analysts read it, comma
// separated inside one cell.
func joinItems(items []string) string {
	return strings.Join(items, ", ")
}

// WriteItemsets exports frequent itemsets in mining order.
func (w *CSVWriter) WriteItemsets(itemsets []basket.FrequentItemset) error {
	records := make([][]string, 0, len(itemsets))
	for _, is := range itemsets {
		records = append(records, []string{
			joinItems(is.Items),
			formatFloat(is.Support),
			strconv.Itoa(is.Size),
		})
	}
	return w.WriteSimpleCSV(FileItemsets,
		[]string{"Itemset", "Support", "Size"}, records)
}

// WriteRules exports association rules in lift order.
func (w *CSVWriter) WriteRules(rules []basket.Rule) error {
	records := make([][]string, 0, len(rules))
	for _, r := range rules {
		records = append(records, []string{
			joinItems(r.Antecedent),
			joinItems(r.Consequent),
			formatFloat(r.Support),
			formatFloat(r.Confidence),
			formatFloat(r.Lift),
		})
	}
	return w.WriteSimpleCSV(FileRules,
		[]string{"Antecedent", "Consequent", "Support", "Confidence", "Lift"}, records)
}

// WriteCustomers exports the scored customer base.
func (w *CSVWriter) WriteCustomers(customers []rfm.ScoredCustomer) error {
	records := make([][]string, 0, len(customers))
	for _, c := range customers {
		records = append(records, []string{
			c.CustomerID,
			strconv.Itoa(c.Recency),
			strconv.Itoa(c.Frequency),
			formatMoney(c.Monetary),
			strconv.Itoa(c.RScore),
			strconv.Itoa(c.FScore),
			strconv.Itoa(c.MScore),
			c.Code,
			c.Segment,
			c.Strategy,
		})
	}
	return w.WriteSimpleCSV(FileCustomers,
		[]string{"Customer", "Recency_Days", "Frequency", "Monetary",
			"R_Score", "F_Score", "M_Score", "RFM_Code", "Segment", "Strategy"},
		records)
}

// WriteSegmentSummary exports the per-segment rollup.
func (w *CSVWriter) WriteSegmentSummary(summaries []rfm.SegmentSummary) error {
	records := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		records = append(records, []string{
			s.Segment,
			strconv.Itoa(s.Customers),
			formatMoney(s.AvgRecency),
			formatMoney(s.AvgFrequency),
			formatMoney(s.AvgMonetary),
			formatMoney(s.TotalMonetary),
			formatFloat(s.PctCustomers),
			formatFloat(s.PctRevenue),
		})
	}
	return w.WriteSimpleCSV(FileSegmentSummary,
		[]string{"Segment", "Customers", "Avg_Recency_Days", "Avg_Frequency", "Avg_Monetary",
			"Total_Monetary", "Pct_Customers", "Pct_Revenue"},
		records)
}

// WriteDailySales exports the daily sales rollup.
func (w *CSVWriter) WriteDailySales(sales []domain.DailySales) error {
	records := make([][]string, 0, len(sales))
	for _, d := range sales {
		records = append(records, []string{
			d.Date.Format("2006-01-02"),
			string(d.Platform),
			strconv.Itoa(d.Orders),
			formatMoney(d.UnitsSold),
			formatMoney(d.GMV),
			formatMoney(d.NetRevenue),
			formatMoney(d.AOV),
		})
	}
	return w.WriteSimpleCSV(FileDailySales,
		[]string{"Date", "Platform", "Orders", "Units_Sold", "GMV", "Net_Revenue", "AOV"},
		records)
}

// WritePerformance exports the normalized channel performance rows.
func (w *CSVWriter) WritePerformance(perf []domain.PerformanceRow) error {
	records := make([][]string, 0, len(perf))
	for _, p := range perf {
		records = append(records, []string{
			p.Date.Format("2006-01-02"),
			string(p.Platform),
			string(p.Channel),
			p.Name,
			formatMoney(p.Spend),
			formatMoney(p.Impressions),
			formatMoney(p.Clicks),
			formatFloat(p.CTR),
			formatMoney(p.Viewers),
			formatMoney(p.Duration),
			formatMoney(p.Orders),
			formatMoney(p.UnitsSold),
			formatMoney(p.GMV),
			formatFloat(p.ROAS),
		})
	}
	return w.WriteSimpleCSV(FilePerformance,
		[]string{"Date", "Platform", "Channel", "Name", "Spend", "Impressions", "Clicks",
			"CTR", "Viewers", "Duration_Seconds", "Orders", "Units_Sold", "GMV", "ROAS"},
		records)
}
