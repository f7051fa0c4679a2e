package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shoppulse/internal/basket"
	"shoppulse/internal/rfm"
	"shoppulse/pkg/contracts/domain"
)

// Product lists are stored as JSON arrays so names containing commas or
// quotes round-trip intact.
func encodeItems(items []string) (string, error) {
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode items: %w", err)
	}
	return string(b), nil
}

func decodeItems(raw string) ([]string, error) {
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	return items, nil
}

// ReplaceItemsets rebuilds the frequent_itemsets table. The seq column
// preserves the miner's support-descending order.
func (s *Store) ReplaceItemsets(ctx context.Context, itemsets []basket.FrequentItemset) error {
	rows := make([][]any, 0, len(itemsets))
	for i, is := range itemsets {
		items, err := encodeItems(is.Items)
		if err != nil {
			return err
		}
		rows = append(rows, []any{i + 1, items, is.Support, is.Size})
	}
	return s.replaceAll(ctx, "frequent_itemsets",
		"INSERT INTO frequent_itemsets (seq, items, support, size) VALUES (?, ?, ?, ?)", rows)
}

// Itemsets returns stored frequent itemsets in mining order. A limit of
// zero or less returns everything.
func (s *Store) Itemsets(ctx context.Context, limit int) ([]basket.FrequentItemset, error) {
	query := "SELECT items, support, size FROM frequent_itemsets ORDER BY seq"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query itemsets: %w", err)
	}
	defer rows.Close()

	out := []basket.FrequentItemset{}
	for rows.Next() {
		var raw string
		var is basket.FrequentItemset
		if err := rows.Scan(&raw, &is.Support, &is.Size); err != nil {
			return nil, fmt.Errorf("scan itemset: %w", err)
		}
		if is.Items, err = decodeItems(raw); err != nil {
			return nil, err
		}
		out = append(out, is)
	}
	return out, rows.Err()
}

// ReplaceRules rebuilds the association_rules table in lift-descending
// rule order.
func (s *Store) ReplaceRules(ctx context.Context, rules []basket.Rule) error {
	rows := make([][]any, 0, len(rules))
	for i, r := range rules {
		ant, err := encodeItems(r.Antecedent)
		if err != nil {
			return err
		}
		con, err := encodeItems(r.Consequent)
		if err != nil {
			return err
		}
		rows = append(rows, []any{
			i + 1, ant, con,
			r.AntecedentSupport, r.ConsequentSupport,
			r.Support, r.Confidence, r.Lift,
		})
	}
	return s.replaceAll(ctx, "association_rules",
		`INSERT INTO association_rules
			(seq, antecedent, consequent, ant_support, con_support, support, confidence, lift)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, rows)
}

// Rules returns stored association rules in rule order. A limit of zero
// or less returns everything.
func (s *Store) Rules(ctx context.Context, limit int) ([]basket.Rule, error) {
	query := `SELECT antecedent, consequent, ant_support, con_support, support, confidence, lift
		FROM association_rules ORDER BY seq`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query rules: %w", err)
	}
	defer rows.Close()

	out := []basket.Rule{}
	for rows.Next() {
		var rawAnt, rawCon string
		var r basket.Rule
		if err := rows.Scan(&rawAnt, &rawCon,
			&r.AntecedentSupport, &r.ConsequentSupport,
			&r.Support, &r.Confidence, &r.Lift); err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		if r.Antecedent, err = decodeItems(rawAnt); err != nil {
			return nil, err
		}
		if r.Consequent, err = decodeItems(rawCon); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ReplaceCustomers rebuilds the customer_rfm table.
func (s *Store) ReplaceCustomers(ctx context.Context, customers []rfm.ScoredCustomer) error {
	rows := make([][]any, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, []any{
			c.CustomerID, c.Recency, c.Frequency, c.Monetary,
			c.RScore, c.FScore, c.MScore, c.Code, c.Segment, c.Strategy,
		})
	}
	return s.replaceAll(ctx, "customer_rfm",
		`INSERT INTO customer_rfm
			(customer_id, recency, frequency, monetary, r_score, f_score, m_score, rfm_code, segment, strategy)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, rows)
}

// Customers returns scored customers, optionally filtered to one
// segment, ordered by monetary value descending.
func (s *Store) Customers(ctx context.Context, segment string, limit int) ([]rfm.ScoredCustomer, error) {
	query := `SELECT customer_id, recency, frequency, monetary,
		r_score, f_score, m_score, rfm_code, segment, strategy FROM customer_rfm`
	args := []any{}
	if segment != "" {
		query += " WHERE segment = ?"
		args = append(args, segment)
	}
	query += " ORDER BY monetary DESC, customer_id"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	out := []rfm.ScoredCustomer{}
	for rows.Next() {
		var c rfm.ScoredCustomer
		if err := rows.Scan(&c.CustomerID, &c.Recency, &c.Frequency, &c.Monetary,
			&c.RScore, &c.FScore, &c.MScore, &c.Code, &c.Segment, &c.Strategy); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ReplaceDailySales rebuilds the daily_sales table.
func (s *Store) ReplaceDailySales(ctx context.Context, sales []domain.DailySales) error {
	rows := make([][]any, 0, len(sales))
	for _, d := range sales {
		rows = append(rows, []any{
			d.Date, string(d.Platform), d.Orders, d.UnitsSold, d.GMV, d.NetRevenue, d.AOV,
		})
	}
	return s.replaceAll(ctx, "daily_sales",
		`INSERT INTO daily_sales
			(sale_date, platform, orders, units_sold, gmv, net_revenue, aov)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`, rows)
}

// DailySales returns stored daily sales rows between from and to
// inclusive; zero bounds are open.
func (s *Store) DailySales(ctx context.Context, from, to time.Time) ([]domain.DailySales, error) {
	query := "SELECT sale_date, platform, orders, units_sold, gmv, net_revenue, aov FROM daily_sales"
	args := []any{}
	clause := " WHERE"
	if !from.IsZero() {
		query += clause + " sale_date >= ?"
		args = append(args, from)
		clause = " AND"
	}
	if !to.IsZero() {
		query += clause + " sale_date <= ?"
		args = append(args, to)
	}
	query += " ORDER BY sale_date, platform"

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query daily sales: %w", err)
	}
	defer rows.Close()

	out := []domain.DailySales{}
	for rows.Next() {
		var d domain.DailySales
		var platform string
		if err := rows.Scan(&d.Date, &platform, &d.Orders, &d.UnitsSold, &d.GMV, &d.NetRevenue, &d.AOV); err != nil {
			return nil, fmt.Errorf("scan daily sales: %w", err)
		}
		d.Platform = domain.Platform(platform)
		out = append(out, d)
	}
	return out, rows.Err()
}

// ReplacePerformance rebuilds the channel_performance table.
func (s *Store) ReplacePerformance(ctx context.Context, perf []domain.PerformanceRow) error {
	rows := make([][]any, 0, len(perf))
	for _, p := range perf {
		rows = append(rows, []any{
			p.Date, string(p.Platform), string(p.Channel), p.Name,
			p.Spend, p.Impressions, p.Clicks, p.CTR,
			p.Viewers, p.Duration, p.Orders, p.UnitsSold, p.GMV, p.ROAS,
		})
	}
	return s.replaceAll(ctx, "channel_performance",
		`INSERT INTO channel_performance
			(report_date, platform, channel, name, spend, impressions, clicks, ctr,
			 viewers, duration_seconds, orders, units_sold, gmv, roas)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, rows)
}

// Performance returns stored channel performance rows, optionally
// filtered to one channel and a date window; zero bounds are open.
func (s *Store) Performance(ctx context.Context, channel string, from, to time.Time) ([]domain.PerformanceRow, error) {
	query := `SELECT report_date, platform, channel, name, spend, impressions, clicks, ctr,
		viewers, duration_seconds, orders, units_sold, gmv, roas FROM channel_performance`
	args := []any{}
	clause := " WHERE"
	if channel != "" {
		query += clause + " channel = ?"
		args = append(args, channel)
		clause = " AND"
	}
	if !from.IsZero() {
		query += clause + " report_date >= ?"
		args = append(args, from)
		clause = " AND"
	}
	if !to.IsZero() {
		query += clause + " report_date <= ?"
		args = append(args, to)
	}
	query += " ORDER BY report_date, platform, channel, name"

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query performance: %w", err)
	}
	defer rows.Close()

	out := []domain.PerformanceRow{}
	for rows.Next() {
		var p domain.PerformanceRow
		var platform, ch string
		if err := rows.Scan(&p.Date, &platform, &ch, &p.Name,
			&p.Spend, &p.Impressions, &p.Clicks, &p.CTR,
			&p.Viewers, &p.Duration, &p.Orders, &p.UnitsSold, &p.GMV, &p.ROAS); err != nil {
			return nil, fmt.Errorf("scan performance: %w", err)
		}
		p.Platform = domain.Platform(platform)
		p.Channel = domain.Channel(ch)
		out = append(out, p)
	}
	return out, rows.Err()
}

// RunRecord is one pipeline run's bookkeeping row.
type RunRecord struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Orders     int       `json:"orders"`
	Itemsets   int       `json:"itemsets"`
	Rules      int       `json:"rules"`
	Customers  int       `json:"customers"`
}

// RecordRun appends one pipeline run to the run history.
func (s *Store) RecordRun(ctx context.Context, run RunRecord) error {
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO pipeline_runs
			(run_id, started_at, finished_at, orders, itemsets, rules, customers)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.StartedAt, run.FinishedAt,
		run.Orders, run.Itemsets, run.Rules, run.Customers)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// LastRun returns the most recent pipeline run, or sql.ErrNoRows when
// no run has completed yet.
func (s *Store) LastRun(ctx context.Context) (RunRecord, error) {
	var run RunRecord
	err := s.conn.QueryRowContext(ctx,
		`SELECT run_id, started_at, finished_at, orders, itemsets, rules, customers
		 FROM pipeline_runs ORDER BY finished_at DESC LIMIT 1`).
		Scan(&run.RunID, &run.StartedAt, &run.FinishedAt,
			&run.Orders, &run.Itemsets, &run.Rules, &run.Customers)
	if err != nil {
		return RunRecord{}, fmt.Errorf("query last run: %w", err)
	}
	return run, nil
}
