package exporter

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoppulse/internal/basket"
	"shoppulse/internal/rfm"
	"shoppulse/pkg/contracts/domain"
)

func testWriter(t *testing.T) (*CSVWriter, string) {
	t.Helper()
	dir := t.TempDir()
	return NewCSVWriter(dir, slog.New(slog.NewTextHandler(io.Discard, nil))), dir
}

func readOutput(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(data)
}

func TestWriteSimpleCSVHasBOM(t *testing.T) {
	w, dir := testWriter(t)

	require.NoError(t, w.WriteSimpleCSV("out.csv",
		[]string{"Name", "Value"},
		[][]string{{"เซรั่ม", "42"}}))

	content := readOutput(t, dir, "out.csv")
	assert.True(t, strings.HasPrefix(content, "\xEF\xBB\xBF"), "UTF-8 BOM for Excel")
	assert.Contains(t, content, "Name,Value\n")
	assert.Contains(t, content, "เซรั่ม,42\n")
}

func TestWriteCSVTruncatesByDefault(t *testing.T) {
	w, dir := testWriter(t)

	require.NoError(t, w.WriteSimpleCSV("out.csv", []string{"A"}, [][]string{{"1"}, {"2"}}))
	require.NoError(t, w.WriteSimpleCSV("out.csv", []string{"A"}, [][]string{{"3"}}))

	content := readOutput(t, dir, "out.csv")
	assert.NotContains(t, content, "1")
	assert.Contains(t, content, "3")
}

func TestWriteRules(t *testing.T) {
	w, dir := testWriter(t)

	require.NoError(t, w.WriteRules([]basket.Rule{
		{
			Antecedent: []string{"Serum", "Toner"}, Consequent: []string{"Mask"},
			Support: 0.25, Confidence: 0.5, Lift: 1.25,
		},
	}))

	content := readOutput(t, dir, FileRules)
	assert.Contains(t, content, "Antecedent,Consequent,Support,Confidence,Lift")
	assert.Contains(t, content, `"Serum, Toner",Mask,0.250000,0.500000,1.250000`)
}

func TestWriteCustomers(t *testing.T) {
	w, dir := testWriter(t)

	require.NoError(t, w.WriteCustomers([]rfm.ScoredCustomer{
		{
			Customer: rfm.Customer{CustomerID: "alice", Recency: 4, Frequency: 9, Monetary: 4200.5},
			RScore:   5, FScore: 5, MScore: 5, Code: "555",
			Segment: "Champions", Strategy: "Reward them",
		},
	}))

	content := readOutput(t, dir, FileCustomers)
	assert.Contains(t, content,
		"Customer,Recency_Days,Frequency,Monetary,R_Score,F_Score,M_Score,RFM_Code,Segment,Strategy")
	assert.Contains(t, content, "alice,4,9,4200.50,5,5,5,555,Champions,Reward them")
}

func TestWriteDailySales(t *testing.T) {
	w, dir := testWriter(t)

	require.NoError(t, w.WriteDailySales([]domain.DailySales{
		{
			Date: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), Platform: domain.PlatformShopee,
			Orders: 3, UnitsSold: 5, GMV: 1600, NetRevenue: 1480, AOV: 533.33,
		},
	}))

	content := readOutput(t, dir, FileDailySales)
	assert.Contains(t, content, "2026-01-15,shopee,3,5.00,1600.00,1480.00,533.33")
}

func TestWritePerformance(t *testing.T) {
	w, dir := testWriter(t)

	require.NoError(t, w.WritePerformance([]domain.PerformanceRow{
		{
			Date: time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC), Platform: domain.PlatformTikTok,
			Channel: domain.ChannelLive, Name: "shop_host",
			Viewers: 2600, Duration: 6300, Orders: 31, UnitsSold: 40, GMV: 8900.5,
		},
	}))

	content := readOutput(t, dir, FilePerformance)
	assert.Contains(t, content,
		"Date,Platform,Channel,Name,Spend,Impressions,Clicks,CTR,Viewers,Duration_Seconds,Orders,Units_Sold,GMV,ROAS")
	assert.Contains(t, content,
		"2026-02-05,tiktok,live,shop_host,0.00,0.00,0.00,0.000000,2600.00,6300.00,31.00,40.00,8900.50,0.000000")
}
