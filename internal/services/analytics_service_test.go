package services

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoppulse/internal/config"
	"shoppulse/internal/storage"
)

// ordersCSV holds three buyers across four orders, enough for a
// three-bin RFM split and a couple of co-purchase patterns.
const ordersCSV = "หมายเลขคำสั่งซื้อ,สถานะการสั่งซื้อ,วันที่ทำการสั่งซื้อ,ชื่อสินค้า,จำนวน,ราคาขายสุทธิ,ชื่อผู้ใช้ (ผู้ซื้อ)\n" +
	"O-1,สำเร็จแล้ว,2026-01-10 10:00:00,Serum,1,1200,alice\n" +
	"O-1,สำเร็จแล้ว,2026-01-10 10:00:00,Toner,1,400,alice\n" +
	"O-2,สำเร็จแล้ว,2026-01-12 11:00:00,Serum,1,1200,bob\n" +
	"O-2,สำเร็จแล้ว,2026-01-12 11:00:00,Toner,2,800,bob\n" +
	"O-3,กำลังจัดส่ง,2026-01-20 09:00:00,Serum,1,1200,carol\n" +
	"O-4,สำเร็จแล้ว,2026-01-25 16:00:00,Mask,1,250,alice\n" +
	"O-5,ยกเลิกแล้ว,2026-01-26 12:00:00,Serum,1,1200,dave\n"

// adsCSV is one Shopee ads export with a report preamble and two
// campaigns, enough to exercise the performance wiring end to end.
const adsCSV = "รายงานภาพรวมโฆษณา\nชื่อร้านค้า: ทดสอบ\n\n" +
	"ลำดับ,ชื่อโฆษณา,การมองเห็น,จำนวนคลิก,อัตราการคลิก (CTR),การสั่งซื้อ,สินค้าที่ขายแล้ว,ยอดขาย,ค่าโฆษณา\n" +
	"1,Serum Boost,10000,250,2.50%,12,15,\"฿6,000\",\"฿1,500\"\n" +
	"2,Collagen Push,5000,80,1.60%,3,3,฿900,฿450\n"

func testService(t *testing.T) *AnalyticsService {
	t.Helper()

	base := t.TempDir()
	ordersDir := filepath.Join(base, "data", "Shopee_orders")
	require.NoError(t, os.MkdirAll(ordersDir, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(ordersDir, "Order.all.20260101_20260131.csv"), []byte(ordersCSV), 0o644))

	adsDir := filepath.Join(base, "data", "Shopee_Ad")
	require.NoError(t, os.MkdirAll(adsDir, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(adsDir, "ข้อมูล-Shopee-Ads-01_01_2026-31_01_2026.csv"), []byte(adsCSV), 0o644))

	cfg := &config.Config{}
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.ReportsDir = filepath.Join(base, "reports")
	cfg.Analysis.MinSupport = 0.1
	cfg.Analysis.MinConfidence = 0.2
	cfg.Analysis.MinLift = 1.0
	cfg.Analysis.MaxLength = 3
	cfg.Analysis.RFMBins = 3

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := storage.Open(":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	svc, err := NewAnalyticsService(cfg, store, logger)
	require.NoError(t, err)
	return svc
}

func TestRunPipeline(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	result, err := svc.RunPipeline(ctx)
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 4, result.Orders, "cancelled order excluded")
	assert.Equal(t, 3, result.Products)
	assert.Equal(t, 3, result.Customers, "cancelled buyer never counted")
	assert.Greater(t, result.Itemsets, 0)

	itemsets, err := svc.Itemsets(ctx, 0)
	require.NoError(t, err)
	require.NotEmpty(t, itemsets)
	assert.Equal(t, []string{"Serum"}, itemsets[0].Items, "highest support first")

	rules, err := svc.Rules(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, rules, result.Rules)

	recs, err := svc.Recommendations(ctx, "Serum", 5)
	require.NoError(t, err)
	require.NotEmpty(t, recs)
	assert.Equal(t, "Toner", recs[0].Product)

	customers, err := svc.Customers(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, customers, 3)
	assert.Equal(t, "bob", customers[0].CustomerID, "highest spender first")

	summary, err := svc.SegmentSummary(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, summary)

	daily, err := svc.DailySales(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, daily, 4, "one row per trading day")

	assert.Equal(t, 2, result.Performance, "one row per ad campaign")
	perf, err := svc.Performance(ctx, "ads", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, perf, 2)
	assert.Equal(t, "Collagen Push", perf[0].Name, "name is the tie-break within a day")
	assert.InDelta(t, 1500, perf[1].Spend, 1e-9)
	assert.InDelta(t, 4, perf[1].ROAS, 1e-9)

	health, err := svc.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "healthy", health.Status)
	require.NotNil(t, health.LastRun)
	assert.Equal(t, result.RunID, health.LastRun.RunID)

	for _, name := range []string{"frequent_itemsets.csv", "association_rules.csv",
		"customer_rfm.csv", "segment_summary.csv", "daily_sales.csv", "channel_performance.csv"} {
		_, err := os.Stat(filepath.Join(svc.cfg.Paths.ReportsDir, name))
		assert.NoError(t, err, name)
	}
}

func TestRunPipelineNoData(t *testing.T) {
	svc := testService(t)
	require.NoError(t, os.RemoveAll(svc.cfg.Paths.DataDir))
	ctx := context.Background()

	result, err := svc.RunPipeline(ctx)
	require.NoError(t, err, "no exports means empty results, not failure")
	assert.Equal(t, 0, result.Orders)
	assert.Equal(t, 0, result.Customers)
	assert.Equal(t, 0, result.Performance)

	itemsets, err := svc.Itemsets(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, itemsets)

	health, err := svc.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "healthy", health.Status)
}

func TestHealthBeforeFirstRun(t *testing.T) {
	svc := testService(t)

	health, err := svc.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", health.Status)
	assert.Nil(t, health.LastRun)
}
