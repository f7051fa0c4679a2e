package dataprocessing

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

	"shoppulse/pkg/contracts/domain"
)

func testLoader() *Loader {
	return NewLoader(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

const orderCSV = "หมายเลขคำสั่งซื้อ,สถานะการสั่งซื้อ,วันที่ทำการสั่งซื้อ,ชื่อสินค้า,จำนวน,ราคาขายสุทธิ,ค่าคอมมิชชั่น,Transaction Fee,ค่าบริการ,ชื่อผู้ใช้ (ผู้ซื้อ)\n" +
	"O-1001,สำเร็จแล้ว,2026-01-15 14:30:05,Vitamin C Serum,2,\"฿1,200.00\",60,24,36,buyer_a\n" +
	"O-1002,ยกเลิกแล้ว,2026-01-16 09:00:00,Collagen Powder,1,฿890.00,44.5,17.8,26.7,buyer_b\n" +
	",สำเร็จแล้ว,2026-01-16 10:00:00,Orphan Row,1,100,0,0,0,buyer_c\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadOrderFileCSV(t *testing.T) {
	path := writeFile(t, t.TempDir(), "Order.all.20260101_20260131.csv", orderCSV)

	items, err := testLoader().LoadOrderFile(path, domain.PlatformShopee)
	require.NoError(t, err)
	require.Len(t, items, 2, "row without order id is dropped")

	first := items[0]
	assert.Equal(t, "O-1001", first.OrderID)
	assert.Equal(t, domain.OrderStatusCompleted, first.Status)
	assert.Equal(t, "Vitamin C Serum", first.ProductName)
	assert.Equal(t, time.Date(2026, 1, 15, 14, 30, 5, 0, time.UTC), first.OrderDate)
	assert.InDelta(t, 2, first.Quantity, 1e-9)
	assert.InDelta(t, 1200, first.NetSales, 1e-9)
	assert.InDelta(t, 1200-60-24-36, first.NetRevenue(), 1e-9)
	assert.Equal(t, "buyer_a", first.BuyerUsername)

	assert.Equal(t, domain.OrderStatusCancelled, items[1].Status)
}

func TestLoadOrderFileWithBOM(t *testing.T) {
	path := writeFile(t, t.TempDir(), "orders.csv", "\ufeff"+orderCSV)

	items, err := testLoader().LoadOrderFile(path, domain.PlatformShopee)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "O-1001", items[0].OrderID)
}

func TestLoadOrderFileHeaderNotFirstRow(t *testing.T) {
	content := "รายงานคำสั่งซื้อ\nช่วงวันที่: 2026-01-01 - 2026-01-31\n" + orderCSV
	path := writeFile(t, t.TempDir(), "orders.csv", content)

	items, err := testLoader().LoadOrderFile(path, domain.PlatformShopee)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestLoadOrderFileNoHeader(t *testing.T) {
	path := writeFile(t, t.TempDir(), "orders.csv", "a,b,c\n1,2,3\n")

	_, err := testLoader().LoadOrderFile(path, domain.PlatformShopee)
	assert.Error(t, err)
}

func TestLoadOrderDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b_orders.csv", orderCSV)
	writeFile(t, dir, "a_orders.csv", orderCSV)
	writeFile(t, dir, "broken.csv", "not,a\nvalid,order,file\n")
	writeFile(t, dir, "desktop.ini", "[ViewState]")
	writeFile(t, dir, "notes.txt", "ignore me")

	items, err := testLoader().LoadOrderDir(context.Background(), dir, domain.PlatformShopee)
	require.NoError(t, err)
	assert.Len(t, items, 4, "two rows per readable file, broken file skipped")
}

func TestLoadOrderDirMissing(t *testing.T) {
	items, err := testLoader().LoadOrderDir(context.Background(),
		filepath.Join(t.TempDir(), "nope"), domain.PlatformShopee)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestTranslateStatus(t *testing.T) {
	assert.Equal(t, domain.OrderStatusCompleted, TranslateStatus("สำเร็จแล้ว"))
	assert.Equal(t, domain.OrderStatusShipping, TranslateStatus("ที่ต้องจัดส่ง"))
	assert.Equal(t, domain.OrderStatusUnpaid, TranslateStatus("รอการชำระเงิน"))
	assert.Equal(t, domain.OrderStatusCancelled, TranslateStatus("Cancelled"))
	assert.Equal(t, domain.OrderStatusUnknown, TranslateStatus("mystery"))
}
