package dataprocessing

import (
	"strings"

	"shoppulse/pkg/contracts/domain"
)

// Canonical column keys used after header translation.
const (
	colOrderID       = "order_id"
	colStatus        = "status"
	colOrderDate     = "order_date"
	colProductName   = "product_name"
	colSKU           = "sku"
	colOriginalPrice = "original_price"
	colSellingPrice  = "selling_price"
	colQuantity      = "quantity"
	colNetSales      = "net_sales"
	colCommission    = "commission"
	colTxnFee        = "transaction_fee"
	colServiceFee    = "service_fee"
	colBuyer         = "buyer"
	colProvince      = "province"

	colName        = "name"
	colSpend       = "spend"
	colImpressions = "impressions"
	colClicks      = "clicks"
	colCTR         = "ctr"
	colOrders      = "orders"
	colUnitsSold   = "units_sold"
	colGMV         = "gmv"
	colROAS        = "roas"
	colViewers     = "viewers"
	colDuration    = "duration"
)

// orderColumns translates Shopee order-export headers (Thai, with the
// occasional English holdout) onto the canonical schema.
var orderColumns = map[string]string{
	"หมายเลขคำสั่งซื้อ":                 colOrderID,
	"สถานะการสั่งซื้อ":                  colStatus,
	"วันที่ทำการสั่งซื้อ":               colOrderDate,
	"ชื่อสินค้า":                        colProductName,
	"เลขอ้างอิง SKU (SKU Reference No.)": colSKU,
	"ราคาตั้งต้น":                       colOriginalPrice,
	"ราคาขาย":                           colSellingPrice,
	"จำนวน":                             colQuantity,
	"ราคาขายสุทธิ":                      colNetSales,
	"ค่าคอมมิชชั่น":                     colCommission,
	"Transaction Fee":                   colTxnFee,
	"ค่าบริการ":                         colServiceFee,
	"ชื่อผู้ใช้ (ผู้ซื้อ)":              colBuyer,
	"จังหวัด":                           colProvince,

	"Order ID":     colOrderID,
	"Order Status": colStatus,
	"Order Date":   colOrderDate,
	"Product Name": colProductName,
	"SKU":          colSKU,
	"Quantity":     colQuantity,
	"Net Sales":    colNetSales,
	"Username":     colBuyer,
}

// adsColumns translates Shopee ads-report headers.
var adsColumns = map[string]string{
	"ชื่อโฆษณา":            colName,
	"การมองเห็น":           colImpressions,
	"จำนวนคลิก":            colClicks,
	"อัตราการคลิก (CTR)":   colCTR,
	"การสั่งซื้อ":          colOrders,
	"สินค้าที่ขายแล้ว":     colUnitsSold,
	"ยอดขาย":               colGMV,
	"ค่าโฆษณา":             colSpend,
	"ยอดขาย/รายจ่าย (ROAS)": colROAS,
}

// tiktokLiveColumns translates TikTok LIVE analytics headers.
var tiktokLiveColumns = map[string]string{
	"ครีเอเตอร์":                      colName,
	"ชื่อเล่น":                        colName,
	"ระยะเวลา":                        colDuration,
	"มูลค่าสินค้ารวมจาก LIVE (฿)":     colGMV,
	"คำสั่งซื้อ SKU จาก LIVE":         colOrders,
	"รายการจาก LIVE ที่ขายได้":        colItemsSold,
	"ผู้ชม":                           colViewers,
	"อัตราการคลิกเพื่อสั่งซื้อ (LIVE)": colCTR,
}

// tiktokVideoColumns translates TikTok video analytics headers.
var tiktokVideoColumns = map[string]string{
	"ข้อมูลวิดีโอ":                colName,
	"VV":                          colImpressions,
	"การคลิกผลิตภัณฑ์":            colClicks,
	"คำสั่งซื้อ":                  colOrders,
	"รายการในวิดีโอที่ขายได้":     colItemsSold,
	"มูลค่าสินค้ารวม (วิดีโอ) (฿)": colGMV,
	"อัตราการคลิกเพื่อสั่งซื้อ (วิดีโอ)": colCTR,
}

// tiktokVideoAltColumns translates the alternate "Video_List" affiliate
// export, which ships with a different header set.
var tiktokVideoAltColumns = map[string]string{
	"ชื่อวิดีโอ":                       colName,
	"วันที่โพสต์วิดีโอ":                colOrderDate,
	"GMV":                              colGMV,
	"จำนวนที่ขายได้จากแอฟฟิลิเอต":      colItemsSold,
	"คำสั่งซื้อแอฟฟิลิเอต":             colOrders,
	"ยอดการแสดงผลวิดีโอขายสินค้า":      colImpressions,
	"CTR จากแอฟฟิลิเอต":                colCTR,
}

const colItemsSold = colUnitsSold

// orderStatuses normalizes the Thai status strings Shopee exports carry.
var orderStatuses = map[string]domain.OrderStatus{
	"สำเร็จแล้ว":        domain.OrderStatusCompleted,
	"ที่ต้องจัดส่ง":     domain.OrderStatusShipping,
	"กำลังจัดส่ง":       domain.OrderStatusShipping,
	"รอการชำระเงิน":     domain.OrderStatusUnpaid,
	"ยกเลิกแล้ว":        domain.OrderStatusCancelled,
	"ยกเลิก":            domain.OrderStatusCancelled,
	"คืนเงิน/คืนสินค้า": domain.OrderStatusReturned,

	"completed": domain.OrderStatusCompleted,
	"shipping":  domain.OrderStatusShipping,
	"to ship":   domain.OrderStatusShipping,
	"unpaid":    domain.OrderStatusUnpaid,
	"cancelled": domain.OrderStatusCancelled,
	"returned":  domain.OrderStatusReturned,
}

// TranslateStatus maps a raw status cell to the normalized status,
// falling back to unknown for values the exports have not shown before.
func TranslateStatus(raw string) domain.OrderStatus {
	raw = strings.TrimSpace(raw)
	if status, ok := orderStatuses[raw]; ok {
		return status
	}
	if status, ok := orderStatuses[strings.ToLower(raw)]; ok {
		return status
	}
	return domain.OrderStatusUnknown
}

// columnIndex maps canonical keys to their position in a header row.
// The first header matching a canonical key wins.
func columnIndex(header []string, columns map[string]string) map[string]int {
	index := make(map[string]int, len(columns))
	for i, cell := range header {
		cell = strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff"))
		key, ok := columns[cell]
		if !ok {
			continue
		}
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}
	return index
}

// cell returns the trimmed value at the canonical key's column, or ""
// when the column is absent or the row is short.
func cell(row []string, index map[string]int, key string) string {
	i, ok := index[key]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
