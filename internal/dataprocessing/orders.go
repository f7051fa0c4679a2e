package dataprocessing

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"shoppulse/pkg/contracts/domain"
)

// LoadOrderDir loads every order export (.xlsx or .csv) in dir and
// returns the combined normalized line items.
func (l *Loader) LoadOrderDir(ctx context.Context, dir string, platform domain.Platform) ([]domain.OrderItem, error) {
	return loadFiles(ctx, l, dir, func(path string) ([]domain.OrderItem, error) {
		return l.LoadOrderFile(path, platform)
	}, ".xlsx", ".csv")
}

// LoadOrderFile parses one order export file into normalized line items.
func (l *Loader) LoadOrderFile(path string, platform domain.Platform) ([]domain.OrderItem, error) {
	var rows [][]string
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err = readSheet(path)
	case ".csv":
		rows, err = readCSV(path)
	default:
		return nil, fmt.Errorf("unsupported order file %s", filepath.Base(path))
	}
	if err != nil {
		return nil, err
	}
	return parseOrderRows(rows, platform)
}

func parseOrderRows(rows [][]string, platform domain.Platform) ([]domain.OrderItem, error) {
	headerRow := findHeaderRow(rows, orderColumns, 3)
	if headerRow < 0 {
		return nil, fmt.Errorf("no order header row found")
	}
	index := columnIndex(rows[headerRow], orderColumns)

	items := make([]domain.OrderItem, 0, len(rows)-headerRow-1)
	for _, row := range rows[headerRow+1:] {
		orderID := cell(row, index, colOrderID)
		productName := cell(row, index, colProductName)
		if orderID == "" || productName == "" {
			continue
		}
		items = append(items, domain.OrderItem{
			Platform:       platform,
			OrderID:        orderID,
			Status:         TranslateStatus(cell(row, index, colStatus)),
			OrderDate:      ParseDate(cell(row, index, colOrderDate)),
			ProductName:    productName,
			SKU:            cell(row, index, colSKU),
			Quantity:       ParseCount(cell(row, index, colQuantity)),
			OriginalPrice:  ParseCurrency(cell(row, index, colOriginalPrice)),
			SellingPrice:   ParseCurrency(cell(row, index, colSellingPrice)),
			NetSales:       ParseCurrency(cell(row, index, colNetSales)),
			Commission:     ParseCurrency(cell(row, index, colCommission)),
			TransactionFee: ParseCurrency(cell(row, index, colTxnFee)),
			ServiceFee:     ParseCurrency(cell(row, index, colServiceFee)),
			BuyerUsername:  cell(row, index, colBuyer),
			Province:       cell(row, index, colProvince),
		})
	}
	return items, nil
}

// readSheet returns the rows of the workbook's first non-empty sheet.
func readSheet(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			continue
		}
		if len(rows) > 0 {
			return rows, nil
		}
	}
	return nil, fmt.Errorf("no data sheet in %s", filepath.Base(path))
}
