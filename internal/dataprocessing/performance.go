package dataprocessing

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"shoppulse/pkg/contracts/domain"
)

// LoadAdsDir loads every Shopee ads report (.csv) in dir.
func (l *Loader) LoadAdsDir(ctx context.Context, dir string) ([]domain.PerformanceRow, error) {
	return loadFiles(ctx, l, dir, l.LoadAdsFile, ".csv")
}

// LoadAdsFile parses one Shopee ads report. The report pads account
// metadata above the table, so the header is located by translation
// hits rather than position.
func (l *Loader) LoadAdsFile(path string) ([]domain.PerformanceRow, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	headerRow := findHeaderRow(rows, adsColumns, 3)
	if headerRow < 0 {
		return nil, fmt.Errorf("no ads header row found in %s", filepath.Base(path))
	}
	index := columnIndex(rows[headerRow], adsColumns)
	date := dateFromFilename(filepath.Base(path))

	out := make([]domain.PerformanceRow, 0, len(rows)-headerRow-1)
	for _, row := range rows[headerRow+1:] {
		name := cell(row, index, colName)
		if name == "" {
			continue
		}
		r := domain.PerformanceRow{
			Platform:    domain.PlatformShopee,
			Channel:     domain.ChannelAds,
			Date:        date,
			Name:        name,
			Spend:       ParseCurrency(cell(row, index, colSpend)),
			Impressions: ParseCount(cell(row, index, colImpressions)),
			Clicks:      ParseCount(cell(row, index, colClicks)),
			CTR:         ParsePercent(cell(row, index, colCTR)),
			Orders:      ParseCount(cell(row, index, colOrders)),
			UnitsSold:   ParseCount(cell(row, index, colUnitsSold)),
			GMV:         ParseCurrency(cell(row, index, colGMV)),
			ROAS:        ParseCurrency(cell(row, index, colROAS)),
		}
		if r.ROAS == 0 && r.Spend > 0 {
			r.ROAS = r.GMV / r.Spend
		}
		out = append(out, r)
	}
	return out, nil
}

// LoadShopeeOverviewDir loads Shopee live or video overview exports
// (.csv) in dir. Each file is a one-row daily snapshot.
func (l *Loader) LoadShopeeOverviewDir(ctx context.Context, dir string, channel domain.Channel) ([]domain.PerformanceRow, error) {
	return loadFiles(ctx, l, dir, func(path string) ([]domain.PerformanceRow, error) {
		return l.LoadShopeeOverviewFile(path, channel)
	}, ".csv")
}

// overviewMetrics maps fragments of the overview exports' two-level
// headers onto canonical keys. Confirmed-order figures are preferred
// over pending ones, so the confirmed fragment must sort after the
// generic one in matching order below.
var overviewMetrics = []struct {
	fragment string
	key      string
}{
	{"ยอดขาย(คำสั่งซื้อที่ยืนยันแล้ว)", colGMV},
	{"คำสั่งซื้อ(คำสั่งซื้อที่ยืนยันแล้ว)", colOrders},
	{"ผู้ชมทั้งหมด", colViewers},
	{"ระยะเวลา Live ทั้งหมด", colDuration},
	{"การเข้าชม", colImpressions},
}

// LoadShopeeOverviewFile parses one live/video overview snapshot. The
// export stacks two header rows (metric group, then metric) above a
// single data row; headers are matched by fragment against the merged
// pair.
func (l *Loader) LoadShopeeOverviewFile(path string, channel domain.Channel) ([]domain.PerformanceRow, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if len(rows) < 3 {
		return nil, fmt.Errorf("overview file %s too short", filepath.Base(path))
	}

	headers := mergeHeaderRows(rows[0], rows[1])
	data := rows[2]

	row := domain.PerformanceRow{
		Platform: domain.PlatformShopee,
		Channel:  channel,
		Date:     dateFromFilename(filepath.Base(path)),
		Name:     filepath.Base(path),
	}
	for i, header := range headers {
		if i >= len(data) {
			break
		}
		for _, metric := range overviewMetrics {
			if !strings.Contains(header, metric.fragment) {
				continue
			}
			value := data[i]
			switch metric.key {
			case colGMV:
				row.GMV = ParseCurrency(value)
			case colOrders:
				row.Orders = ParseCount(value)
			case colViewers:
				row.Viewers = ParseCount(value)
			case colDuration:
				row.Duration = ParseDuration(value)
			case colImpressions:
				row.Impressions = ParseCount(value)
			}
			break
		}
	}
	return []domain.PerformanceRow{row}, nil
}

// mergeHeaderRows combines the overview exports' stacked header pair.
// The group header carries forward across the columns it spans.
func mergeHeaderRows(groups, metrics []string) []string {
	n := len(groups)
	if len(metrics) > n {
		n = len(metrics)
	}
	merged := make([]string, n)
	current := ""
	for i := 0; i < n; i++ {
		group := ""
		if i < len(groups) {
			group = strings.TrimSpace(groups[i])
		}
		if group != "" {
			current = group
		}
		metric := ""
		if i < len(metrics) {
			metric = strings.TrimSpace(metrics[i])
		}
		if metric != "" {
			merged[i] = current + "_" + metric
		} else {
			merged[i] = current
		}
	}
	return merged
}

// LoadTikTokLiveDir loads TikTok LIVE analytics workbooks (.xlsx) in dir.
func (l *Loader) LoadTikTokLiveDir(ctx context.Context, dir string) ([]domain.PerformanceRow, error) {
	return loadFiles(ctx, l, dir, l.LoadTikTokLiveFile, ".xlsx")
}

// LoadTikTokLiveFile parses one TikTok LIVE analytics workbook. The
// report period banner sits above the header row.
func (l *Loader) LoadTikTokLiveFile(path string) ([]domain.PerformanceRow, error) {
	rows, err := readSheet(path)
	if err != nil {
		return nil, err
	}
	headerRow := findHeaderRow(rows, tiktokLiveColumns, 2)
	if headerRow < 0 {
		return nil, fmt.Errorf("no live header row found in %s", filepath.Base(path))
	}
	date := tiktokReportDate(rows, headerRow, filepath.Base(path))
	index := columnIndex(rows[headerRow], tiktokLiveColumns)

	out := make([]domain.PerformanceRow, 0, len(rows)-headerRow-1)
	for _, row := range rows[headerRow+1:] {
		name := cell(row, index, colName)
		if name == "" {
			continue
		}
		out = append(out, domain.PerformanceRow{
			Platform:  domain.PlatformTikTok,
			Channel:   domain.ChannelLive,
			Date:      date,
			Name:      name,
			Duration:  ParseDuration(cell(row, index, colDuration)),
			GMV:       ParseCurrency(cell(row, index, colGMV)),
			Orders:    ParseCount(cell(row, index, colOrders)),
			UnitsSold: ParseCount(cell(row, index, colUnitsSold)),
			Viewers:   ParseCount(cell(row, index, colViewers)),
			CTR:       ParsePercent(cell(row, index, colCTR)),
		})
	}
	return out, nil
}

// LoadTikTokVideoDir loads TikTok video workbooks (.xlsx) in dir. Two
// report formats circulate; both are accepted.
func (l *Loader) LoadTikTokVideoDir(ctx context.Context, dir string) ([]domain.PerformanceRow, error) {
	return loadFiles(ctx, l, dir, l.LoadTikTokVideoFile, ".xlsx")
}

// LoadTikTokVideoFile parses one TikTok video workbook, detecting which
// of the two circulating formats it uses by header translation.
func (l *Loader) LoadTikTokVideoFile(path string) ([]domain.PerformanceRow, error) {
	rows, err := readSheet(path)
	if err != nil {
		return nil, err
	}

	columns := tiktokVideoColumns
	headerRow := findHeaderRow(rows, columns, 2)
	if headerRow < 0 {
		columns = tiktokVideoAltColumns
		headerRow = findHeaderRow(rows, columns, 2)
	}
	if headerRow < 0 {
		return nil, fmt.Errorf("no video header row found in %s", filepath.Base(path))
	}
	date := tiktokReportDate(rows, headerRow, filepath.Base(path))
	index := columnIndex(rows[headerRow], columns)

	out := make([]domain.PerformanceRow, 0, len(rows)-headerRow-1)
	for _, row := range rows[headerRow+1:] {
		name := cell(row, index, colName)
		if name == "" {
			continue
		}
		rowDate := date
		if posted := ParseDate(cell(row, index, colOrderDate)); !posted.IsZero() {
			rowDate = posted
		}
		out = append(out, domain.PerformanceRow{
			Platform:    domain.PlatformTikTok,
			Channel:     domain.ChannelVideo,
			Date:        rowDate,
			Name:        name,
			Impressions: ParseCount(cell(row, index, colImpressions)),
			Clicks:      ParseCount(cell(row, index, colClicks)),
			CTR:         ParsePercent(cell(row, index, colCTR)),
			Orders:      ParseCount(cell(row, index, colOrders)),
			UnitsSold:   ParseCount(cell(row, index, colUnitsSold)),
			GMV:         ParseCurrency(cell(row, index, colGMV)),
		})
	}
	return out, nil
}

// tiktokReportDate resolves a workbook's reporting date: the period
// banner above the header when present, the filename otherwise.
func tiktokReportDate(rows [][]string, headerRow int, filename string) time.Time {
	for _, row := range rows[:headerRow] {
		for _, cell := range row {
			if date := dateFromRangeHeader(cell); !date.IsZero() {
				return date
			}
		}
	}
	return dateFromFilename(filename)
}
