package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{name: "plain number", input: "1234.56", want: 1234.56},
		{name: "baht sign and thousands", input: "฿1,234.56", want: 1234.56},
		{name: "quoted cell", input: "\"2,500\"", want: 2500},
		{name: "spaces", input: " ฿ 99 ", want: 99},
		{name: "dash placeholder", input: "-", want: 0},
		{name: "empty", input: "", want: 0},
		{name: "garbage", input: "n/a", want: 0},
		{name: "negative", input: "-12.50", want: -12.50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseCurrency(tt.input), 1e-9)
		})
	}
}

func TestParsePercent(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{name: "percent sign", input: "3.45%", want: 0.0345},
		{name: "already fractional", input: "0.0345", want: 0.0345},
		{name: "whole number treated as percent", input: "12", want: 0.12},
		{name: "exactly one stays", input: "1", want: 1},
		{name: "empty", input: "", want: 0},
		{name: "garbage", input: "abc", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParsePercent(tt.input), 1e-9)
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{name: "clock hms", input: "1:23:45", want: 5025},
		{name: "clock ms", input: "45:30", want: 2730},
		{name: "thai full", input: "4ชั่วโมง9นาที28วินาที", want: 4*3600 + 9*60 + 28},
		{name: "thai minutes only", input: "35นาที", want: 2100},
		{name: "tiktok h min", input: "7h 12min", want: 7*3600 + 12*60},
		{name: "tiktok min s", input: "45min 30s", want: 45*60 + 30},
		{name: "tiktok hours only", input: "2h", want: 7200},
		{name: "empty", input: "", want: 0},
		{name: "garbage", input: "soon", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseDuration(tt.input), 1e-9)
		})
	}
}

func TestParseDate(t *testing.T) {
	assert.Equal(t, time.Date(2026, 1, 15, 14, 30, 5, 0, time.UTC),
		ParseDate("2026-01-15 14:30:05"))
	assert.Equal(t, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		ParseDate("15/01/2026"))
	assert.True(t, ParseDate("soon").IsZero())
	assert.True(t, ParseDate("").IsZero())
}

func TestDateFromFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     time.Time
	}{
		{
			name:     "order range",
			filename: "Order.all.20260101_20260131.xlsx",
			want:     time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "ads range",
			filename: "ข้อมูล-Shopee-Ads-01_01_2026-31_01_2026.csv",
			want:     time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "iso date",
			filename: "overview-v2_1m_2026-01-31_export.csv",
			want:     time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "no date",
			filename: "export.csv",
			want:     time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dateFromFilename(tt.filename))
		})
	}
}

func TestDateFromRangeHeader(t *testing.T) {
	got := dateFromRangeHeader("ช่วงวันที่: 2026-01-01 ~ 2026-01-31")
	assert.Equal(t, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), got)
	assert.True(t, dateFromRangeHeader("no dates here").IsZero())
}
