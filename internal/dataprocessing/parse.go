package dataprocessing

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// currencyReplacer strips the decoration Shopee puts around money cells:
// the baht sign, thousands separators and the quoting Excel adds when a
// cell contains commas.
var currencyReplacer = strings.NewReplacer("฿", "", ",", "", "\"", "", "'", "", "THB", "", " ", "")

// ParseCurrency converts a localized currency cell ("฿1,234.56") to a
// float. Malformed or empty cells parse to zero, the same padding the
// exports use for missing metrics.
func ParseCurrency(value string) float64 {
	cleaned := strings.TrimSpace(currencyReplacer.Replace(value))
	if cleaned == "" || cleaned == "-" {
		return 0
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}

// ParsePercent converts a rate cell to a fraction. The exports are
// inconsistent about units ("3.45%" vs "0.0345"), so values above 1 are
// treated as percentages and divided by 100.
func ParsePercent(value string) float64 {
	cleaned := strings.TrimSpace(strings.NewReplacer("%", "", ",", "").Replace(value))
	if cleaned == "" {
		return 0
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	if f > 1 {
		return f / 100
	}
	return f
}

// ParseCount parses an integer-like cell that may carry currency
// decoration, returning zero when malformed.
func ParseCount(value string) float64 {
	return ParseCurrency(value)
}

// ParseClockDuration parses "H:MM:SS" or "MM:SS" into seconds.
func ParseClockDuration(value string) float64 {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0
	}
	total := 0
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return 0
		}
		total = total*60 + n
	}
	return float64(total)
}

var (
	thaiHours   = regexp.MustCompile(`(\d+)ชั่วโมง`)
	thaiMinutes = regexp.MustCompile(`(\d+)นาที`)
	thaiSeconds = regexp.MustCompile(`(\d+)วินาที`)

	latinHours   = regexp.MustCompile(`(?i)(\d+)\s*h`)
	latinMinutes = regexp.MustCompile(`(?i)(\d+)\s*min`)
	latinSeconds = regexp.MustCompile(`(?i)(\d+)\s*s`)
)

// ParseThaiDuration parses Shopee's spelled-out duration format, e.g.
// "4ชั่วโมง9นาที28วินาที", into seconds.
func ParseThaiDuration(value string) float64 {
	return durationSeconds(value, thaiHours, thaiMinutes, thaiSeconds)
}

// ParseLatinDuration parses TikTok's abbreviated duration format, e.g.
// "7h 12min 28s" or "45min", into seconds.
func ParseLatinDuration(value string) float64 {
	// "min" also ends in letters the seconds pattern matches, so strip
	// minute tokens before looking for a bare "s".
	stripped := latinMinutes.ReplaceAllString(value, "")
	h := firstInt(latinHours, value)
	m := firstInt(latinMinutes, value)
	s := firstInt(latinSeconds, stripped)
	return float64(h*3600 + m*60 + s)
}

// ParseDuration accepts any duration spelling the exports use.
func ParseDuration(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if strings.Contains(value, ":") {
		return ParseClockDuration(value)
	}
	if thaiHours.MatchString(value) || thaiMinutes.MatchString(value) || thaiSeconds.MatchString(value) {
		return ParseThaiDuration(value)
	}
	return ParseLatinDuration(value)
}

func durationSeconds(value string, hours, minutes, seconds *regexp.Regexp) float64 {
	h := firstInt(hours, value)
	m := firstInt(minutes, value)
	s := firstInt(seconds, value)
	return float64(h*3600 + m*60 + s)
}

func firstInt(re *regexp.Regexp, value string) int {
	match := re.FindStringSubmatch(value)
	if match == nil {
		return 0
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return n
}

// dateLayouts covers the date spellings seen across the exports.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
	"2006/01/02",
}

// ParseDate tries the exports' known date layouts, returning the zero
// time when none match.
func ParseDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

var (
	isoDatePattern   = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)
	rangePattern     = regexp.MustCompile(`(\d{8})_(\d{8})`)
	thaiRangePattern = regexp.MustCompile(`(\d{2})_(\d{2})_(\d{4})-(\d{2})_(\d{2})_(\d{4})`)
	tildeRange       = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})\s*~\s*(\d{4}-\d{2}-\d{2})`)
)

// dateFromFilename extracts the reporting date embedded in an export's
// filename. Period exports yield the period end date; single-day exports
// yield that day. Zero time when the filename carries no date.
func dateFromFilename(name string) time.Time {
	if m := rangePattern.FindStringSubmatch(name); m != nil {
		if t, err := time.Parse("20060102", m[2]); err == nil {
			return t
		}
	}
	if m := thaiRangePattern.FindStringSubmatch(name); m != nil {
		if t, err := time.Parse("02_01_2006", m[4]+"_"+m[5]+"_"+m[6]); err == nil {
			return t
		}
	}
	if m := isoDatePattern.FindStringSubmatch(name); m != nil {
		if t, err := time.Parse("2006-01-02", m[0]); err == nil {
			return t
		}
	}
	return time.Time{}
}

// dateFromRangeHeader parses TikTok's report-period banner, e.g.
// "ช่วงวันที่: 2026-01-01 ~ 2026-01-31", returning the period end.
func dateFromRangeHeader(value string) time.Time {
	if m := tildeRange.FindStringSubmatch(value); m != nil {
		if t, err := time.Parse("2006-01-02", m[2]); err == nil {
			return t
		}
	}
	return time.Time{}
}
