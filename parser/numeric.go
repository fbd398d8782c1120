package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	numberRE   = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
	fractionRE = regexp.MustCompile(`^(\d+(?:\.\d+)?)/(\d+(?:\.\d+)?)$`)
	rangeRE    = regexp.MustCompile(`^(\d+(?:\.\d+)?)-(\d+(?:\.\d+)?)$`)
)

// parseNumber parses a plain decimal or a vulgar fraction ("1/2").
// Fractions go through decimal arithmetic so "1/4" is exactly 0.25.
func parseNumber(s string) (float64, bool) {
	if numberRE.MatchString(s) {
		v, err := strconv.ParseFloat(s, 64)
		return v, err == nil
	}
	if m := fractionRE.FindStringSubmatch(s); m != nil {
		num, err1 := decimal.NewFromString(m[1])
		den, err2 := decimal.NewFromString(m[2])
		if err1 != nil || err2 != nil || den.IsZero() {
			return 0, false
		}
		return num.Div(den).Round(6).InexactFloat64(), true
	}
	return 0, false
}

// parseRange parses "6-8" or "0.5-1".
func parseRange(s string) (lo, hi float64, ok bool) {
	m := rangeRE.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	lo, err1 := strconv.ParseFloat(m[1], 64)
	hi, err2 := strconv.ParseFloat(m[2], 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return lo, hi, true
}

// parseInt parses a non-negative integer token.
func parseInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}

// isWhole reports whether v has no fractional part.
func isWhole(v float64) bool {
	return v == float64(int64(v))
}

// hoursToMinutes converts an hour value to minutes, rounded to 3 decimal
// places, using decimal arithmetic to avoid binary-float drift.
func hoursToMinutes(v float64) float64 {
	return decimal.NewFromFloat(v).Mul(decimal.NewFromInt(60)).Round(3).InexactFloat64()
}

// normalizePeriod converts fractional or sub-1 hour periods to minutes.
// Any other unit passes through unchanged.
func normalizePeriod(value float64, unit string) (float64, string) {
	if unit == "h" && (value < 1 || !isWhole(value)) {
		return hoursToMinutes(value), "min"
	}
	return value, unit
}

// normalizePeriodRange converts an hour range to minutes when either bound
// is fractional or below 1; conversion then applies to both bounds.
func normalizePeriodRange(lo, hi float64, unit string) (float64, float64, string) {
	if unit == "h" && (lo < 1 || hi < 1 || !isWhole(lo) || !isWhole(hi)) {
		return hoursToMinutes(lo), hoursToMinutes(hi), "min"
	}
	return lo, hi, unit
}

// stripBraces removes probe brackets from a phrase, reporting whether the
// phrase was brace-wrapped.
func stripBraces(s string) (string, bool) {
	probe := strings.Contains(s, "{")
	s = strings.NewReplacer("{", "", "}", "").Replace(s)
	return strings.TrimSpace(s), probe
}
