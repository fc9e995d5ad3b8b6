package valuation

import (
	"strconv"
	"strings"
)

// SNFFromCLR estimates SNF% from a lactometer reading and fat%, rounded to one
// decimal. It reports false when either input is not a finite number.
func SNFFromCLR(clr, fat float64) (float64, bool) {
	if !isFinite(clr) || !isFinite(fat) {
		return 0, false
	}
	snf := float64(clr/4) + float64(0.20*fat) + 0.14
	return roundFixed(snf, 1), true
}

// SNFFromCLRText is SNFFromCLR for raw form input. Empty or non-numeric text
// yields no result.
func SNFFromCLRText(clr, fat string) (float64, bool) {
	c, ok := parseNumber(clr)
	if !ok {
		return 0, false
	}
	f, ok := parseNumber(fat)
	if !ok {
		return 0, false
	}
	return SNFFromCLR(c, f)
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !isFinite(v) {
		return 0, false
	}
	return v, true
}
