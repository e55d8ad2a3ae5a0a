package util

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var reDigits = regexp.MustCompile(`^\d+$`)

// ParseVotes reads a vote cell. Thousands separators, quotes and spaces are
// stripped. Blank cells are 0 and ok; anything unreadable or negative is 0
// and not ok so the caller can count a parse warning.
func ParseVotes(cell string) (int, bool) {
	compact := strings.NewReplacer(",", "", "\"", "", " ", "", "\u00a0", "").Replace(cell)
	if compact == "" || compact == "-" {
		return 0, true
	}
	if n, err := strconv.Atoi(compact); err == nil {
		if n < 0 {
			return 0, false
		}
		return n, true
	}
	f, err := strconv.ParseFloat(compact, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	if f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// NormalizeDistrict turns "1.0", " 01 " and "1" into "1". Other text is
// trimmed and kept.
func NormalizeDistrict(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") {
		return ""
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) && f >= 0 {
		return strconv.Itoa(int(f))
	}
	return s
}

func IsDigits(s string) bool {
	return reDigits.MatchString(strings.TrimSpace(s))
}

func RoundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
