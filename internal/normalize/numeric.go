// Package normalize holds the conversion primitives shared by the BCB
// pipelines. Every function is total: malformed input produces a defined
// fallback value instead of an error, so one bad cell never aborts a period.
package normalize

import (
	"strconv"
	"strings"
)

// Number converts BCB decimal notation to a float64. "." is a thousands
// separator and "," the decimal mark, so "1.234,50" is 1234.5. Any rune
// outside [0-9.-] is discarded before parsing. Unparseable input is 0.
func Number(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	s = keepNumericRunes(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// Integer converts a counter cell to int64. Plain integers parse directly,
// decimal values truncate, anything else is 0.
func Integer(raw string) int64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(v)
	}
	return 0
}

func keepNumericRunes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
