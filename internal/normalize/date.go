package normalize

import (
	"fmt"
	"regexp"
	"strings"
)

var dayMonthYearRe = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})`)

// BaseDate rewrites the DATA_BASE shapes seen across ESTBAN vintages to the
// canonical first-of-month form "YYYY-MM-01":
//
//	"202301"     -> "2023-01-01"
//	"20230131"   -> "2023-01-01"
//	"2023-01"    -> "2023-01-01"
//	"31/01/2023" -> "2023-01-01"
//
// Values in no known shape pass through unchanged so an unexpected vintage
// stays visible in the output instead of being silently blanked.
func BaseDate(raw string) string {
	s := strings.ReplaceAll(strings.TrimSpace(raw), "#", "")

	if isDigits(s) {
		switch len(s) {
		case 6: // YYYYMM
			return s[:4] + "-" + s[4:6] + "-01"
		case 8: // YYYYMMDD
			return s[:4] + "-" + s[4:6] + "-01"
		}
	}
	if len(s) == 7 && s[4] == '-' && isDigits(s[:4]) && isDigits(s[5:]) {
		return s + "-01"
	}
	if m := dayMonthYearRe.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("%s-%s-01", m[3], m[2])
	}
	return s
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
