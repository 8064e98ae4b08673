package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Period identifies one monthly reference period of a BCB publication.
type Period struct {
	Year  int `json:"year" validate:"required,min=1900"`
	Month int `json:"month" validate:"required,min=1,max=12"`
}

// ParsePeriod parses the flag format "YYYY-MM".
func ParsePeriod(s string) (Period, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return Period{}, fmt.Errorf("invalid period %q: expected YYYY-MM", s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Period{}, fmt.Errorf("invalid period %q: %w", s, err)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return Period{}, fmt.Errorf("invalid period %q: %w", s, err)
	}
	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("invalid period %q: month out of range", s)
	}
	return Period{Year: year, Month: month}, nil
}

// ParsePeriodKey parses the compact "YYYYMM" form used in BCB file names
// and the content index.
func ParsePeriodKey(s string) (Period, error) {
	s = strings.TrimSpace(s)
	if len(s) != 6 {
		return Period{}, fmt.Errorf("invalid period key %q: expected YYYYMM", s)
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil {
		return Period{}, fmt.Errorf("invalid period key %q: %w", s, err)
	}
	month, err := strconv.Atoi(s[4:])
	if err != nil {
		return Period{}, fmt.Errorf("invalid period key %q: %w", s, err)
	}
	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("invalid period key %q: month out of range", s)
	}
	return Period{Year: year, Month: month}, nil
}

// PeriodRange returns the inclusive month sequence from from to to.
// The result is empty when from is after to.
func PeriodRange(from, to Period) []Period {
	var periods []Period
	for p := from; !to.Before(p); p = p.Next() {
		periods = append(periods, p)
	}
	return periods
}

// Next returns the following month.
func (p Period) Next() Period {
	if p.Month >= 12 {
		return Period{Year: p.Year + 1, Month: 1}
	}
	return Period{Year: p.Year, Month: p.Month + 1}
}

// Before reports whether p is strictly earlier than other.
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

// Key returns the compact "YYYYMM" form used in BCB file names and URLs.
func (p Period) Key() string {
	return fmt.Sprintf("%04d%02d", p.Year, p.Month)
}

// Label returns the "MM/YYYY" form used in logs and the BCB content index.
func (p Period) Label() string {
	return fmt.Sprintf("%02d/%04d", p.Month, p.Year)
}

// CanonicalDate returns the first-of-month date "YYYY-MM-01".
func (p Period) CanonicalDate() string {
	return fmt.Sprintf("%04d-%02d-01", p.Year, p.Month)
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}
