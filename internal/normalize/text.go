package normalize

import "strings"

// EntityIDWidth is the length of a CNPJ root, the institution identifier
// used by both BCB publications.
const EntityIDWidth = 8

// EntityID reduces an institution identifier to its digits, left-pads with
// zeros to width and truncates to width. Extracts carry the CNPJ root with
// or without punctuation, and spreadsheet round-trips drop leading zeros.
func EntityID(raw string, width int) string {
	var b strings.Builder
	b.Grow(width)
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if len(s) < width {
		s = strings.Repeat("0", width-len(s)) + s
	}
	return s[:width]
}

// UpperClean trims and uppercases. Locality names arrive in mixed case
// across vintages.
func UpperClean(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
