package domain

// RawTable is one decoded extract before any column resolution or
// normalization: header names in source order and row-major cells.
// Vintages disagree on header naming, column order and metadata rows,
// so nothing beyond text decoding is assumed at this stage.
type RawTable struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Lookup returns the index of the first header exactly equal to name,
// or -1 when the header is absent.
func (t *RawTable) Lookup(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Cell returns the cell at (row, col), or "" when out of range.
func (t *RawTable) Cell(row, col int) string {
	if t == nil || row < 0 || row >= len(t.Rows) || col < 0 {
		return ""
	}
	r := t.Rows[row]
	if col >= len(r) {
		return ""
	}
	return r[col]
}

// IsEmpty reports whether the table has no data rows.
func (t *RawTable) IsEmpty() bool {
	return t == nil || len(t.Rows) == 0
}
