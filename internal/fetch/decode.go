package fetch

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	apierrors "bcbdata/internal/errors"
	"bcbdata/pkg/contracts/domain"
)

const defaultMaxScan = 10

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// fallbackEncodings are tried in order when a payload is not valid UTF-8.
// ISO 8859-1 maps every byte, so the chain always terminates.
var fallbackEncodings = []*charmap.Charmap{
	charmap.ISO8859_1,
	charmap.Windows1252,
}

// TableOptions locates the real header inside an extract that carries
// leading metadata lines.
type TableOptions struct {
	// SkipLines drops a fixed count of leading lines before the header.
	SkipLines int

	// HeaderMarkers, when set, override SkipLines: the first of the
	// leading MaxScan lines containing any marker (case-insensitive)
	// becomes the header. No match falls back to the first line.
	HeaderMarkers []string

	// MaxScan bounds the marker scan. Zero means 10.
	MaxScan int
}

// DecodeTable turns extracted payload bytes into a RawTable. CSV payloads
// are decoded to UTF-8 first; both formats share the header-location
// rules and row shaping.
func DecodeTable(data []byte, kind TableKind, opts TableOptions) (*domain.RawTable, error) {
	if kind == TableXLSX {
		return decodeXLSX(data, opts)
	}
	return decodeCSV(data, opts)
}

func decodeCSV(data []byte, opts TableOptions) (*domain.RawTable, error) {
	lines := splitLines(decodeText(data))
	start := headerLine(lines, opts)
	if start >= len(lines) {
		return nil, apierrors.ErrEmptyTable
	}

	r := csv.NewReader(strings.NewReader(strings.Join(lines[start:], "\n")))
	r.Comma = ';'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return tableFromRecords(records)
}

func decodeXLSX(data []byte, opts TableOptions) (*domain.RawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apierrors.ErrEmptyTable
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	start := headerRow(rows, opts)
	if start >= len(rows) {
		return nil, apierrors.ErrEmptyTable
	}
	return tableFromRecords(rows[start:])
}

// tableFromRecords shapes parsed records into a RawTable, padding or
// truncating every row to the header width so duplicate detection
// downstream always compares full rows.
func tableFromRecords(records [][]string) (*domain.RawTable, error) {
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, apierrors.ErrEmptyTable
	}
	headers := records[0]
	rows := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make([]string, len(headers))
		copy(row, rec)
		rows = append(rows, row)
	}
	return &domain.RawTable{Headers: headers, Rows: rows}, nil
}

// decodeText converts a payload to UTF-8 text. Extracts arrive either as
// UTF-8 (sometimes with a BOM) or in a legacy Latin encoding.
func decodeText(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data)
	}
	for _, enc := range fallbackEncodings {
		if decoded, err := enc.NewDecoder().Bytes(data); err == nil {
			return string(decoded)
		}
	}
	// Unreachable: ISO 8859-1 accepts any byte sequence.
	return string(data)
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func headerLine(lines []string, opts TableOptions) int {
	if len(opts.HeaderMarkers) == 0 {
		return opts.SkipLines
	}
	markers := make([]string, len(opts.HeaderMarkers))
	for i, m := range opts.HeaderMarkers {
		markers[i] = strings.ToUpper(m)
	}
	maxScan := opts.MaxScan
	if maxScan <= 0 {
		maxScan = defaultMaxScan
	}
	if maxScan > len(lines) {
		maxScan = len(lines)
	}
	for i := 0; i < maxScan; i++ {
		upper := strings.ToUpper(lines[i])
		for _, marker := range markers {
			if strings.Contains(upper, marker) {
				return i
			}
		}
	}
	return 0
}

func headerRow(rows [][]string, opts TableOptions) int {
	if len(opts.HeaderMarkers) == 0 {
		return opts.SkipLines
	}
	maxScan := opts.MaxScan
	if maxScan <= 0 {
		maxScan = defaultMaxScan
	}
	if maxScan > len(rows) {
		maxScan = len(rows)
	}
	lines := make([]string, maxScan)
	for i := 0; i < maxScan; i++ {
		lines[i] = strings.Join(rows[i], ";")
	}
	return headerLine(lines, opts)
}
