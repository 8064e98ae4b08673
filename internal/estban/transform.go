package estban

import (
	"log/slog"
	"math"
	"strings"

	pipeerrors "bcbdata/internal/errors"
	"bcbdata/internal/normalize"
	"bcbdata/pkg/contracts/domain"
)

// Transform reduces one raw extract to canonical strategic records. Cell
// level problems never fail the period: numeric cells fall back to zero and
// date cells pass through. Only an extract with no usable rows or no
// recognizable indicator columns is rejected.
func Transform(period domain.Period, table *domain.RawTable) (*domain.PeriodTable, error) {
	table = pruneEmpty(table)
	if table.IsEmpty() {
		return nil, pipeerrors.Schema(period, "transform", pipeerrors.ErrEmptyTable)
	}

	mapping := ResolveColumns(table.Headers)
	if len(mapping.Indicators) == 0 {
		return nil, pipeerrors.Schema(period, "transform", pipeerrors.ErrNoIndicatorColumns)
	}
	for _, code := range mapping.Duplicates {
		slog.Warn("duplicate verbete header ignored",
			slog.Int("verbete", code),
			slog.String("period", period.String()))
	}

	records := make([]domain.StrategicRecord, 0, len(table.Rows))
	for r := range table.Rows {
		records = append(records, buildRecord(period, table, mapping, r))
	}

	return &domain.PeriodTable{Period: period, Records: records}, nil
}

func buildRecord(period domain.Period, t *domain.RawTable, m ColumnMapping, row int) domain.StrategicRecord {
	cell := func(field string) string {
		idx, ok := m.ID[field]
		if !ok {
			return ""
		}
		return strings.TrimSpace(t.Cell(row, idx))
	}

	rec := domain.StrategicRecord{
		UF:              cell("UF"),
		CodMun:          cell("CODMUN"),
		Municipio:       normalize.UpperClean(cell("MUNICIPIO")),
		NomeInstituicao: cell("NOME_INSTITUICAO"),
	}

	// The base date column went missing in some vintages; the period the
	// file was published under is the authoritative fallback.
	if _, ok := m.ID["DATA_BASE"]; ok {
		rec.DataBase = normalize.BaseDate(cell("DATA_BASE"))
	} else {
		rec.DataBase = period.CanonicalDate()
	}

	if _, ok := m.ID["CNPJ"]; ok {
		rec.CNPJ = normalize.EntityID(cell("CNPJ"), normalize.EntityIDWidth)
	}

	for code, name := range individualVerbetes {
		if idx, ok := m.Indicators[code]; ok {
			setIndicator(&rec, name, normalize.Number(t.Cell(row, idx)))
		}
	}

	// Ascending code order keeps the float sum deterministic across runs.
	for code := depVistaFirst; code <= depVistaLast; code++ {
		if idx, ok := m.Indicators[code]; ok {
			rec.DepVistaTotal += normalize.Number(t.Cell(row, idx))
		}
	}

	// Provision balances are negative under COSIF; the index uses the
	// absolute value.
	rec.IdxProvisaoCredito = ratioKPI(math.Abs(rec.ProvisaoCredito), rec.OpCreditoTotal)
	rec.PenetracaoRural = ratioKPI(rec.FinRuraisAgricola, rec.OpCreditoTotal)
	rec.MixPoupanca = ratioKPI(rec.DepPoupanca, rec.DepVistaTotal+rec.DepPoupanca+rec.DepPrazo)

	return rec
}

// ratioKPI returns num/den as a percentage rounded to two decimals, absent
// when the denominator is zero.
func ratioKPI(num, den float64) domain.KPI {
	if den == 0 {
		return domain.KPI{}
	}
	return domain.NewKPI(num / den * 100)
}

// pruneEmpty drops columns and rows whose cells are all empty, the usual
// blank padding in spreadsheet-exported vintages.
func pruneEmpty(t *domain.RawTable) *domain.RawTable {
	if t.IsEmpty() {
		return t
	}

	keepCol := make([]bool, len(t.Headers))
	for _, row := range t.Rows {
		for c := range keepCol {
			if !keepCol[c] && c < len(row) && strings.TrimSpace(row[c]) != "" {
				keepCol[c] = true
			}
		}
	}

	var headers []string
	var colIdx []int
	for c, keep := range keepCol {
		if keep {
			headers = append(headers, t.Headers[c])
			colIdx = append(colIdx, c)
		}
	}
	if len(headers) == 0 {
		return &domain.RawTable{}
	}

	rows := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		empty := true
		cells := make([]string, len(colIdx))
		for i, c := range colIdx {
			if c < len(row) {
				cells[i] = row[c]
				if strings.TrimSpace(row[c]) != "" {
					empty = false
				}
			}
		}
		if !empty {
			rows = append(rows, cells)
		}
	}

	return &domain.RawTable{Headers: headers, Rows: rows}
}
