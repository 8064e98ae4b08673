package cooperados

import (
	"strings"

	pipeerrors "bcbdata/internal/errors"
	"bcbdata/internal/normalize"
	"bcbdata/pkg/contracts/domain"
)

// counterColumns are the published membership counters, under the exact
// header names the BCB uses. A vintage missing one of them reports zero.
var counterColumns = []string{
	"Total de Cooperados",
	"Cooperados PF",
	"Cooperados PJ",
	"Sexo Feminino",
	"Sexo Masculino",
	"Sexo nao Informado",
}

// Transform reduces one raw extract to canonical membership records. The
// BCB source sheet carries a footer crediting the source; it is dropped
// before conversion. Cell level problems never fail the period: counters
// fall back to zero.
func Transform(period domain.Period, table *domain.RawTable) (*domain.MembershipTable, error) {
	rows := dropFooter(table)
	if len(rows) == 0 {
		return nil, pipeerrors.Schema(period, "transform", pipeerrors.ErrEmptyTable)
	}

	cnpjCol := cnpjColumn(table.Headers)
	counters := make(map[string]int, len(counterColumns))
	for idx, header := range table.Headers {
		name := strings.TrimSpace(header)
		for _, counter := range counterColumns {
			if name == counter {
				counters[counter] = idx
				break
			}
		}
	}

	records := make([]domain.MembershipRecord, 0, len(rows))
	for _, row := range rows {
		cell := func(idx int) string {
			if idx < 0 || idx >= len(row) {
				return ""
			}
			return row[idx]
		}
		count := func(name string) int64 {
			idx, ok := counters[name]
			if !ok {
				return 0
			}
			return normalize.Integer(cell(idx))
		}

		rec := domain.MembershipRecord{
			Total:            count("Total de Cooperados"),
			PessoaFisica:     count("Cooperados PF"),
			PessoaJuridica:   count("Cooperados PJ"),
			SexoFeminino:     count("Sexo Feminino"),
			SexoMasculino:    count("Sexo Masculino"),
			SexoNaoInformado: count("Sexo nao Informado"),
			Periodo:          period.CanonicalDate(),
		}
		if cnpjCol >= 0 {
			rec.CNPJ = normalize.EntityID(cell(cnpjCol), normalize.EntityIDWidth)
		}
		records = append(records, rec)
	}

	return &domain.MembershipTable{Period: period, Records: records}, nil
}

// dropFooter removes the trailing attribution row ("Fonte: Banco Central
// do Brasil" in current vintages) when present.
func dropFooter(t *domain.RawTable) [][]string {
	rows := t.Rows
	if len(rows) == 0 {
		return rows
	}
	last := rows[len(rows)-1]
	if len(last) == 0 {
		return rows[:len(rows)-1]
	}
	first := strings.ToLower(strings.TrimSpace(last[0]))
	if strings.Contains(first, "fonte") || strings.Contains(first, "banco central") {
		return rows[:len(rows)-1]
	}
	return rows
}

// cnpjColumn finds the identifier column: the first header containing
// "cnpj" in any casing. Returns -1 when no vintage header matches.
func cnpjColumn(headers []string) int {
	for idx, header := range headers {
		if strings.Contains(strings.ToLower(strings.TrimSpace(header)), "cnpj") {
			return idx
		}
	}
	return -1
}
