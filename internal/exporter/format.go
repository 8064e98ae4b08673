package exporter

import (
	"fmt"

	"bcbdata/pkg/contracts/domain"
)

// formatFloat formats a float64 value for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	// Always format with exactly 2 decimal places for consistency
	// This ensures values like 13.4 appear as 13.40 in CSV
	return fmt.Sprintf("%.2f", f)
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return fmt.Sprintf("%d", i)
}

// formatKPI formats a derived ratio. An invalid KPI (zero denominator)
// becomes an empty cell, never Inf or NaN.
func formatKPI(k domain.KPI) string {
	if !k.Valid {
		return ""
	}
	return formatFloat(k.Value)
}

// StrategicRows renders consolidated ESTBAN records in the published
// column order (domain.StrategicColumns).
func StrategicRows(records []domain.StrategicRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.DataBase,
			r.UF,
			r.CodMun,
			r.Municipio,
			r.CNPJ,
			r.NomeInstituicao,
			formatFloat(r.OpCreditoTotal),
			formatFloat(r.EmprestimosTitulos),
			formatFloat(r.Financiamentos),
			formatFloat(r.FinRuraisAgricola),
			formatFloat(r.FinAgroindustriais),
			formatFloat(r.FinImobiliarios),
			formatFloat(r.OutrasOpCredito),
			formatFloat(r.ProvisaoCredito),
			formatFloat(r.AtivoTotal),
			formatFloat(r.DepVistaTotal),
			formatFloat(r.DepPoupanca),
			formatFloat(r.DepPrazo),
			formatFloat(r.PatrimonioLiquido),
			formatKPI(r.IdxProvisaoCredito),
			formatKPI(r.PenetracaoRural),
			formatKPI(r.MixPoupanca),
		})
	}
	return rows
}

// MembershipRows renders membership records in the published column order
// (domain.MembershipColumns).
func MembershipRows(records []domain.MembershipRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.CNPJ,
			formatInt(r.Total),
			formatInt(r.PessoaFisica),
			formatInt(r.PessoaJuridica),
			formatInt(r.SexoFeminino),
			formatInt(r.SexoMasculino),
			formatInt(r.SexoNaoInformado),
			r.Periodo,
		})
	}
	return rows
}
