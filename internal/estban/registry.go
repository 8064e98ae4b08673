// Package estban reduces raw ESTBAN municipal extracts to the strategic
// indicator schema: column resolution across vintages, indicator
// consolidation, KPI derivation and multi-period consolidation.
package estban

import "bcbdata/pkg/contracts/domain"

// Strategic verbete codes kept from the full ESTBAN balance, each mapped to
// the canonical indicator column it feeds. Every other code is discarded.
var individualVerbetes = map[int]string{
	160: "OP_CREDITO_TOTAL",
	161: "EMPRESTIMOS_TITULOS",
	162: "FINANCIAMENTOS",
	163: "FIN_RURAIS_AGRICOLA",
	167: "FIN_AGROINDUSTRIAIS",
	169: "FIN_IMOBILIARIOS",
	171: "OUTRAS_OP_CREDITO",
	174: "PROVISAO_CREDITO",
	399: "ATIVO_TOTAL",
	420: "DEP_POUPANCA",
	432: "DEP_PRAZO",
	610: "PATRIMONIO_LIQUIDO",
}

// Demand deposit verbetes are not kept individually; the whole range sums
// into DEP_VISTA_TOTAL.
const (
	depVistaFirst = 401
	depVistaLast  = 419
)

func isDepVista(code int) bool {
	return code >= depVistaFirst && code <= depVistaLast
}

// knownVerbete reports whether code belongs to either registry.
func knownVerbete(code int) bool {
	if _, ok := individualVerbetes[code]; ok {
		return true
	}
	return isDepVista(code)
}

// setIndicator writes v into the canonical indicator field named by the
// individual registry.
func setIndicator(rec *domain.StrategicRecord, name string, v float64) {
	switch name {
	case "OP_CREDITO_TOTAL":
		rec.OpCreditoTotal = v
	case "EMPRESTIMOS_TITULOS":
		rec.EmprestimosTitulos = v
	case "FINANCIAMENTOS":
		rec.Financiamentos = v
	case "FIN_RURAIS_AGRICOLA":
		rec.FinRuraisAgricola = v
	case "FIN_AGROINDUSTRIAIS":
		rec.FinAgroindustriais = v
	case "FIN_IMOBILIARIOS":
		rec.FinImobiliarios = v
	case "OUTRAS_OP_CREDITO":
		rec.OutrasOpCredito = v
	case "PROVISAO_CREDITO":
		rec.ProvisaoCredito = v
	case "ATIVO_TOTAL":
		rec.AtivoTotal = v
	case "DEP_POUPANCA":
		rec.DepPoupanca = v
	case "DEP_PRAZO":
		rec.DepPrazo = v
	case "PATRIMONIO_LIQUIDO":
		rec.PatrimonioLiquido = v
	}
}
