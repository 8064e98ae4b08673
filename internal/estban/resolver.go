package estban

import (
	"regexp"
	"strconv"
	"strings"
)

// verbetePattern extracts the 3-digit code from indicator headers such as
// "VERBETE_160_OPERACOES_DE_CREDITO" or "verbete 399".
var verbetePattern = regexp.MustCompile(`(?i)VERBETE[_\s]*(\d{3})`)

// idCandidates lists, per canonical identification field, the raw header
// names seen across vintages in priority order. Matching happens on the
// upper-cased, trimmed, "#"-stripped header.
var idCandidates = []struct {
	field      string
	candidates []string
}{
	{"DATA_BASE", []string{"DATA_BASE", "DTBASE", "DT_BASE", "DATA BASE"}},
	{"UF", []string{"UF", "ESTADO", "SIGLA_UF"}},
	{"CODMUN", []string{"CODMUN_IBGE", "CODMUN", "COD_MUN", "CODIGO_MUNICIPIO", "CODMUN_BCB", "COD_MUN_BCB", "CODMUNIC"}},
	{"MUNICIPIO", []string{"MUNICIPIO", "NOME_MUNICIPIO", "NM_MUNICIPIO", "MUNICÍPIO"}},
	{"CNPJ", []string{"CNPJ", "CNPJ_IF", "CNPJ_INSTITUICAO"}},
	{"NOME_INSTITUICAO", []string{"NOME_INSTITUICAO", "INSTITUICAO", "NOME_IF", "NM_INSTITUICAO", "NOME INSTITUICAO"}},
}

// ColumnMapping is the resolved bridge between one vintage's raw header and
// the canonical schema. Values are indices into the raw header slice.
type ColumnMapping struct {
	ID         map[string]int
	Indicators map[int]int

	// Duplicates lists verbete codes that appeared under more than one raw
	// header. The first occurrence in header order won.
	Duplicates []int
}

// ResolveColumns matches one vintage's raw headers against the canonical
// schema: identification fields by candidate list, indicator columns by the
// verbete pattern. Codes outside both registries are ignored.
func ResolveColumns(headers []string) ColumnMapping {
	m := ColumnMapping{
		ID:         make(map[string]int),
		Indicators: make(map[int]int),
	}

	// First occurrence wins when two headers normalize to the same key.
	normalized := make(map[string]int, len(headers))
	for i, h := range headers {
		key := headerKey(h)
		if _, seen := normalized[key]; !seen {
			normalized[key] = i
		}
	}

	for _, id := range idCandidates {
		for _, cand := range id.candidates {
			if idx, ok := normalized[cand]; ok {
				m.ID[id.field] = idx
				break
			}
		}
	}

	// DATA_BASE drifts more than the candidate list covers; accept any
	// header carrying both tokens.
	if _, ok := m.ID["DATA_BASE"]; !ok {
		for i, h := range headers {
			u := strings.ToUpper(h)
			if strings.Contains(u, "DATA") && strings.Contains(u, "BASE") {
				m.ID["DATA_BASE"] = i
				break
			}
		}
	}

	for i, h := range headers {
		match := verbetePattern.FindStringSubmatch(h)
		if match == nil {
			continue
		}
		code, err := strconv.Atoi(match[1])
		if err != nil || !knownVerbete(code) {
			continue
		}
		if _, seen := m.Indicators[code]; seen {
			m.Duplicates = append(m.Duplicates, code)
			continue
		}
		m.Indicators[code] = i
	}

	return m
}

func headerKey(h string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(h)), "#", "")
}
