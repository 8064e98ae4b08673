package estban

import (
	"sort"

	"bcbdata/pkg/contracts/domain"
)

// Consolidate merges per-period tables into the published dataset: records
// concatenate in period order, sort stably by (DATA_BASE, UF, MUNICIPIO,
// NOME_INSTITUICAO) and exact duplicates collapse to their first occurrence.
func Consolidate(tables []*domain.PeriodTable) *domain.StrategicDataset {
	total := 0
	for _, t := range tables {
		total += len(t.Records)
	}

	records := make([]domain.StrategicRecord, 0, total)
	for _, t := range tables {
		records = append(records, t.Records...)
	}

	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.DataBase != b.DataBase {
			return a.DataBase < b.DataBase
		}
		if a.UF != b.UF {
			return a.UF < b.UF
		}
		if a.Municipio != b.Municipio {
			return a.Municipio < b.Municipio
		}
		return a.NomeInstituicao < b.NomeInstituicao
	})

	seen := make(map[domain.StrategicRecord]struct{}, len(records))
	unique := records[:0]
	for _, rec := range records {
		if _, dup := seen[rec]; dup {
			continue
		}
		seen[rec] = struct{}{}
		unique = append(unique, rec)
	}

	return &domain.StrategicDataset{
		Records: unique,
		Summary: summarize(unique, total-len(unique)),
	}
}

func summarize(records []domain.StrategicRecord, duplicates int) domain.DatasetSummary {
	ufs := make(map[string]struct{})
	municipios := make(map[string]struct{})
	instituicoes := make(map[string]struct{})

	s := domain.DatasetSummary{Records: len(records), Duplicates: duplicates}
	for _, rec := range records {
		ufs[rec.UF] = struct{}{}
		municipios[rec.CodMun] = struct{}{}
		instituicoes[rec.CNPJ] = struct{}{}
		if s.FirstDataBase == "" || rec.DataBase < s.FirstDataBase {
			s.FirstDataBase = rec.DataBase
		}
		if rec.DataBase > s.LastDataBase {
			s.LastDataBase = rec.DataBase
		}
	}
	s.UFs = len(ufs)
	s.Municipios = len(municipios)
	s.Instituicoes = len(instituicoes)
	return s
}
