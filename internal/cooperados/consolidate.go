package cooperados

import (
	"bcbdata/pkg/contracts/domain"
)

// Consolidate concatenates per-period tables, already in chronological
// order, into the published dataset. Unlike the strategic dataset there is
// no cross-period dedup: each cooperative appears once per reference month
// by construction.
func Consolidate(tables []*domain.MembershipTable) *domain.MembershipDataset {
	total := 0
	for _, t := range tables {
		total += len(t.Records)
	}

	records := make([]domain.MembershipRecord, 0, total)
	for _, t := range tables {
		records = append(records, t.Records...)
	}

	return &domain.MembershipDataset{
		Records: records,
		Summary: summarize(records),
	}
}

func summarize(records []domain.MembershipRecord) domain.MembershipSummary {
	cooperativas := make(map[string]struct{})

	s := domain.MembershipSummary{Records: len(records)}
	for _, rec := range records {
		cooperativas[rec.CNPJ] = struct{}{}
		if s.FirstPeriodo == "" || rec.Periodo < s.FirstPeriodo {
			s.FirstPeriodo = rec.Periodo
		}
		if rec.Periodo > s.LastPeriodo {
			s.LastPeriodo = rec.Periodo
		}
	}
	s.Cooperativas = len(cooperativas)
	return s
}
