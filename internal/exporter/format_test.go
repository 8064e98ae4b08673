package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bcbdata/pkg/contracts/domain"
)

func TestFormatKPI(t *testing.T) {
	assert.Equal(t, "4.05", formatKPI(domain.KPI{Value: 4.05, Valid: true}))
	assert.Equal(t, "13.40", formatKPI(domain.KPI{Value: 13.4, Valid: true}), "two decimals always")
	assert.Equal(t, "", formatKPI(domain.KPI{}), "invalid KPI is an empty cell")
}

func TestStrategicRows(t *testing.T) {
	records := []domain.StrategicRecord{
		{
			DataBase:        "2023-01-01",
			UF:              "MG",
			CodMun:          "3106200",
			Municipio:       "BELO HORIZONTE",
			CNPJ:            "00001234",
			NomeInstituicao: "Banco Alfa",

			OpCreditoTotal:  1234.5,
			ProvisaoCredito: -50,

			IdxProvisaoCredito: domain.KPI{Value: 4.05, Valid: true},
			PenetracaoRural:    domain.KPI{Value: 0, Valid: true},
			MixPoupanca:        domain.KPI{},
		},
	}

	rows := StrategicRows(records)
	require.Len(t, rows, 1)
	row := rows[0]
	require.Len(t, row, len(domain.StrategicColumns), "one cell per published column")

	assert.Equal(t, "2023-01-01", row[0])
	assert.Equal(t, "MG", row[1])
	assert.Equal(t, "00001234", row[4])
	assert.Equal(t, "1234.50", row[6], "floats use dot decimals with two places")
	assert.Equal(t, "-50.00", row[13], "provision keeps its sign")
	assert.Equal(t, "0.00", row[14], "missing indicators surface as zero")
	assert.Equal(t, "4.05", row[19])
	assert.Equal(t, "0.00", row[20])
	assert.Equal(t, "", row[21], "invalid KPI leaves the cell empty")
}

func TestMembershipRows(t *testing.T) {
	records := []domain.MembershipRecord{
		{
			CNPJ:             "00012345",
			Total:            1500,
			PessoaFisica:     1400,
			PessoaJuridica:   100,
			SexoFeminino:     700,
			SexoMasculino:    750,
			SexoNaoInformado: 50,
			Periodo:          "2024-03-01",
		},
	}

	rows := MembershipRows(records)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{
		"00012345", "1500", "1400", "100", "700", "750", "50", "2024-03-01",
	}, rows[0])
	require.Len(t, rows[0], len(domain.MembershipColumns))
}
