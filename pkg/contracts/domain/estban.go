package domain

import "math"

// StrategicRecord is one consolidated ESTBAN observation: a single
// institution in a single municipality at one base date. All fields are
// value types so exact-duplicate detection can use the record as a map key.
type StrategicRecord struct {
	DataBase        string `json:"data_base"`
	UF              string `json:"uf"`
	CodMun          string `json:"codmun"`
	Municipio       string `json:"municipio"`
	CNPJ            string `json:"cnpj"`
	NomeInstituicao string `json:"nome_instituicao"`

	OpCreditoTotal     float64 `json:"op_credito_total"`
	EmprestimosTitulos float64 `json:"emprestimos_titulos"`
	Financiamentos     float64 `json:"financiamentos"`
	FinRuraisAgricola  float64 `json:"fin_rurais_agricola"`
	FinAgroindustriais float64 `json:"fin_agroindustriais"`
	FinImobiliarios    float64 `json:"fin_imobiliarios"`
	OutrasOpCredito    float64 `json:"outras_op_credito"`
	ProvisaoCredito    float64 `json:"provisao_credito"`
	AtivoTotal         float64 `json:"ativo_total"`
	DepVistaTotal      float64 `json:"dep_vista_total"`
	DepPoupanca        float64 `json:"dep_poupanca"`
	DepPrazo           float64 `json:"dep_prazo"`
	PatrimonioLiquido  float64 `json:"patrimonio_liquido"`

	IdxProvisaoCredito KPI `json:"idx_provisao_credito"`
	PenetracaoRural    KPI `json:"penetracao_rural"`
	MixPoupanca        KPI `json:"mix_poupanca"`
}

// KPI is a derived ratio that is absent rather than infinite or NaN when
// its denominator is zero.
type KPI struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// NewKPI returns a valid KPI rounded to two decimal places.
func NewKPI(v float64) KPI {
	return KPI{Value: math.Round(v*100) / 100, Valid: true}
}

// StrategicColumns is the published column order of the consolidated CSV.
var StrategicColumns = []string{
	"DATA_BASE",
	"UF",
	"CODMUN",
	"MUNICIPIO",
	"CNPJ",
	"NOME_INSTITUICAO",
	"OP_CREDITO_TOTAL",
	"EMPRESTIMOS_TITULOS",
	"FINANCIAMENTOS",
	"FIN_RURAIS_AGRICOLA",
	"FIN_AGROINDUSTRIAIS",
	"FIN_IMOBILIARIOS",
	"OUTRAS_OP_CREDITO",
	"PROVISAO_CREDITO",
	"ATIVO_TOTAL",
	"DEP_VISTA_TOTAL",
	"DEP_POUPANCA",
	"DEP_PRAZO",
	"PATRIMONIO_LIQUIDO",
	"IDX_PROVISAO_CREDITO",
	"PENETRACAO_RURAL",
	"MIX_POUPANCA",
}

// PeriodTable holds the canonical records produced from one period's extract.
type PeriodTable struct {
	Period  Period            `json:"period"`
	Records []StrategicRecord `json:"records"`
}

// StrategicDataset is the consolidated multi-period dataset.
type StrategicDataset struct {
	Records []StrategicRecord `json:"records"`
	Summary DatasetSummary    `json:"summary"`
}

// DatasetSummary aggregates headline figures for logging and the dataset
// documentation.
type DatasetSummary struct {
	Records       int    `json:"records"`
	UFs           int    `json:"ufs"`
	Municipios    int    `json:"municipios"`
	Instituicoes  int    `json:"instituicoes"`
	FirstDataBase string `json:"first_data_base"`
	LastDataBase  string `json:"last_data_base"`
	Duplicates    int    `json:"duplicates"`
}
