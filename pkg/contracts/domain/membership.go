package domain

// MembershipRecord is one cooperative's membership counts at one reference
// period, from the BCB "cooperados por cooperativa" publication.
type MembershipRecord struct {
	CNPJ             string `json:"cnpj"`
	Total            int64  `json:"total"`
	PessoaFisica     int64  `json:"pessoa_fisica"`
	PessoaJuridica   int64  `json:"pessoa_juridica"`
	SexoFeminino     int64  `json:"sexo_feminino"`
	SexoMasculino    int64  `json:"sexo_masculino"`
	SexoNaoInformado int64  `json:"sexo_nao_informado"`
	Periodo          string `json:"periodo"`
}

// MembershipColumns is the published column order of the consolidated CSV.
// The names match the BCB source headers, with Periodo appended.
var MembershipColumns = []string{
	"CNPJ",
	"Total de Cooperados",
	"Cooperados PF",
	"Cooperados PJ",
	"Sexo Feminino",
	"Sexo Masculino",
	"Sexo nao Informado",
	"Periodo",
}

// MembershipTable holds the records produced from one period's extract.
type MembershipTable struct {
	Period  Period             `json:"period"`
	Records []MembershipRecord `json:"records"`
}

// MembershipDataset is the consolidated multi-period dataset.
type MembershipDataset struct {
	Records []MembershipRecord `json:"records"`
	Summary MembershipSummary  `json:"summary"`
}

// MembershipSummary aggregates headline figures for logging and the dataset
// documentation.
type MembershipSummary struct {
	Records      int    `json:"records"`
	Cooperativas int    `json:"cooperativas"`
	FirstPeriodo string `json:"first_periodo"`
	LastPeriodo  string `json:"last_periodo"`
}
