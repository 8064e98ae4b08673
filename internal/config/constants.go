package config

import "time"

// Fixed values shared by both BCB pipelines.
const (
	AppName = "bcbdata"

	// Publication endpoints.
	EstbanBaseURL            = "https://www.bcb.gov.br/content/estatisticas/estatistica_bancaria_estban/municipio"
	MembershipBaseURL        = "https://www.bcb.gov.br"
	MembershipAPIURL         = MembershipBaseURL + "/api/servico/sitebcb/cooperadoscooperativa"
	MembershipPatternBaseURL = MembershipBaseURL + "/content/estabilidadefinanceira/divulgacaoCCO/cont2"
	MembershipRefererURL     = MembershipBaseURL + "/estabilidadefinanceira/cooperados_cooperativa"

	// Default collection windows. ESTBAN restarts at 2023-01 because older
	// vintages moved to the yearly archive; membership extracts begin at
	// 2020-01.
	DefaultEstbanFrom     = "2023-01"
	DefaultEstbanTo       = "2025-09"
	DefaultMembershipFrom = "2020-01"
	DefaultMembershipTo   = "2025-12"

	// MembershipPatternCutover is the first period published under the
	// upper-case zip file naming.
	MembershipPatternCutover = "2019-04"

	// Download behavior.
	DefaultHTTPTimeout  = 120 * time.Second
	DefaultRetries      = 3
	DefaultRetryDelay   = 3 * time.Second
	DefaultRequestPause = 500 * time.Millisecond

	// DefaultUserAgent mirrors a desktop browser; the BCB content server
	// rejects requests with an empty or generic agent.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/131.0.0.0 Safari/537.36"

	// Payloads at or below these sizes are HTML error pages, not extracts.
	EstbanMinBytes     = 100
	MembershipMinBytes = 500

	// MembershipSkipLines is the fixed metadata preamble of each
	// membership extract.
	MembershipSkipLines = 6

	// GitHubFileLimitMB is the size above which the exporter switches the
	// published CSV to its gzipped form.
	GitHubFileLimitMB = 90

	// LFSLimitMB is the size above which published files are tracked with
	// git-lfs.
	LFSLimitMB = 50

	// Dataset file names inside the data repository.
	EstbanCSVName     = "estban_municipal_estrategico.csv"
	MembershipCSVName = "cooperados_por_cooperativa.csv"

	// DefaultRepoSlug identifies the GitHub repository the datasets are
	// published to. The README uses it for raw-content URLs whenever the
	// git remote cannot be read.
	DefaultRepoSlug = "mazoir/dados_publicos"

	// Git publishing defaults.
	DefaultRemote      = "origin"
	DefaultBranch      = "main"
	DefaultAuthorName  = "Mazoir"
	DefaultAuthorEmail = "mazoir@users.noreply.github.com"

	// Logging defaults.
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogOutput = "both"
)

// WorkspaceEnv designates the data repository root when set; GitHub
// Codespaces and Actions export it automatically.
const WorkspaceEnv = "GITHUB_WORKSPACE"

// ConfigFileEnv overrides the config file location.
const ConfigFileEnv = "BCB_CONFIG_FILE"
