package exporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "README.md")

	err := WriteReadme(path, ReadmeData{
		RepoSlug:           "mazoir/dados_publicos",
		EstbanFile:         "estban_municipal_estrategico.csv.gz",
		EstbanFrom:         "2023-01",
		EstbanTo:           "2025-09",
		EstbanPeriodsOK:    31,
		EstbanPeriodsTotal: 33,
		EstbanSizeMB:       112.4,
		CooperadosFrom:     "01/2020",
		CooperadosTo:       "12/2025",
		CooperadosMonths:   72,
		GeneratedAt:        "30/09/2025 14:00",
	})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	readme := string(content)

	assert.Contains(t, readme, "# 📊 Dados Públicos - BCB")
	assert.Contains(t, readme, "`dados/bcb/estban/estban_municipal_estrategico.csv.gz`",
		"artifact name follows the gzip fallback")
	assert.Contains(t, readme, "2023-01 a 2025-09 (31/33 meses)")
	assert.Contains(t, readme, "~112 MB")
	assert.Contains(t, readme, "01/2020 a 12/2025 (72 meses)")
	assert.Contains(t, readme,
		"https://raw.githubusercontent.com/mazoir/dados_publicos/main/dados/bcb/cooperados/cooperados_por_cooperativa.csv")
	assert.Contains(t, readme,
		"https://raw.githubusercontent.com/mazoir/dados_publicos/main/dados/bcb/estban/estban_municipal_estrategico.csv.gz")
	assert.Contains(t, readme, "30/09/2025 14:00")

	// Column documentation for both datasets.
	assert.Contains(t, readme, "| `IDX_PROVISAO_CREDITO` | abs(174) / 160 × 100 |")
	assert.Contains(t, readme, "| `Total de Cooperados` | Inteiro |")
}

func TestWriteReadmeDefaultsGeneratedAt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "README.md")

	err := WriteReadme(path, ReadmeData{
		RepoSlug:   "mazoir/dados_publicos",
		EstbanFile: "estban_municipal_estrategico.csv",
	})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Contains(t, string(content), "## Última atualização")
	assert.NotContains(t, string(content), "{{", "no unexpanded template actions")
}
