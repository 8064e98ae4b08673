package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pipeerrors "bcbdata/internal/errors"
	"bcbdata/pkg/contracts/domain"
)

// membershipCSV mimics one monthly extract: six metadata lines, the
// header, data rows and the attribution footer.
func membershipCSV(p domain.Period) []byte {
	lines := []string{
		"Cooperados por Cooperativa",
		"Documento 5300",
		"Referencia: " + p.Label(),
		"",
		"Valores em unidades",
		"",
		"CNPJ;Nome;Total de Cooperados;Cooperados PF;Cooperados PJ;Sexo Feminino;Sexo Masculino;Sexo nao Informado",
		"1234;COOP UM;1500;1400;100;700;790;10",
		"567890123;COOP DOIS;200;180;20;90;105;5",
		"Fonte: Banco Central do Brasil;;;;;;;",
	}
	return []byte(strings.Join(lines, "\r\n") + "\r\n")
}

func membershipZip(t *testing.T, p domain.Period) []byte {
	t.Helper()
	return zipBytes(t, p.Key()+"CCOCOOPERATIVA.csv", membershipCSV(p))
}

// newCooperadosServer publishes 2020-01 through the content index and
// 2020-02 only under the pattern URL; 2020-03 is absent.
func newCooperadosServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var srv *httptest.Server

	mux.HandleFunc("/api", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"conteudo": [
			{"Url": "%s/zips/202001.zip", "Titulo": "01/2020", "Nome": "202001CCOCOOPERATIVA.zip"}
		]}`, srv.URL)
	})
	mux.HandleFunc("/zips/202001.zip", func(w http.ResponseWriter, r *http.Request) {
		w.Write(membershipZip(t, domain.Period{Year: 2020, Month: 1}))
	})
	mux.HandleFunc("/cont2/202002CCOCOOPERATIVA.zip", func(w http.ResponseWriter, r *http.Request) {
		w.Write(membershipZip(t, domain.Period{Year: 2020, Month: 2}))
	})

	srv = httptest.NewServer(mux)
	return srv
}

func TestCooperadosRun(t *testing.T) {
	srv := newCooperadosServer(t)
	defer srv.Close()

	cfg, paths := newWorkspace(t)
	cfg.Cooperados.APIURL = srv.URL + "/api"
	cfg.Cooperados.PatternBaseURL = srv.URL + "/cont2"
	cfg.Cooperados.MinBytes = 10

	pl := NewCooperados(CooperadosOptions{
		Config: cfg,
		Paths:  paths,
		Client: testFetchClient(),
		From:   domain.Period{Year: 2020, Month: 1},
		To:     domain.Period{Year: 2020, Month: 3},
		NoPush: true,
	})

	report := pl.Run(context.Background())
	require.False(t, report.Failed(), "run error: %v", report.Err)

	assert.Equal(t, 2, pl.Outcomes().Usable())
	assert.Equal(t, 1, pl.Outcomes().Failed())

	// Working files: one cached archive and one raw extract per usable
	// period.
	assert.FileExists(t, paths.ArchiveCache("202001"))
	assert.FileExists(t, paths.ArchiveCache("202002"))
	assert.FileExists(t, paths.RawExtract("202001"))
	assert.FileExists(t, paths.RawExtract("202002"))

	data, err := os.ReadFile(paths.CooperadosCSV)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 5, "header plus two rows per usable period")

	assert.Equal(t, strings.Join(domain.MembershipColumns, ";"), lines[0])
	assert.Equal(t, "00001234;1500;1400;100;700;790;10;2020-01-01", lines[1])
	assert.Equal(t, "56789012;200;180;20;90;105;5;2020-01-01", lines[2])
	assert.Equal(t, "00001234;1500;1400;100;700;790;10;2020-02-01", lines[3])

	ignore, err := os.ReadFile(paths.GitignoreFile)
	require.NoError(t, err)
	assert.Equal(t, "_brutos/\n_temp/\n", string(ignore))

	readme, err := os.ReadFile(paths.ReadmeFile)
	require.NoError(t, err)
	assert.Contains(t, string(readme), "01/2020 a 03/2020 (3 meses)")

	require.NotNil(t, pl.Dataset())
	assert.Equal(t, 4, pl.Dataset().Summary.Records)
	assert.Equal(t, 2, pl.Dataset().Summary.Cooperativas)

	// Working directories go away after the run.
	pl.Cleanup()
	assert.NoDirExists(t, paths.CooperadosRawDir)
	assert.NoDirExists(t, paths.CooperadosCacheDir)
	assert.FileExists(t, paths.CooperadosCSV)
}

func TestCooperadosCacheReuse(t *testing.T) {
	var zipHits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, ".zip") {
			zipHits.Add(1)
		}
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfg, paths := newWorkspace(t)
	cfg.Cooperados.APIURL = srv.URL + "/api"
	cfg.Cooperados.PatternBaseURL = srv.URL + "/cont2"
	cfg.Cooperados.MinBytes = 10

	// A previous run already left the archive in the cache.
	period := domain.Period{Year: 2020, Month: 1}
	cache := paths.ArchiveCache(period.Key())
	require.NoError(t, os.MkdirAll(paths.CooperadosCacheDir, 0755))
	require.NoError(t, os.WriteFile(cache, membershipZip(t, period), 0644))

	pl := NewCooperados(CooperadosOptions{
		Config: cfg,
		Paths:  paths,
		Client: testFetchClient(),
		From:   period,
		To:     period,
		NoPush: true,
	})

	report := pl.Run(context.Background())
	require.False(t, report.Failed(), "run error: %v", report.Err)

	assert.Equal(t, 1, pl.Outcomes().Usable())
	assert.Equal(t, int32(0), zipHits.Load(), "cached archive must not be downloaded again")
}

func TestCooperadosIndexUnavailable(t *testing.T) {
	// Only the pattern URL works; the content API is down.
	mux := http.NewServeMux()
	mux.HandleFunc("/cont2/202002CCOCOOPERATIVA.zip", func(w http.ResponseWriter, r *http.Request) {
		w.Write(membershipZip(t, domain.Period{Year: 2020, Month: 2}))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfg, paths := newWorkspace(t)
	cfg.Cooperados.APIURL = srv.URL + "/api"
	cfg.Cooperados.PatternBaseURL = srv.URL + "/cont2"
	cfg.Cooperados.MinBytes = 10

	pl := NewCooperados(CooperadosOptions{
		Config: cfg,
		Paths:  paths,
		Client: testFetchClient(),
		From:   domain.Period{Year: 2020, Month: 2},
		To:     domain.Period{Year: 2020, Month: 2},
		NoPush: true,
	})

	report := pl.Run(context.Background())
	require.False(t, report.Failed(), "run error: %v", report.Err)
	assert.Equal(t, 1, pl.Outcomes().Usable())
}

func TestCooperadosRunNoUsablePeriods(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	cfg, paths := newWorkspace(t)
	cfg.Cooperados.APIURL = srv.URL + "/api"
	cfg.Cooperados.PatternBaseURL = srv.URL + "/cont2"
	cfg.Cooperados.MinBytes = 10

	pl := NewCooperados(CooperadosOptions{
		Config: cfg,
		Paths:  paths,
		Client: testFetchClient(),
		From:   domain.Period{Year: 2020, Month: 1},
		To:     domain.Period{Year: 2020, Month: 2},
		NoPush: true,
	})

	report := pl.Run(context.Background())
	require.True(t, report.Failed())
	assert.ErrorIs(t, report.Err, pipeerrors.ErrNoUsablePeriods)
	assert.NoFileExists(t, paths.CooperadosCSV)
}

// The naming cutover decides which pattern file name is requested: periods
// before 2019-04 use the mixed-case name.
func TestCooperadosPatternCutover(t *testing.T) {
	var requested []string
	mux := http.NewServeMux()
	mux.HandleFunc("/cont2/", func(w http.ResponseWriter, r *http.Request) {
		requested = append(requested, r.URL.Path)
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfg, paths := newWorkspace(t)
	cfg.Cooperados.APIURL = srv.URL + "/api"
	cfg.Cooperados.PatternBaseURL = srv.URL + "/cont2"
	cfg.Cooperados.From = "2019-03"
	cfg.Cooperados.To = "2019-04"

	pl := NewCooperados(CooperadosOptions{
		Config: cfg,
		Paths:  paths,
		Client: testFetchClient(),
		From:   domain.Period{Year: 2019, Month: 3},
		To:     domain.Period{Year: 2019, Month: 4},
		NoPush: true,
	})

	// Every download fails; only the requested names matter here.
	pl.Run(context.Background())

	assert.Contains(t, requested, "/cont2/201903CCOCooperativa.zip")
	assert.Contains(t, requested, "/cont2/201904CCOCOOPERATIVA.zip")
}
