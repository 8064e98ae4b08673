package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"bcbdata/internal/config"
	"bcbdata/internal/cooperados"
	pipeerrors "bcbdata/internal/errors"
	"bcbdata/internal/exporter"
	"bcbdata/internal/fetch"
	"bcbdata/internal/files"
	"bcbdata/internal/publish"
	"bcbdata/pkg/contracts/domain"
)

// workingDirsIgnore keeps the per-period working directories out of the
// data repository; only the consolidated CSV is published.
const workingDirsIgnore = "_brutos/\n_temp/\n"

// CooperadosOptions wires one membership dataset run.
type CooperadosOptions struct {
	Config *config.Config
	Paths  *config.Paths
	Client *fetch.Client

	// Publisher may be nil; the publish step is then skipped.
	Publisher *publish.Publisher

	From, To domain.Period
	NoPush   bool
}

// Cooperados orchestrates the membership dataset run: discover published
// URLs, download and unpack each month, consolidate, export and publish.
type Cooperados struct {
	cfg    *config.Config
	paths  *config.Paths
	client *fetch.Client
	writer *exporter.CSVWriter
	fm     *files.Manager
	pub    *publish.Publisher

	from    domain.Period
	to      domain.Period
	cutover domain.Period
	noPush  bool

	index    cooperados.Index
	outcomes Outcomes
	dataset  *domain.MembershipDataset
}

// NewCooperados returns the membership pipeline for one run.
func NewCooperados(opts CooperadosOptions) *Cooperados {
	return &Cooperados{
		cfg:     opts.Config,
		paths:   opts.Paths,
		client:  opts.Client,
		writer:  exporter.NewCSVWriter(),
		fm:      files.NewManager(opts.Paths.CooperadosDir),
		pub:     opts.Publisher,
		from:    opts.From,
		to:      opts.To,
		cutover: periodOrDefault(opts.Config.Cooperados.PatternCutover, config.MembershipPatternCutover),
		noPush:  opts.NoPush,
		index:   cooperados.Index{},
	}
}

// Run executes the pipeline and returns the step report.
func (p *Cooperados) Run(ctx context.Context) *Report {
	return NewRunner(
		StepFunc("discover", "Read the published content index", p.discover),
		StepFunc("download", "Download and unpack monthly extracts", p.download),
		StepFunc("consolidate", "Consolidate raw extracts", p.consolidate),
		StepFunc("export", "Write dataset and documentation", p.export),
		StepFunc("publish", "Commit and push to the data repository", p.publishStep),
	).Run(ctx)
}

// Outcomes returns the per-period download results.
func (p *Cooperados) Outcomes() Outcomes {
	return p.outcomes
}

// Dataset returns the consolidated dataset, nil before consolidation.
func (p *Cooperados) Dataset() *domain.MembershipDataset {
	return p.dataset
}

// Cleanup removes the per-period working directories. Best effort, called
// by the binary after the run regardless of its outcome.
func (p *Cooperados) Cleanup() {
	for _, dir := range []string{p.paths.CooperadosRawDir, p.paths.CooperadosCacheDir} {
		if err := os.RemoveAll(dir); err != nil {
			slog.Warn("Could not remove working directory",
				slog.String("directory", dir),
				slog.String("error", err.Error()))
		}
	}
	slog.Info("Removed working directories")
}

// discover loads the BCB content index mapping periods to download URLs.
// The index endpoint failing is not fatal: every period then falls back
// to the pattern URL.
func (p *Cooperados) discover(ctx context.Context) error {
	payload, err := p.client.Get(ctx, p.cfg.Cooperados.APIURL)
	if err != nil {
		slog.WarnContext(ctx, "Content index unavailable, using pattern URLs only",
			slog.String("error", err.Error()))
		return nil
	}

	index, err := cooperados.ParseIndex(payload, config.MembershipBaseURL)
	if err != nil {
		slog.WarnContext(ctx, "Content index unreadable, using pattern URLs only",
			slog.String("error", err.Error()))
		return nil
	}

	p.index = index
	slog.InfoContext(ctx, "Content index loaded", slog.Int("entries", len(index)))
	return nil
}

// download walks the period window chronologically, leaving one raw CSV
// per usable period under _brutos. Failed periods are recorded and
// skipped.
func (p *Cooperados) download(ctx context.Context) error {
	periods := domain.PeriodRange(p.from, p.to)
	logger := slog.Default().With(slog.String("component", "cooperados"))
	logger.InfoContext(ctx, "Downloading monthly extracts",
		slog.String("from", p.from.String()),
		slog.String("to", p.to.String()),
		slog.Int("periods", len(periods)))

	for _, period := range periods {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := p.downloadPeriod(ctx, period); err != nil {
			p.outcomes = append(p.outcomes, PeriodOutcome{Period: period, Err: err})
			logger.WarnContext(ctx, "Period skipped",
				slog.String("period", period.String()),
				slog.String("error", err.Error()))
			continue
		}
		p.outcomes = append(p.outcomes, PeriodOutcome{Period: period})
	}

	logger.InfoContext(ctx, "Download finished",
		slog.Int("usable", p.outcomes.Usable()),
		slog.Int("failed", p.outcomes.Failed()))
	return nil
}

// downloadPeriod obtains one month's archive, from the local cache when a
// previous run already fetched it, and unpacks its CSV entry into _brutos.
func (p *Cooperados) downloadPeriod(ctx context.Context, period domain.Period) error {
	cache := p.paths.ArchiveCache(period.Key())

	payload, cached := p.cachedArchive(cache)
	if !cached {
		var err error
		payload, err = p.fetchArchive(ctx, period)
		if err != nil {
			return pipeerrors.Retrieval(period, "download", err)
		}
		if err := p.fm.WriteFile(cache, payload); err != nil {
			return pipeerrors.Retrieval(period, "cache archive", err)
		}
	}

	data, _, err := fetch.ExtractTable(payload, cache)
	if err != nil {
		return pipeerrors.Retrieval(period, "extract", err)
	}

	if err := p.fm.WriteFile(p.paths.RawExtract(period.Key()), data); err != nil {
		return pipeerrors.Retrieval(period, "store extract", err)
	}
	return nil
}

// cachedArchive reuses an archive left by a previous run when it is large
// enough to be a real extract rather than a truncated download.
func (p *Cooperados) cachedArchive(path string) ([]byte, bool) {
	size, err := p.fm.GetFileSize(path)
	if err != nil || size <= int64(p.cfg.Cooperados.MinBytes) {
		return nil, false
	}
	payload, err := p.fm.ReadFile(path)
	if err != nil {
		return nil, false
	}
	slog.Debug("Reusing cached archive",
		slog.String("path", path),
		slog.Int64("size", size))
	return payload, true
}

// fetchArchive tries the discovered index URL first, then the pattern URL
// derived from the period and the file-naming cutover.
func (p *Cooperados) fetchArchive(ctx context.Context, period domain.Period) ([]byte, error) {
	var urls []string
	if url, ok := p.index.Lookup(period); ok {
		urls = append(urls, url)
	}
	urls = append(urls, fetch.MembershipPatternURL(p.cfg.Cooperados.PatternBaseURL, period, p.cutover))

	payload, _, err := p.client.GetFirst(ctx, urls)
	return payload, err
}

// consolidate reads every raw extract under _brutos in chronological
// order and merges the usable ones into the dataset.
func (p *Cooperados) consolidate(ctx context.Context) error {
	periodFiles, err := files.FindPeriodFiles(p.paths.CooperadosRawDir, ".csv")
	if err != nil {
		return pipeerrors.Schema(domain.Period{}, "scan extracts", err)
	}
	if len(periodFiles) == 0 {
		return fmt.Errorf("no raw extracts in %s: %w",
			p.paths.CooperadosRawDir, pipeerrors.ErrNoUsablePeriods)
	}

	tables := make([]*domain.MembershipTable, 0, len(periodFiles))
	for _, pf := range periodFiles {
		if err := ctx.Err(); err != nil {
			return err
		}

		table, err := p.loadExtract(pf)
		if err != nil {
			slog.WarnContext(ctx, "Extract skipped",
				slog.String("period", pf.Period.String()),
				slog.String("error", err.Error()))
			continue
		}
		tables = append(tables, table)
	}
	if len(tables) == 0 {
		return fmt.Errorf("every raw extract failed to decode: %w", pipeerrors.ErrNoUsablePeriods)
	}

	p.dataset = cooperados.Consolidate(tables)
	s := p.dataset.Summary
	slog.InfoContext(ctx, "Consolidated membership dataset",
		slog.Int("records", s.Records),
		slog.Int("cooperativas", s.Cooperativas),
		slog.String("first", s.FirstPeriodo),
		slog.String("last", s.LastPeriodo))
	return nil
}

// loadExtract decodes one raw extract, skipping the fixed metadata
// preamble above the header, and transforms it.
func (p *Cooperados) loadExtract(pf files.PeriodFile) (*domain.MembershipTable, error) {
	data, err := p.fm.ReadFile(pf.Path)
	if err != nil {
		return nil, pipeerrors.Retrieval(pf.Period, "read extract", err)
	}

	table, err := fetch.DecodeTable(data, fetch.TableCSV, fetch.TableOptions{
		SkipLines: p.cfg.Cooperados.SkipLines,
	})
	if err != nil {
		return nil, pipeerrors.Schema(pf.Period, "decode", err)
	}

	return cooperados.Transform(pf.Period, table)
}

func (p *Cooperados) export(ctx context.Context) error {
	rows := exporter.MembershipRows(p.dataset.Records)
	if err := p.writer.WriteCSV(p.paths.CooperadosCSV, exporter.WriteOptions{
		Headers: domain.MembershipColumns,
		Records: rows,
	}); err != nil {
		return pipeerrors.Export("write dataset", err)
	}

	if err := p.fm.WriteFile(p.paths.GitignoreFile, []byte(workingDirsIgnore)); err != nil {
		return pipeerrors.Export("write gitignore", err)
	}

	data := readmeData(ctx, p.cfg, p.paths, p.pub)
	data.CooperadosFrom = p.from.Label()
	data.CooperadosTo = p.to.Label()
	data.CooperadosMonths = len(domain.PeriodRange(p.from, p.to))

	if err := exporter.WriteReadme(p.paths.ReadmeFile, data); err != nil {
		return pipeerrors.Export("write readme", err)
	}
	return nil
}

func (p *Cooperados) publishStep(ctx context.Context) error {
	if p.noPush || p.pub == nil {
		slog.InfoContext(ctx, "Publishing disabled, keeping changes local")
		return nil
	}

	message := fmt.Sprintf("📊 Atualização cooperados BCB - %s",
		time.Now().Format("2006-01-02 15:04"))
	return p.pub.Publish(ctx, message,
		p.paths.CooperadosCSV, p.paths.GitignoreFile, p.paths.ReadmeFile)
}

// periodOrDefault parses a configured YYYY-MM value, falling back to the
// built-in default when it is empty or malformed.
func periodOrDefault(s, fallback string) domain.Period {
	if p, err := domain.ParsePeriod(s); err == nil {
		return p
	}
	p, _ := domain.ParsePeriod(fallback)
	return p
}
