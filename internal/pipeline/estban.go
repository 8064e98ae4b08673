package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"bcbdata/internal/config"
	pipeerrors "bcbdata/internal/errors"
	"bcbdata/internal/estban"
	"bcbdata/internal/exporter"
	"bcbdata/internal/fetch"
	"bcbdata/internal/publish"
	"bcbdata/pkg/contracts/domain"
)

// estbanHeaderMarkers locate the real header line inside an extract:
// every ESTBAN vintage names at least one of these columns, while the
// metadata preamble above the header never does.
var estbanHeaderMarkers = []string{"DATA_BASE", "CODMUN"}

// EstbanOptions wires one strategic dataset run.
type EstbanOptions struct {
	Config *config.Config
	Paths  *config.Paths
	Client *fetch.Client

	// Publisher may be nil; the publish step is then skipped.
	Publisher *publish.Publisher

	From, To domain.Period
	NoPush   bool
}

// Estban orchestrates the strategic dataset run: collect each month's
// extract, consolidate the usable ones, export the dataset and publish it.
type Estban struct {
	cfg    *config.Config
	paths  *config.Paths
	client *fetch.Client
	writer *exporter.CSVWriter
	pub    *publish.Publisher

	from   domain.Period
	to     domain.Period
	noPush bool

	outcomes Outcomes
	tables   []*domain.PeriodTable
	dataset  *domain.StrategicDataset
	artifact *exporter.WriteResult
}

// NewEstban returns the strategic pipeline for one run.
func NewEstban(opts EstbanOptions) *Estban {
	return &Estban{
		cfg:    opts.Config,
		paths:  opts.Paths,
		client: opts.Client,
		writer: exporter.NewCSVWriter(),
		pub:    opts.Publisher,
		from:   opts.From,
		to:     opts.To,
		noPush: opts.NoPush,
	}
}

// Run executes the pipeline and returns the step report.
func (p *Estban) Run(ctx context.Context) *Report {
	return NewRunner(
		StepFunc("collect", "Download and transform monthly extracts", p.collect),
		StepFunc("consolidate", "Consolidate usable periods", p.consolidate),
		StepFunc("export", "Write dataset and documentation", p.export),
		StepFunc("publish", "Commit and push to the data repository", p.publishStep),
	).Run(ctx)
}

// Outcomes returns the per-period collection results.
func (p *Estban) Outcomes() Outcomes {
	return p.outcomes
}

// Dataset returns the consolidated dataset, nil before consolidation.
func (p *Estban) Dataset() *domain.StrategicDataset {
	return p.dataset
}

// Artifact returns what the export step wrote, nil before export.
func (p *Estban) Artifact() *exporter.WriteResult {
	return p.artifact
}

// collect walks the period window chronologically. A failed period is
// logged and recorded, never fatal here; the consolidate step decides
// whether anything usable remains.
func (p *Estban) collect(ctx context.Context) error {
	periods := domain.PeriodRange(p.from, p.to)
	logger := slog.Default().With(slog.String("component", "estban"))
	logger.InfoContext(ctx, "Collecting monthly extracts",
		slog.String("from", p.from.String()),
		slog.String("to", p.to.String()),
		slog.Int("periods", len(periods)))

	for _, period := range periods {
		if err := ctx.Err(); err != nil {
			return err
		}

		table, err := p.collectPeriod(ctx, period)
		if err != nil {
			p.outcomes = append(p.outcomes, PeriodOutcome{Period: period, Err: err})
			logger.WarnContext(ctx, "Period skipped",
				slog.String("period", period.String()),
				slog.String("error", err.Error()))
			continue
		}

		p.outcomes = append(p.outcomes, PeriodOutcome{Period: period, Rows: len(table.Records)})
		p.tables = append(p.tables, table)
		logger.InfoContext(ctx, "Period collected",
			slog.String("period", period.String()),
			slog.Int("rows", len(table.Records)))
	}

	logger.InfoContext(ctx, "Collection finished",
		slog.Int("usable", p.outcomes.Usable()),
		slog.Int("failed", p.outcomes.Failed()))
	return nil
}

// collectPeriod downloads, decodes and transforms one month's extract.
func (p *Estban) collectPeriod(ctx context.Context, period domain.Period) (*domain.PeriodTable, error) {
	urls := fetch.EstbanURLs(p.cfg.Estban.BaseURL, period)
	payload, url, err := p.client.GetFirst(ctx, urls)
	if err != nil {
		return nil, pipeerrors.Retrieval(period, "download", err)
	}

	data, kind, err := fetch.ExtractTable(payload, url)
	if err != nil {
		return nil, pipeerrors.Retrieval(period, "extract", err)
	}

	table, err := fetch.DecodeTable(data, kind, fetch.TableOptions{
		HeaderMarkers: estbanHeaderMarkers,
	})
	if err != nil {
		return nil, pipeerrors.Schema(period, "decode", err)
	}

	return estban.Transform(period, table)
}

func (p *Estban) consolidate(ctx context.Context) error {
	if len(p.tables) == 0 {
		return fmt.Errorf("%d periods attempted: %w", len(p.outcomes), pipeerrors.ErrNoUsablePeriods)
	}

	p.dataset = estban.Consolidate(p.tables)
	s := p.dataset.Summary
	slog.InfoContext(ctx, "Consolidated strategic dataset",
		slog.Int("records", s.Records),
		slog.Int("ufs", s.UFs),
		slog.Int("municipios", s.Municipios),
		slog.Int("instituicoes", s.Instituicoes),
		slog.Int("duplicates_removed", s.Duplicates),
		slog.String("first", s.FirstDataBase),
		slog.String("last", s.LastDataBase))
	return nil
}

func (p *Estban) export(ctx context.Context) error {
	rows := exporter.StrategicRows(p.dataset.Records)
	result, err := p.writer.WriteWithGzipFallback(p.paths.EstbanCSV, exporter.WriteOptions{
		Headers: domain.StrategicColumns,
		Records: rows,
	}, p.cfg.Estban.FileLimitMB)
	if err != nil {
		return pipeerrors.Export("write dataset", err)
	}
	p.artifact = result

	data := readmeData(ctx, p.cfg, p.paths, p.pub)
	data.EstbanFile = filepath.Base(result.Path)
	data.EstbanFrom = p.from.String()
	data.EstbanTo = p.to.String()
	data.EstbanPeriodsOK = p.outcomes.Usable()
	data.EstbanPeriodsTotal = len(p.outcomes)
	data.EstbanSizeMB = result.PlainMB

	if err := exporter.WriteReadme(p.paths.ReadmeFile, data); err != nil {
		return pipeerrors.Export("write readme", err)
	}
	return nil
}

func (p *Estban) publishStep(ctx context.Context) error {
	if p.noPush || p.pub == nil {
		slog.InfoContext(ctx, "Publishing disabled, keeping changes local")
		return nil
	}

	message := fmt.Sprintf("feat: ESTBAN municipal estratégico - atualização %s",
		time.Now().UTC().Format("02/01/2006 15:04"))
	return p.pub.Publish(ctx, message, p.artifact.Path, p.paths.ReadmeFile)
}
