package pipeline

import (
	"context"
	"os"

	"bcbdata/internal/config"
	"bcbdata/internal/exporter"
	"bcbdata/internal/publish"
	"bcbdata/pkg/contracts/domain"
)

// readmeData assembles the repository README figures. The README documents
// both datasets, so each run fills live numbers for its own dataset here
// and overrides them; the other dataset's figures come from configuration
// and whatever artifact an earlier run left on disk.
func readmeData(ctx context.Context, cfg *config.Config, paths *config.Paths, pub *publish.Publisher) exporter.ReadmeData {
	data := exporter.ReadmeData{
		RepoSlug: config.DefaultRepoSlug,

		EstbanFile: config.EstbanCSVName,
		EstbanFrom: cfg.Estban.From,
		EstbanTo:   cfg.Estban.To,

		CooperadosFrom:   labelOrRaw(cfg.Cooperados.From),
		CooperadosTo:     labelOrRaw(cfg.Cooperados.To),
		CooperadosMonths: windowMonths(cfg.Cooperados.From, cfg.Cooperados.To),
	}

	if pub != nil {
		if slug, err := pub.RemoteSlug(ctx); err == nil {
			data.RepoSlug = slug
		}
	}

	total := windowMonths(cfg.Estban.From, cfg.Estban.To)
	data.EstbanPeriodsOK, data.EstbanPeriodsTotal = total, total

	if info, err := os.Stat(paths.EstbanCSV); err == nil {
		data.EstbanSizeMB = float64(info.Size()) / (1024 * 1024)
	} else if info, err := os.Stat(paths.EstbanCSV + ".gz"); err == nil {
		data.EstbanFile = config.EstbanCSVName + ".gz"
		data.EstbanSizeMB = float64(info.Size()) / (1024 * 1024)
	}

	return data
}

// windowMonths returns the length of a configured YYYY-MM window, zero
// when either end does not parse.
func windowMonths(from, to string) int {
	f, err := domain.ParsePeriod(from)
	if err != nil {
		return 0
	}
	t, err := domain.ParsePeriod(to)
	if err != nil {
		return 0
	}
	return len(domain.PeriodRange(f, t))
}

// labelOrRaw converts a YYYY-MM config value to the MM/YYYY shape the
// membership section of the README uses, passing unparseable text through.
func labelOrRaw(s string) string {
	p, err := domain.ParsePeriod(s)
	if err != nil {
		return s
	}
	return p.Label()
}
