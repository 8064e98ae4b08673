// Command estban maintains the consolidated ESTBAN municipal strategic
// dataset: it downloads the monthly extracts, reduces them to the
// strategic indicator schema, consolidates every usable period and
// publishes the result to the data repository.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"bcbdata/internal/config"
	"bcbdata/internal/fetch"
	"bcbdata/internal/infrastructure"
	"bcbdata/internal/pipeline"
	"bcbdata/internal/publish"
	"bcbdata/internal/validation"
	"bcbdata/pkg/contracts"
	"bcbdata/pkg/contracts/domain"
)

func main() {
	// Panic recovery at the very start so crashes always reach the log.
	var logger *slog.Logger
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("PANIC RECOVERED: %v\n", r)
			fmt.Printf("Stack trace:\n%s\n", debug.Stack())
			if logger != nil {
				logger.Error("Pipeline panicked",
					slog.Any("panic", r),
					slog.String("stack", string(debug.Stack())))
			}
			os.Exit(1)
		}
	}()

	fromFlag := flag.String("from", "", "start period (YYYY-MM; default from config)")
	toFlag := flag.String("to", "", "end period (YYYY-MM; default from config)")
	noPush := flag.Bool("no-push", false, "skip the git publish step")
	configFile := flag.String("config", "", "config file path (default: discovered)")
	workspace := flag.String("workspace", "", "data repository root (default: GITHUB_WORKSPACE or executable dir)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.VersionString("estban"))
		os.Exit(0)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Flags beat configuration; both are rejected before any work starts.
	from, to, err := resolveWindow(cfg, *fromFlag, *toFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if *workspace != "" {
		cfg.Paths.Workspace = *workspace
	}
	ws, err := config.ResolveWorkspace(cfg.Paths.Workspace)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	paths := config.NewPaths(ws)
	if err := paths.EnsureDirectories(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create directories: %v\n", err)
		os.Exit(1)
	}

	if cfg.Logging.FilePath == "" {
		cfg.Logging.FilePath = paths.LogFile("estban.log")
	}
	logger, err = infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Printf("Warning: failed to initialize logger, using default: %v\n", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx, stop := signal.NotifyContext(infrastructure.ContextWithRunID(context.Background()),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.InfoContext(ctx, "ESTBAN municipal pipeline starting",
		slog.String("version", contracts.Version),
		slog.String("from", from.String()),
		slog.String("to", to.String()),
		slog.String("workspace", ws),
		slog.Bool("push", !*noPush && cfg.Publish.Enabled))

	client := fetch.NewClient(fetch.Options{
		Retries:           cfg.HTTP.Retries,
		RetryDelay:        cfg.HTTP.RetryDelay,
		MinBytes:          cfg.Estban.MinBytes,
		RequestsPerSecond: requestsPerSecond(cfg.HTTP.RequestPause),
		UserAgent:         cfg.HTTP.UserAgent,
		Timeout:           cfg.HTTP.Timeout,
	})

	var pub *publish.Publisher
	if cfg.Publish.Enabled {
		pub = publish.NewPublisher(publish.Options{
			Dir:         ws,
			Remote:      cfg.Publish.Remote,
			Branch:      cfg.Publish.Branch,
			AuthorName:  cfg.Publish.AuthorName,
			AuthorEmail: cfg.Publish.AuthorEmail,
			LFSLimitMB:  cfg.Publish.LFSLimitMB,
		})
	}

	pl := pipeline.NewEstban(pipeline.EstbanOptions{
		Config:    cfg,
		Paths:     paths,
		Client:    client,
		Publisher: pub,
		From:      from,
		To:        to,
		NoPush:    *noPush,
	})

	report := pl.Run(ctx)
	if report.Failed() {
		logger.ErrorContext(ctx, "Pipeline failed",
			slog.String("error", report.Err.Error()),
			slog.Duration("duration", report.Duration))
		os.Exit(1)
	}

	outcomes := pl.Outcomes()
	artifact := pl.Artifact()
	logger.InfoContext(ctx, "Pipeline finished",
		slog.Int("periods_ok", outcomes.Usable()),
		slog.Int("periods_failed", outcomes.Failed()),
		slog.String("artifact", artifact.Path),
		slog.Float64("size_mb", artifact.PlainMB),
		slog.Duration("duration", report.Duration))
}

// resolveWindow applies the flag overrides to the configured collection
// window and validates the result. Malformed periods fail here, before
// any filesystem or network work.
func resolveWindow(cfg *config.Config, fromFlag, toFlag string) (domain.Period, domain.Period, error) {
	if fromFlag != "" {
		cfg.Estban.From = fromFlag
	}
	if toFlag != "" {
		cfg.Estban.To = toFlag
	}

	args := validation.PeriodArgs{From: cfg.Estban.From, To: cfg.Estban.To}
	if err := validation.ValidatePeriodArgs(args); err != nil {
		return domain.Period{}, domain.Period{}, err
	}

	from, err := domain.ParsePeriod(cfg.Estban.From)
	if err != nil {
		return domain.Period{}, domain.Period{}, err
	}
	to, err := domain.ParsePeriod(cfg.Estban.To)
	if err != nil {
		return domain.Period{}, domain.Period{}, err
	}
	if to.Before(from) {
		return domain.Period{}, domain.Period{}, fmt.Errorf("-from %s is after -to %s", from, to)
	}
	return from, to, nil
}

// requestsPerSecond converts the configured inter-request pause into the
// client's rate limit. Zero pause disables pacing.
func requestsPerSecond(pause time.Duration) float64 {
	if pause <= 0 {
		return 0
	}
	return float64(time.Second) / float64(pause)
}
