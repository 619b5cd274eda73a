package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/fwojciec/linkscout"
	"github.com/fwojciec/linkscout/bing"
	"github.com/fwojciec/linkscout/fs"
	"github.com/fwojciec/linkscout/goquery"
	lshttp "github.com/fwojciec/linkscout/http"
	"github.com/fwojciec/linkscout/scan"
	lsslog "github.com/fwojciec/linkscout/slog"
	"github.com/fwojciec/linkscout/sqlite"
)

// Run executes the scan command.
func (c *ScanCmd) Run(deps *Dependencies) error {
	domains, err := c.targets()
	if err != nil {
		return err
	}

	opts := scan.Options{
		Mode:       linkscout.ScanMode(c.Mode),
		Pages:      c.Pages,
		Extensions: linkscout.ParseExtensions(c.Extensions),
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	if c.Concurrency < 1 {
		return linkscout.Errorf(linkscout.EINVALID, "concurrency must be at least 1, got %d", c.Concurrency)
	}

	logger := newLogger(deps.Stderr, c.Verbose)
	console := NewConsole(deps.Stdout, !c.NoColor)
	files := fs.NewReportWriter(c.Output)

	writers := linkscout.MultiReportWriter{
		console,
		lsslog.NewLoggingReportWriter(files, "text", logger),
	}

	findings := deps.Findings
	if findings == nil && c.DB != "" {
		db := sqlite.NewDB(c.DB)
		if err := db.Open(); err != nil {
			return fmt.Errorf("failed to open database at %q: %w", c.DB, err)
		}
		defer db.Close()
		findings = sqlite.NewFindingService(db)
	}
	if findings != nil {
		writers = append(writers, lsslog.NewLoggingReportWriter(sqlite.NewReportWriter(findings), "sqlite", logger))
	}

	runner := &scan.Runner{
		Reports:     writers,
		Concurrency: c.Concurrency,
		Logger:      logger,
		Now:         deps.Now,
	}

	if opts.Mode.IncludesBacklinks() {
		inner, err := deps.NewFetcher(FetcherConfig{Renderer: c.Renderer, Timeout: c.Timeout})
		if err != nil {
			return err
		}
		fetcher := lsslog.NewLoggingFetcher(inner, logger)
		defer fetcher.Close()

		runner.Backlinker = &scan.Backlinker{
			Fetcher:    fetcher,
			Extractor:  goquery.NewResultExtractor(),
			Decoder:    bing.NewDecoder(),
			Classifier: goquery.NewClassifier(),
			Limiter:    scan.NewDomainLimiter(c.Delay, scan.WithJitter(c.Jitter)),
			Logger:     logger,
		}
	}

	if opts.Mode.IncludesWayback() {
		index := deps.ArchiveIndex
		if index == nil {
			index = lshttp.NewArchiveIndex()
		}
		runner.Archiver = &scan.Archiver{
			Index:  lsslog.NewLoggingArchiveIndex(index, logger),
			Logger: logger,
		}
	}

	results, err := runner.Run(deps.Ctx, domains, opts)
	console.Summary(results, files.Path)
	return err
}

// newLogger returns a text logger on w at info level, or debug when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
