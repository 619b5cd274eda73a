// Package slog provides logging decorators for linkscout services.
package slog

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/fwojciec/linkscout"
)

// Ensure LoggingFetcher implements linkscout.Fetcher.
var _ linkscout.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher logs every search page fetch at debug level and a summary
// of the session when closed.
type LoggingFetcher struct {
	next     linkscout.Fetcher
	logger   *slog.Logger
	fetches  atomic.Int64
	failures atomic.Int64
	bytes    atomic.Int64
}

// NewLoggingFetcher wraps next.
func NewLoggingFetcher(next linkscout.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher. Each entry carries a sequence
// number so interleaved logs from concurrent scans can be told apart.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	seq := f.fetches.Add(1)
	defer func(begin time.Time) {
		if err != nil {
			f.failures.Add(1)
		}
		f.bytes.Add(int64(len(html)))
		f.logger.Debug("fetch",
			"seq", seq,
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher and logs fetch totals.
func (f *LoggingFetcher) Close() error {
	err := f.next.Close()
	f.logger.Debug("fetcher closed",
		"fetches", f.fetches.Load(),
		"failures", f.failures.Load(),
		"bytes", f.bytes.Load(),
		"err", err,
	)
	return err
}
