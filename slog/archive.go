package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/linkscout"
)

// Ensure LoggingArchiveIndex implements linkscout.ArchiveIndex.
var _ linkscout.ArchiveIndex = (*LoggingArchiveIndex)(nil)

// LoggingArchiveIndex wraps an ArchiveIndex with debug logging.
type LoggingArchiveIndex struct {
	next   linkscout.ArchiveIndex
	logger *slog.Logger
}

// NewLoggingArchiveIndex creates a new LoggingArchiveIndex.
func NewLoggingArchiveIndex(next linkscout.ArchiveIndex, logger *slog.Logger) *LoggingArchiveIndex {
	return &LoggingArchiveIndex{next: next, logger: logger}
}

// FetchURLs delegates to the wrapped index and logs the operation.
func (a *LoggingArchiveIndex) FetchURLs(ctx context.Context, domain string) (urls []string, err error) {
	defer func(begin time.Time) {
		a.logger.Debug("archive query",
			"domain", domain,
			"count", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.FetchURLs(ctx, domain)
}
