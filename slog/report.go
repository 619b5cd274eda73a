package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/linkscout"
)

// Ensure LoggingReportWriter implements linkscout.ReportWriter.
var _ linkscout.ReportWriter = (*LoggingReportWriter)(nil)

// LoggingReportWriter wraps a ReportWriter with debug logging for each
// section written.
type LoggingReportWriter struct {
	next   linkscout.ReportWriter
	name   string
	logger *slog.Logger
}

// NewLoggingReportWriter creates a new LoggingReportWriter. The name
// identifies the wrapped writer in log records.
func NewLoggingReportWriter(next linkscout.ReportWriter, name string, logger *slog.Logger) *LoggingReportWriter {
	return &LoggingReportWriter{next: next, name: name, logger: logger}
}

// Begin delegates to the wrapped writer and logs the operation.
func (w *LoggingReportWriter) Begin(ctx context.Context, domain string, mode linkscout.ScanMode, at time.Time) (err error) {
	defer w.log("report begin", domain, 0, time.Now(), &err)
	return w.next.Begin(ctx, domain, mode, at)
}

// WriteBacklinks delegates to the wrapped writer and logs the operation.
func (w *LoggingReportWriter) WriteBacklinks(ctx context.Context, domain string, links []string) (err error) {
	defer w.log("report backlinks", domain, len(links), time.Now(), &err)
	return w.next.WriteBacklinks(ctx, domain, links)
}

// WriteArchive delegates to the wrapped writer and logs the operation.
func (w *LoggingReportWriter) WriteArchive(ctx context.Context, domain string, bucket *linkscout.ExtensionBucket) (err error) {
	defer w.log("report archive", domain, bucket.Total(), time.Now(), &err)
	return w.next.WriteArchive(ctx, domain, bucket)
}

func (w *LoggingReportWriter) log(msg, domain string, count int, begin time.Time, err *error) {
	w.logger.Debug(msg,
		"writer", w.name,
		"domain", domain,
		"count", count,
		"duration", time.Since(begin),
		"err", *err,
	)
}
