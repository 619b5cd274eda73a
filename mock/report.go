package mock

import (
	"context"
	"time"

	"github.com/fwojciec/linkscout"
)

var _ linkscout.ReportWriter = (*ReportWriter)(nil)

// ReportWriter is a mock implementation of linkscout.ReportWriter.
type ReportWriter struct {
	BeginFn          func(ctx context.Context, domain string, mode linkscout.ScanMode, at time.Time) error
	WriteBacklinksFn func(ctx context.Context, domain string, links []string) error
	WriteArchiveFn   func(ctx context.Context, domain string, bucket *linkscout.ExtensionBucket) error
}

func (w *ReportWriter) Begin(ctx context.Context, domain string, mode linkscout.ScanMode, at time.Time) error {
	return w.BeginFn(ctx, domain, mode, at)
}

func (w *ReportWriter) WriteBacklinks(ctx context.Context, domain string, links []string) error {
	return w.WriteBacklinksFn(ctx, domain, links)
}

func (w *ReportWriter) WriteArchive(ctx context.Context, domain string, bucket *linkscout.ExtensionBucket) error {
	return w.WriteArchiveFn(ctx, domain, bucket)
}
