package linkscout

import (
	"context"
	"errors"
	"time"
)

// ScanMode selects which scans run for each domain.
type ScanMode string

// Supported scan modes.
const (
	ScanBacklinks ScanMode = "backlinks"
	ScanWayback   ScanMode = "wayback"
	ScanAll       ScanMode = "all"
)

// Validate returns EINVALID unless m is one of the supported modes.
func (m ScanMode) Validate() error {
	switch m {
	case ScanBacklinks, ScanWayback, ScanAll:
		return nil
	}
	return Errorf(EINVALID, "invalid scan mode %q: must be one of backlinks, wayback, all", string(m))
}

// IncludesBacklinks reports whether the mode runs the search engine scan.
func (m ScanMode) IncludesBacklinks() bool {
	return m == ScanBacklinks || m == ScanAll
}

// IncludesWayback reports whether the mode runs the archive scan.
func (m ScanMode) IncludesWayback() bool {
	return m == ScanWayback || m == ScanAll
}

// ReportWriter persists scan results for a domain.
// Begin is called once per domain before any other method.
type ReportWriter interface {
	// Begin starts a new report for domain, discarding any previous one.
	Begin(ctx context.Context, domain string, mode ScanMode, at time.Time) error

	// WriteBacklinks appends the backlink section. Links are sorted.
	WriteBacklinks(ctx context.Context, domain string, links []string) error

	// WriteArchive appends the archive section.
	WriteArchive(ctx context.Context, domain string, bucket *ExtensionBucket) error
}

// Ensure MultiReportWriter implements ReportWriter at compile time.
var _ ReportWriter = MultiReportWriter(nil)

// MultiReportWriter fans out every call to each writer in order.
// All writers are called even when one fails; errors are joined.
type MultiReportWriter []ReportWriter

// Begin calls Begin on every writer.
func (m MultiReportWriter) Begin(ctx context.Context, domain string, mode ScanMode, at time.Time) error {
	var errs []error
	for _, w := range m {
		errs = append(errs, w.Begin(ctx, domain, mode, at))
	}
	return errors.Join(errs...)
}

// WriteBacklinks calls WriteBacklinks on every writer.
func (m MultiReportWriter) WriteBacklinks(ctx context.Context, domain string, links []string) error {
	var errs []error
	for _, w := range m {
		errs = append(errs, w.WriteBacklinks(ctx, domain, links))
	}
	return errors.Join(errs...)
}

// WriteArchive calls WriteArchive on every writer.
func (m MultiReportWriter) WriteArchive(ctx context.Context, domain string, bucket *ExtensionBucket) error {
	var errs []error
	for _, w := range m {
		errs = append(errs, w.WriteArchive(ctx, domain, bucket))
	}
	return errors.Join(errs...)
}
