package sqlite

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/linkscout"
)

// Ensure ReportWriter implements linkscout.ReportWriter at compile time.
var _ linkscout.ReportWriter = (*ReportWriter)(nil)

// ReportWriter records scan results as findings. Begin opens a scan for the
// domain; later writes attach findings to the most recent scan of that domain.
type ReportWriter struct {
	findings linkscout.FindingService

	mu    sync.Mutex
	scans map[string]string // domain → scan ID
}

// NewReportWriter creates a ReportWriter backed by findings.
func NewReportWriter(findings linkscout.FindingService) *ReportWriter {
	return &ReportWriter{
		findings: findings,
		scans:    make(map[string]string),
	}
}

// Begin records a new scan for domain.
func (w *ReportWriter) Begin(ctx context.Context, domain string, mode linkscout.ScanMode, at time.Time) error {
	scan := &linkscout.Scan{Domain: domain, Mode: mode, StartedAt: at}
	if err := w.findings.CreateScan(ctx, scan); err != nil {
		return err
	}
	w.mu.Lock()
	w.scans[domain] = scan.ID
	w.mu.Unlock()
	return nil
}

// WriteBacklinks records each link as a backlink finding.
func (w *ReportWriter) WriteBacklinks(ctx context.Context, domain string, links []string) error {
	scanID, err := w.scanID(domain)
	if err != nil {
		return err
	}
	findings := make([]*linkscout.Finding, 0, len(links))
	for _, link := range links {
		findings = append(findings, &linkscout.Finding{
			ScanID: scanID,
			Domain: domain,
			Source: linkscout.SourceBacklink,
			URL:    link,
		})
	}
	return w.findings.CreateFindings(ctx, findings)
}

// WriteArchive records each bucketed URL as a wayback finding tagged with
// its extension.
func (w *ReportWriter) WriteArchive(ctx context.Context, domain string, bucket *linkscout.ExtensionBucket) error {
	scanID, err := w.scanID(domain)
	if err != nil {
		return err
	}
	findings := make([]*linkscout.Finding, 0, bucket.Total())
	if bucket != nil {
		for _, ext := range bucket.Extensions {
			for _, u := range bucket.Get(ext) {
				findings = append(findings, &linkscout.Finding{
					ScanID:    scanID,
					Domain:    domain,
					Source:    linkscout.SourceWayback,
					Extension: ext,
					URL:       u,
				})
			}
		}
	}
	return w.findings.CreateFindings(ctx, findings)
}

func (w *ReportWriter) scanID(domain string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	id, ok := w.scans[domain]
	if !ok {
		return "", linkscout.Errorf(linkscout.EINVALID, "no scan started for %s", domain)
	}
	return id, nil
}
