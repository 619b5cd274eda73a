// Package fs provides file-based scan reports.
package fs

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/linkscout"
)

// ReportSuffix is appended to the sanitised domain to form a report file name.
const ReportSuffix = "_analysis.txt"

// dateLayout is the timestamp format of the report header.
const dateLayout = "2006-01-02 15:04:05"

// Ensure ReportWriter implements linkscout.ReportWriter at compile time.
var _ linkscout.ReportWriter = (*ReportWriter)(nil)

// ReportWriter writes one plain-text analysis report per domain into a
// directory. Begin starts a fresh report; later sections are appended.
type ReportWriter struct {
	dir string
}

// NewReportWriter creates a ReportWriter that writes into dir.
func NewReportWriter(dir string) *ReportWriter {
	return &ReportWriter{dir: dir}
}

// ReportFileName returns the report file name for domain.
// Characters other than letters, digits, '.', '-' and '_' become '_'.
// Example: example.com → example.com_analysis.txt
func ReportFileName(domain string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, domain)
	// Leading dots would hide the file or escape the directory.
	name = strings.TrimLeft(name, ".")
	if name == "" {
		name = "_"
	}
	return name + ReportSuffix
}

// Path returns the report path for domain.
func (w *ReportWriter) Path(domain string) string {
	return filepath.Join(w.dir, ReportFileName(domain))
}

// Begin creates or truncates the domain's report and writes its header.
func (w *ReportWriter) Begin(_ context.Context, domain string, _ linkscout.ScanMode, at time.Time) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	f, err := os.Create(w.Path(domain))
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	return write(f, func(b *bufio.Writer) {
		fmt.Fprintf(b, "Analysis Report for: %s\n", domain)
		fmt.Fprintf(b, "Date: %s\n\n", at.Format(dateLayout))
	})
}

// WriteBacklinks appends the backlinks section. Links are written in the
// order given.
func (w *ReportWriter) WriteBacklinks(_ context.Context, domain string, links []string) error {
	f, err := w.open(domain)
	if err != nil {
		return err
	}
	return write(f, func(b *bufio.Writer) {
		if len(links) == 0 {
			b.WriteString("--- Backlinks Found ---\nNo potential backlinks found.\n\n")
			return
		}
		fmt.Fprintf(b, "--- Backlinks Found (%d) ---\n", len(links))
		for _, link := range links {
			b.WriteString(link)
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	})
}

// WriteArchive appends the archive section with one block per extension
// that matched at least one URL, in the bucket's extension order.
func (w *ReportWriter) WriteArchive(_ context.Context, domain string, bucket *linkscout.ExtensionBucket) error {
	f, err := w.open(domain)
	if err != nil {
		return err
	}
	return write(f, func(b *bufio.Writer) {
		b.WriteString("--- Wayback Machine Results ---\n")
		if bucket.Total() == 0 {
			b.WriteString("No files found matching the specified extensions.\n")
		} else {
			for _, ext := range bucket.Extensions {
				urls := bucket.Get(ext)
				if len(urls) == 0 {
					continue
				}
				fmt.Fprintf(b, "\n[+] Found %d URLs with extension %s:\n", len(urls), ext)
				for _, u := range urls {
					b.WriteString(u)
					b.WriteByte('\n')
				}
			}
		}
		b.WriteByte('\n')
	})
}

func (w *ReportWriter) open(domain string) (*os.File, error) {
	f, err := os.OpenFile(w.Path(domain), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	return f, nil
}

// write buffers fn's output into f and closes it.
func write(f *os.File, fn func(b *bufio.Writer)) error {
	b := bufio.NewWriter(f)
	fn(b)
	if err := b.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	return nil
}
