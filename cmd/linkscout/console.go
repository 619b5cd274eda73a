package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/fwojciec/linkscout"
	"github.com/fwojciec/linkscout/scan"
)

// Ensure Console implements linkscout.ReportWriter at compile time.
var _ linkscout.ReportWriter = (*Console)(nil)

// Console reports scan progress and results to a terminal.
type Console struct {
	w io.Writer

	title *color.Color
	info  *color.Color
	good  *color.Color
	warn  *color.Color
	bad   *color.Color
}

// NewConsole creates a Console writing to w. Colour is used only when
// colored is true, independent of the terminal the process runs in.
func NewConsole(w io.Writer, colored bool) *Console {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return &Console{
		w:     w,
		title: mk(color.Bold, color.FgYellow),
		info:  mk(color.FgCyan),
		good:  mk(color.FgGreen),
		warn:  mk(color.FgYellow),
		bad:   mk(color.FgRed),
	}
}

// Begin prints the domain banner.
func (c *Console) Begin(_ context.Context, domain string, mode linkscout.ScanMode, _ time.Time) error {
	rule := strings.Repeat("=", 60)
	fmt.Fprintf(c.w, "\n%s\n", rule)
	c.title.Fprintf(c.w, "Processing Domain: %s", domain)
	fmt.Fprintf(c.w, " (%s)\n%s\n", mode, rule)
	return nil
}

// WriteBacklinks prints the backlinks found for domain.
func (c *Console) WriteBacklinks(_ context.Context, domain string, links []string) error {
	if len(links) == 0 {
		c.warn.Fprintf(c.w, "[-] No potential backlinks found for %s.\n", domain)
		return nil
	}
	c.good.Fprintf(c.w, "[+] Found a total of %d potential backlinks for %s:\n", len(links), domain)
	for _, link := range links {
		fmt.Fprintf(c.w, "  - %s\n", link)
	}
	return nil
}

// WriteArchive prints the per-extension archive matches for domain.
func (c *Console) WriteArchive(_ context.Context, domain string, bucket *linkscout.ExtensionBucket) error {
	total := bucket.Total()
	if total == 0 {
		c.warn.Fprintf(c.w, "[-] No files found matching the specified extensions for %s.\n", domain)
		return nil
	}
	c.good.Fprintf(c.w, "[+] Found %d URLs matching the specified extensions for %s.\n", total, domain)
	for _, ext := range bucket.Extensions {
		if n := len(bucket.Get(ext)); n > 0 {
			c.info.Fprintf(c.w, "    %s: %d\n", ext, n)
		}
	}
	return nil
}

// Summary prints one line per domain with counts and errors.
func (c *Console) Summary(results []*scan.Result, reportPath func(domain string) string) {
	fmt.Fprintln(c.w)
	for _, r := range results {
		line := fmt.Sprintf("%s: %d backlinks, %d archived files", r.Domain, len(r.Backlinks), r.Archive.Total())
		if reportPath != nil {
			line += " -> " + reportPath(r.Domain)
		}
		if len(r.Errors) > 0 {
			c.bad.Fprintf(c.w, "[!] %s (%d errors)\n", line, len(r.Errors))
			for _, err := range r.Errors {
				c.bad.Fprintf(c.w, "    %v\n", err)
			}
			continue
		}
		c.good.Fprintf(c.w, "[+] %s\n", line)
	}
	c.good.Fprintln(c.w, "All processing complete.")
}
