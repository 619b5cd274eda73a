package scan

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/fwojciec/linkscout"
	"golang.org/x/sync/errgroup"
)

// Options selects what a Runner scans for each domain.
type Options struct {
	Mode       linkscout.ScanMode
	Pages      int      // result pages per dork
	Extensions []string // archive URL extensions
}

// Validate checks options before any domain is scanned.
func (o Options) Validate() error {
	if err := o.Mode.Validate(); err != nil {
		return err
	}
	if o.Mode.IncludesBacklinks() && o.Pages < 1 {
		return linkscout.Errorf(linkscout.EINVALID, "pages must be at least 1, got %d", o.Pages)
	}
	return nil
}

// Result is the per-domain outcome of a Runner scan.
type Result struct {
	Domain    string
	Backlinks []string                  // sorted; nil when not scanned
	Archive   *linkscout.ExtensionBucket // nil when not scanned or failed
	Archived  int                       // archived URLs before filtering
	Errors    []error
}

// Runner scans domains one after another (or Concurrency at a time) and
// writes each result to Reports as it completes. A failure in one domain
// is recorded in its Result and never stops the others.
type Runner struct {
	Backlinker  *Backlinker
	Archiver    *Archiver
	Reports     linkscout.ReportWriter
	Concurrency int
	Logger      *slog.Logger
	Now         func() time.Time

	mu sync.Mutex
}

// Run scans every domain per opts and returns one Result per domain in
// input order. The returned error is non-nil only for invalid options or
// a canceled context; results gathered before cancellation are returned.
func (r *Runner) Run(ctx context.Context, domains []string, opts Options) ([]*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Mode.IncludesBacklinks() && r.Backlinker == nil {
		return nil, linkscout.Errorf(linkscout.EINTERNAL, "backlink scan requested without a backlinker")
	}
	if opts.Mode.IncludesWayback() && r.Archiver == nil {
		return nil, linkscout.Errorf(linkscout.EINTERNAL, "archive scan requested without an archiver")
	}

	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	results := make([]*Result, len(domains))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, domain := range domains {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			results[i] = r.scanDomain(gctx, domain, opts)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return compact(results), err
	}
	return results, nil
}

func (r *Runner) scanDomain(ctx context.Context, domain string, opts Options) *Result {
	log := loggerOrDiscard(r.Logger).With("domain", domain)
	res := &Result{Domain: domain}
	fail := func(msg string, err error) {
		log.Error(msg, "err", err)
		res.Errors = append(res.Errors, err)
	}

	log.Info("scan started", "mode", opts.Mode)
	if err := r.report(func() error { return r.Reports.Begin(ctx, domain, opts.Mode, r.now()) }); err != nil {
		fail("report could not be started", err)
	}

	if opts.Mode.IncludesBacklinks() {
		links, err := r.Backlinker.Run(ctx, domain, opts.Pages)
		if ctx.Err() != nil {
			return res
		}
		if err != nil {
			fail("backlink scan failed", err)
			links = NewLinkSet()
		}
		res.Backlinks = links.Sorted()
		log.Info("backlink scan finished", "found", len(res.Backlinks))
		if err := r.report(func() error { return r.Reports.WriteBacklinks(ctx, domain, res.Backlinks) }); err != nil {
			fail("backlinks could not be written", err)
		}
	}

	if opts.Mode.IncludesWayback() {
		r.scanArchive(ctx, log, domain, opts.Extensions, res, fail)
	}

	log.Info("scan finished", "errors", len(res.Errors))
	return res
}

func (r *Runner) scanArchive(ctx context.Context, log *slog.Logger, domain string, extensions []string, res *Result, fail func(string, error)) {
	if len(extensions) == 0 {
		log.Warn("no extensions given, skipping archive scan")
		return
	}

	ar, err := r.Archiver.Scan(ctx, domain, extensions)
	if err != nil {
		if ctx.Err() == nil {
			fail("archive scan failed, skipping", err)
		}
		return
	}
	res.Archived = ar.Total
	if ar.Total == 0 {
		log.Info("archive index has no URLs for domain")
		return
	}

	res.Archive = ar.Bucket
	log.Info("archive scan finished", "archived", ar.Total, "matched", ar.Bucket.Total())
	if err := r.report(func() error { return r.Reports.WriteArchive(ctx, domain, ar.Bucket) }); err != nil {
		fail("archive results could not be written", err)
	}
}

// report serialises writes so concurrent domains never interleave within
// a writer.
func (r *Runner) report(write func() error) error {
	if r.Reports == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return write()
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func compact(results []*Result) []*Result {
	out := results[:0]
	for _, res := range results {
		if res != nil {
			out = append(out, res)
		}
	}
	return out
}
