package scan

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/fwojciec/linkscout"
	"github.com/fwojciec/linkscout/bing"
)

// Backlinker paginates search dorks for a domain and collects the decoded
// result links that point away from the domain and the search engine.
type Backlinker struct {
	Fetcher    linkscout.Fetcher
	Extractor  linkscout.ResultExtractor
	Decoder    linkscout.RedirectDecoder
	Classifier linkscout.PageClassifier // optional, refines empty-page logging
	Limiter    linkscout.DomainLimiter  // optional, keyed by SearchHost
	Dorks      []string                 // defaults to linkscout.DefaultDorks
	SearchHost string                   // defaults to bing.DefaultHost
	Logger     *slog.Logger
}

// Run executes every dork against domain for up to maxPages result pages
// each and returns the discovered backlinks.
//
// A page fetch failure abandons the remaining pages of that dork and a page
// without results ends it; neither is returned as an error. Only context
// cancellation (and invalid arguments) make Run fail, in which case the
// links found so far are returned with the error.
func (b *Backlinker) Run(ctx context.Context, domain string, maxPages int) (*LinkSet, error) {
	if strings.TrimSpace(domain) == "" {
		return nil, linkscout.Errorf(linkscout.EINVALID, "domain required")
	}
	if maxPages < 1 {
		return nil, linkscout.Errorf(linkscout.EINVALID, "pages must be at least 1, got %d", maxPages)
	}

	dorks := b.Dorks
	if len(dorks) == 0 {
		dorks = linkscout.DefaultDorks
	}

	links := NewLinkSet()
	for _, dork := range dorks {
		for page := 0; page < maxPages; page++ {
			if err := ctx.Err(); err != nil {
				return links, err
			}
			more, err := b.scanPage(ctx, linkscout.NewSearchQuery(domain, dork, page), links)
			if err != nil {
				return links, err
			}
			if !more {
				break
			}
		}
	}
	return links, nil
}

// scanPage fetches and processes one result page. It reports whether the
// next page of the same dork should be requested. The only error it returns
// is a context error.
func (b *Backlinker) scanPage(ctx context.Context, q linkscout.SearchQuery, links *LinkSet) (bool, error) {
	host := b.searchHost()
	target := strings.ToLower(q.Domain)
	pageURL := bing.SearchURL(host, q)
	log := loggerOrDiscard(b.Logger).With("domain", q.Domain, "dork", q.Dork, "page", q.Page+1)

	if b.Limiter != nil {
		if err := b.Limiter.Wait(ctx, host); err != nil {
			return false, err
		}
	}

	html, err := b.Fetcher.Fetch(ctx, pageURL)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		log.Warn("search page fetch failed, skipping remaining pages", "url", pageURL, "err", err)
		return false, nil
	}

	raw, err := b.Extractor.ExtractResults(html)
	if err != nil {
		log.Warn("search page could not be parsed, skipping remaining pages", "url", pageURL, "err", err)
		return false, nil
	}

	if len(raw) == 0 {
		b.logEmptyPage(log, html)
		return false, nil
	}

	var added int
	for _, r := range raw {
		d := b.Decoder.Decode(r)
		if d.Fallback {
			log.Debug("redirect link not decoded, using raw link", "url", r, "err", d.Err)
		}
		if !isBacklink(d.URL, target) {
			continue
		}
		if links.Add(d.URL) {
			added++
		}
	}
	log.Info("search page scanned", "results", len(raw), "new", added, "total", links.Len())
	return true, nil
}

func (b *Backlinker) logEmptyPage(log *slog.Logger, html string) {
	kind := linkscout.PageNoResults
	if b.Classifier != nil {
		kind = b.Classifier.Classify(html)
	}
	switch kind {
	case linkscout.PageBlocked:
		log.Warn("search engine served a challenge page, stopping dork", "kind", kind)
	case linkscout.PageUnknown:
		log.Warn("search page has no recognizable results, stopping dork", "kind", kind)
	default:
		log.Info("no more results, stopping dork", "kind", kind)
	}
}

func (b *Backlinker) searchHost() string {
	if b.SearchHost != "" {
		return b.SearchHost
	}
	return bing.DefaultHost
}

// isBacklink reports whether link points somewhere other than the target
// domain and the search engine. Links without a host are rejected.
func isBacklink(link, target string) bool {
	host := linkHost(link)
	if host == "" {
		return false
	}
	return !strings.Contains(host, target) && !strings.Contains(host, bing.Domain)
}

// linkHost returns the lower-cased host of link, or "" if it has none. Only
// the scheme and authority are parsed, so a path, query or fragment that is
// not valid URL syntax (such as a stray '%') does not hide the host.
func linkHost(link string) string {
	i := strings.Index(link, "//")
	if i < 0 || strings.ContainsAny(link[:i], "/?#") {
		return ""
	}
	authority := link[i+2:]
	if end := strings.IndexAny(authority, "/?#"); end >= 0 {
		authority = authority[:end]
	}

	u, err := url.Parse(link[:i+2] + authority)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
