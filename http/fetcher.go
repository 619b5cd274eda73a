// Package http provides net/http implementations of linkscout services:
// a static search page fetcher and the Wayback Machine CDX index client.
package http

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/corpix/uarand"
	"github.com/fwojciec/linkscout"
	"golang.org/x/net/publicsuffix"
)

// DefaultFetchTimeout matches rod.DefaultFetchTimeout.
const DefaultFetchTimeout = 30 * time.Second

// DefaultMaxPageBytes bounds how much of a result page is read.
const DefaultMaxPageBytes = 4 << 20

// Ensure Fetcher implements linkscout.Fetcher at compile time.
var _ linkscout.Fetcher = (*Fetcher)(nil)

// Fetcher requests search result pages without running JavaScript. It keeps
// the search engine's cookies across requests, as a browser session would.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	maxBytes  int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for one page request, redirects included.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
// Defaults to a random desktop browser user agent chosen at construction.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxPageBytes caps the page body; longer bodies are truncated.
func WithMaxPageBytes(n int64) Option {
	return func(f *Fetcher) {
		f.maxBytes = n
	}
}

// NewFetcher creates a Fetcher with an empty cookie jar.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:  DefaultFetchTimeout,
		maxBytes: DefaultMaxPageBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.userAgent == "" {
		f.userAgent = uarand.GetRandom()
	}

	// cookiejar.New never returns an error.
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	f.client = &http.Client{
		Timeout: f.timeout,
		Jar:     jar,
	}

	return f
}

// Fetch returns the body of the page at url.
// Responses signalling throttling (429, 5xx) return EUNAVAILABLE. Other
// non-200 responses return EINVALID.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", linkscout.Errorf(linkscout.EINVALID, "invalid search url %q: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", linkscout.Errorf(linkscout.EUNAVAILABLE, "search request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		code := linkscout.EINVALID
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			code = linkscout.EUNAVAILABLE
		}
		return "", linkscout.Errorf(code, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", linkscout.Errorf(linkscout.EUNAVAILABLE, "reading search page: %v", err)
	}

	return string(body), nil
}

// Close releases idle connections.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}
