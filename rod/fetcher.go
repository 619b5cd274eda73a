// Package rod renders search result pages in headless Chrome using go-rod.
package rod

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fwojciec/linkscout"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds one page render, navigation through readiness.
const DefaultFetchTimeout = 30 * time.Second

// Ensure Fetcher implements linkscout.Fetcher at compile time.
var _ linkscout.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager       *BrowserManager
	managerOpts   []ManagerOption
	timeout       time.Duration
	userAgent     string
	waitSelectors []string
	isBlocked     func(html string) bool
	closed        atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the timeout for a single fetch.
// Defaults to DefaultFetchTimeout if not specified.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent pins the user agent for every session.
// By default each browser session presents its own random user agent.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithWaitSelector makes Fetch wait, after the load event, until an element
// matching any of the selectors exists. A page where none appear before the
// timeout is a fetch error rather than an empty page.
func WithWaitSelector(selectors ...string) Option {
	return func(f *Fetcher) {
		f.waitSelectors = append(f.waitSelectors, selectors...)
	}
}

// WithBlockDetector marks the current session as burned whenever a rendered
// page satisfies isBlocked, so the next fetch runs in a fresh browser. The
// HTML is still returned to the caller.
func WithBlockDetector(isBlocked func(html string) bool) Option {
	return func(f *Fetcher) {
		f.isBlocked = isBlocked
	}
}

// WithManagerOptions passes options to the underlying BrowserManager.
func WithManagerOptions(opts ...ManagerOption) Option {
	return func(f *Fetcher) {
		f.managerOpts = append(f.managerOpts, opts...)
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	manager, err := NewBrowserManager(f.managerOpts...)
	if err != nil {
		return nil, err
	}
	f.manager = manager

	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", linkscout.Errorf(linkscout.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	session := f.manager.Acquire()
	html, err := f.render(ctx, session, url)
	f.manager.Release(session, err == nil && f.isBlocked != nil && f.isBlocked(html))
	return html, err
}

func (f *Fetcher) render(ctx context.Context, session *Session, url string) (string, error) {
	page, err := session.Browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()

	ua := f.userAgent
	if ua == "" {
		ua = session.UserAgent
	}
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      ua,
		AcceptLanguage: "en-US,en;q=0.9",
	}); err != nil {
		return "", err
	}

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", err
	}

	if err := page.WaitLoad(); err != nil {
		return "", err
	}

	if len(f.waitSelectors) > 0 {
		race := page.Race()
		for _, sel := range f.waitSelectors {
			race = race.Element(sel)
		}
		if _, err := race.Do(); err != nil {
			return "", err
		}
	}

	return page.HTML()
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}

// Rotations returns how many times the browser session has been replaced.
func (f *Fetcher) Rotations() int {
	return f.manager.Rotations()
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}
