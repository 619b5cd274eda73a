package rod

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/corpix/uarand"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the default number of pages a session renders before
// it is rotated.
const DefaultMaxPages = 75

// Session is one launched browser together with the identity it presents
// to the search engine.
type Session struct {
	Browser   *rod.Browser
	UserAgent string

	launcher *launcher.Launcher
	pages    atomic.Int64
	burned   atomic.Bool

	// Guarded by BrowserManager.mu.
	inflight int
	retired  bool
}

// BrowserManager hands out browser sessions and rotates them. A session is
// replaced after it has rendered maxPages pages or after a fetch reported it
// as burned. The replacement gets a fresh profile and user agent.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	current    *Session
	maxPages   int64
	noSandbox  bool
	userAgents func() string
	rotations  int
	mu         sync.Mutex
	closed     atomic.Bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets the number of pages a session renders before rotation.
// Defaults to DefaultMaxPages if not specified.
func WithMaxPages(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// WithNoSandbox disables the Chrome sandbox. Required when running as root
// inside containers.
func WithNoSandbox(disable bool) ManagerOption {
	return func(bm *BrowserManager) {
		bm.noSandbox = disable
	}
}

// WithUserAgentSource sets the function that picks each session's user
// agent. Defaults to a random desktop browser user agent.
func WithUserAgentSource(fn func() string) ManagerOption {
	return func(bm *BrowserManager) {
		bm.userAgents = fn
	}
}

// NewBrowserManager launches the first session.
// Close must be called when the BrowserManager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{
		maxPages:   DefaultMaxPages,
		userAgents: uarand.GetRandom,
	}
	for _, opt := range opts {
		opt(bm)
	}

	s, err := bm.launch()
	if err != nil {
		return nil, err
	}
	bm.current = s

	return bm, nil
}

// Acquire returns the session to render the next page with. A session that
// is spent or burned is rotated first; if the replacement fails to launch
// the old session stays in service. Every Acquire must be paired with a
// Release.
func (bm *BrowserManager) Acquire() *Session {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	s := bm.current
	if s.burned.Load() || s.pages.Load() >= bm.maxPages {
		if next, err := bm.launch(); err == nil {
			bm.current = next
			bm.rotations++
			s.retired = true
			if s.inflight == 0 {
				_ = s.close()
			}
		}
	}

	bm.current.inflight++
	return bm.current
}

// Release records a rendered page against the session. A burned session is
// rotated on the next Acquire. A retired session's browser is closed once
// its last page is released.
func (bm *BrowserManager) Release(s *Session, burned bool) {
	s.pages.Add(1)
	if burned {
		s.burned.Store(true)
	}

	bm.mu.Lock()
	defer bm.mu.Unlock()
	s.inflight--
	if s.retired && s.inflight == 0 {
		_ = s.close()
	}
}

// Rotations returns how many times the session has been replaced.
func (bm *BrowserManager) Rotations() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	return bm.rotations
}

// Close shuts down the current session. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	if !bm.closed.CompareAndSwap(false, true) {
		return nil
	}

	bm.mu.Lock()
	defer bm.mu.Unlock()

	var err error
	if bm.current != nil {
		err = bm.current.close()
		bm.current = nil
	}
	return err
}

// launch starts a headless browser with automation markers suppressed.
func (bm *BrowserManager) launch() (*Session, error) {
	lnchr := launcher.New().
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-dev-shm-usage").
		Set("disable-renderer-backgrounding").
		Set("lang", "en-US").
		Leakless(true).
		Headless(true)
	if bm.noSandbox {
		lnchr = lnchr.NoSandbox(true)
	}

	u, err := lnchr.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return &Session{
		Browser:   browser,
		UserAgent: bm.userAgents(),
		launcher:  lnchr,
	}, nil
}

func (s *Session) close() error {
	err := s.Browser.Close()
	s.launcher.Kill()
	return err
}

// LauncherPID returns the process ID of the current session's launcher, or
// zero once closed.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.current == nil {
		return 0
	}
	return bm.current.launcher.PID()
}
