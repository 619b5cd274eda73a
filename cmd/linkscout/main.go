package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/linkscout"
	"github.com/fwojciec/linkscout/goquery"
	lshttp "github.com/fwojciec/linkscout/http"
	"github.com/fwojciec/linkscout/rod"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Services for end-to-end testing. When nil, real implementations are used.
	Fetcher      linkscout.Fetcher
	ArchiveIndex linkscout.ArchiveIndex
	Findings     linkscout.FindingService

	// Now returns the scan time recorded in reports.
	Now func() time.Time
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{Now: time.Now}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:          ctx,
		Stdout:       stdout,
		Stderr:       stderr,
		NewFetcher:   m.newFetcher,
		ArchiveIndex: m.ArchiveIndex,
		Findings:     m.Findings,
		Now:          m.Now,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("linkscout"),
		kong.Description("Discover backlinks and archived files for target domains"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
		kong.Vars{
			"extensions": linkscout.DefaultExtensions,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no domain specified. Run 'linkscout --help' for usage")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	return kongCtx.Run(deps)
}

// newFetcher returns the injected fetcher or builds one for the renderer.
func (m *Main) newFetcher(cfg FetcherConfig) (linkscout.Fetcher, error) {
	if m.Fetcher != nil {
		return m.Fetcher, nil
	}

	switch cfg.Renderer {
	case RendererHTTP:
		return lshttp.NewFetcher(lshttp.WithTimeout(cfg.Timeout)), nil
	default:
		classifier := goquery.NewClassifier()
		f, err := rod.NewFetcher(
			rod.WithFetchTimeout(cfg.Timeout),
			rod.WithWaitSelector(goquery.ReadySelectors()...),
			rod.WithBlockDetector(func(html string) bool {
				return classifier.Classify(html) == linkscout.PageBlocked
			}),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to start browser (Chrome or Chromium must be installed): %w", err)
		}
		return f, nil
	}
}
