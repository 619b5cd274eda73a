package main

import (
	"context"
	"io"
	"time"

	"github.com/fwojciec/linkscout"
)

// Renderers accepted by --renderer.
const (
	RendererBrowser = "browser"
	RendererHTTP    = "http"
)

// FetcherConfig describes the search page fetcher to build.
type FetcherConfig struct {
	Renderer string
	Timeout  time.Duration
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	NewFetcher   func(cfg FetcherConfig) (linkscout.Fetcher, error)
	ArchiveIndex linkscout.ArchiveIndex   // nil uses the Wayback Machine
	Findings     linkscout.FindingService // nil opens the database given by --db
	Now          func() time.Time
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Scan    ScanCmd    `cmd:"" default:"withargs" help:"Scan domains for backlinks and archived files (default)"`
	History HistoryCmd `cmd:"" help:"List findings recorded in the history database"`
}

// ScanCmd is the "scan" subcommand.
type ScanCmd struct {
	Domain      string        `arg:"" optional:"" help:"Target domain to scan"`
	File        string        `short:"f" help:"File with one domain per line"`
	Mode        string        `name:"scan" short:"s" required:"" enum:"backlinks,wayback,all" help:"Scan type: backlinks, wayback or all"`
	Pages       int           `short:"p" default:"1" help:"Result pages to crawl per dork"`
	Extensions  string        `short:"e" default:"${extensions}" help:"Comma-separated file extensions for the wayback scan"`
	Output      string        `short:"o" default:"." type:"path" help:"Directory for <domain>_analysis.txt reports"`
	DB          string        `env:"LINKSCOUT_DB" type:"path" help:"SQLite database to record findings in"`
	Delay       time.Duration `default:"2s" help:"Pause between search page requests"`
	Jitter      time.Duration `default:"0s" help:"Random extra pause, up to this long, added to each delay"`
	Timeout     time.Duration `short:"t" default:"30s" help:"Search page render timeout"`
	Concurrency int           `short:"c" default:"1" help:"Domains scanned in parallel"`
	Renderer    string        `default:"browser" enum:"browser,http" help:"Search page renderer: browser or http"`
	NoColor     bool          `help:"Disable coloured output"`
	Verbose     bool          `short:"v" help:"Log debug output to stderr"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	Domain string `arg:"" help:"Domain to list findings for"`
	DB     string `env:"LINKSCOUT_DB" required:"" type:"path" help:"SQLite database with recorded findings"`
	Source string `default:"all" enum:"all,backlink,wayback" help:"Only list findings from this source"`
	Limit  int    `short:"n" default:"0" help:"Maximum findings to list (0 for all)"`
}
