package main

import (
	"fmt"

	"github.com/fwojciec/linkscout"
	"github.com/fwojciec/linkscout/sqlite"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	domain, err := NormalizeDomain(c.Domain)
	if err != nil {
		return err
	}

	findings := deps.Findings
	if findings == nil {
		db := sqlite.NewDB(c.DB)
		if err := db.Open(); err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Set LINKSCOUT_DB or --db to the database used by 'linkscout scan --db'")
			return fmt.Errorf("failed to open database at %q: %w", c.DB, err)
		}
		defer db.Close()
		findings = sqlite.NewFindingService(db)
	}

	filter := linkscout.FindingFilter{Domain: &domain, Limit: c.Limit}
	if c.Source != "all" {
		filter.Source = &c.Source
	}

	list, err := findings.FindFindings(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", linkscout.ErrorMessage(err))
		return err
	}

	if len(list) == 0 {
		fmt.Fprintf(deps.Stdout, "No findings recorded for %s. Use 'linkscout %s --scan all --db <path>' to record some.\n", domain, domain)
		return nil
	}

	for _, f := range list {
		ext := f.Extension
		if ext == "" {
			ext = "-"
		}
		fmt.Fprintf(deps.Stdout, "%s  %-8s  %-8s  %s\n", f.FoundAt.Format("2006-01-02 15:04:05"), f.Source, ext, f.URL)
	}

	return nil
}
