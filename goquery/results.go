// Package goquery implements HTML parsing of search result pages using goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/linkscout"
)

// Bing result page markers.
const (
	// resultSelector matches one organic result entry.
	resultSelector = "li.b_algo"

	// resultsContainerSelector matches the list holding all result entries.
	resultsContainerSelector = "#b_results"

	// noResultsSelector matches the entry Bing renders when a query has no results.
	noResultsSelector = "li.b_no"
)

// challengeSelectors match anti-bot challenge pages served instead of results.
var challengeSelectors = []string{
	"#b_captcha",
	"form[action*='captcha']",
	"iframe[src*='captcha']",
	"iframe[src*='turnstile']",
	"#turnstile-widget",
}

// ReadySelectors returns the selectors that mark a search page as fully
// rendered: the results container or a challenge page.
func ReadySelectors() []string {
	return append([]string{resultsContainerSelector}, challengeSelectors...)
}

// Ensure ResultExtractor implements linkscout.ResultExtractor at compile time.
var _ linkscout.ResultExtractor = (*ResultExtractor)(nil)

// ResultExtractor extracts result links from Bing search result pages.
type ResultExtractor struct{}

// NewResultExtractor creates a new ResultExtractor.
func NewResultExtractor() *ResultExtractor {
	return &ResultExtractor{}
}

// ExtractResults returns the href of the anchor inside each result heading,
// in document order. Entries without a heading, anchor or href are skipped.
func (e *ResultExtractor) ExtractResults(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, linkscout.Errorf(linkscout.EINVALID, "failed to parse HTML: %v", err)
	}

	var links []string
	doc.Find(resultSelector).Each(func(_ int, entry *goquery.Selection) {
		heading := entry.Find("h2").First()
		if heading.Length() == 0 {
			return
		}
		anchor := heading.Find("a").First()
		href, ok := anchor.Attr("href")
		if !ok {
			return
		}
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}
		links = append(links, href)
	})

	return links, nil
}
