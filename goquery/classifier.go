package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/linkscout"
)

// Ensure Classifier implements linkscout.PageClassifier at compile time.
var _ linkscout.PageClassifier = (*Classifier)(nil)

// Classifier identifies what kind of page the search engine rendered.
// It tells apart genuine empty result pages from challenge pages and
// pages that never rendered the results list.
type Classifier struct{}

// NewClassifier creates a new Classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify analyzes HTML and returns the page kind.
func (c *Classifier) Classify(html string) linkscout.PageKind {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return linkscout.PageUnknown
	}

	// Challenges are checked first: they may be embedded in an otherwise normal layout.
	for _, sel := range challengeSelectors {
		if hasSelector(doc, sel) {
			return linkscout.PageBlocked
		}
	}

	if hasSelector(doc, resultSelector) {
		return linkscout.PageResults
	}

	if hasSelector(doc, noResultsSelector) || hasSelector(doc, resultsContainerSelector) {
		return linkscout.PageNoResults
	}

	return linkscout.PageUnknown
}

func hasSelector(doc *goquery.Document, selector string) bool {
	return doc.Find(selector).Length() > 0
}
