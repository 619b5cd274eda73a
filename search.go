package linkscout

import (
	"strings"
)

// ResultsPerPage is the number of organic results on one search result page.
const ResultsPerPage = 10

// DefaultDorks is the ordered list of dork templates used by a backlink scan.
// Each "{domain}" placeholder is replaced with the target domain.
var DefaultDorks = []string{
	`intext:"{domain}"`,
	`inurl:"{domain}"`,
	`intitle:"{domain}"`,
	`"powered by {domain}"`,
	`"visit {domain}"`,
	`"source: {domain}"`,
	`filetype:pdf intext:"{domain}"`,
	`site:.gov intext:"{domain}"`,
	`site:.edu intext:"{domain}"`,
	`site:.org intext:"{domain}"`,
}

// SearchQuery identifies one page of search results for one dork.
type SearchQuery struct {
	Domain string
	Dork   string // instantiated dork, no placeholders
	Page   int    // zero-based
}

// NewSearchQuery instantiates template against domain for the given page.
func NewSearchQuery(domain, template string, page int) SearchQuery {
	return SearchQuery{
		Domain: domain,
		Dork:   InstantiateDork(template, domain),
		Page:   page,
	}
}

// InstantiateDork replaces every "{domain}" placeholder in template.
func InstantiateDork(template, domain string) string {
	return strings.ReplaceAll(template, "{domain}", domain)
}

// Query returns the search string: the linkfromdomain: directive followed by the dork.
func (q SearchQuery) Query() string {
	return strings.TrimSpace("linkfromdomain:" + q.Domain + " " + q.Dork)
}

// Offset returns the 1-based index of the first result on the page.
func (q SearchQuery) Offset() int {
	return q.Page*ResultsPerPage + 1
}

// ResultExtractor pulls raw result links out of rendered search result markup.
type ResultExtractor interface {
	// ExtractResults returns the destination attribute of every result entry
	// in document order. Entries without a link are skipped.
	ExtractResults(html string) ([]string, error)
}

// Decoded is the outcome of decoding one raw result link.
// URL is always usable: on failure it holds the original raw link.
type Decoded struct {
	URL string

	// Wrapped reports whether the raw link was a redirect wrapper.
	Wrapped bool

	// Fallback reports whether decoding failed and URL is the raw link.
	Fallback bool

	// Err describes why decoding fell back. Nil unless Fallback is set.
	Err error
}

// RedirectDecoder resolves search engine click-tracking links to their destination.
type RedirectDecoder interface {
	Decode(rawLink string) Decoded
}

// PageKind describes what a rendered search page contains.
type PageKind int

// Page kinds reported by a PageClassifier.
const (
	// PageUnknown is a page without recognizable result markup, typically
	// one that failed to finish rendering.
	PageUnknown PageKind = iota

	// PageResults is a page with at least one result entry.
	PageResults

	// PageNoResults is a fully rendered page whose query matched nothing.
	PageNoResults

	// PageBlocked is an anti-bot challenge served instead of results.
	PageBlocked
)

// String returns a lowercase name for the page kind.
func (k PageKind) String() string {
	switch k {
	case PageResults:
		return "results"
	case PageNoResults:
		return "no-results"
	case PageBlocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// PageClassifier identifies the kind of a rendered search page.
type PageClassifier interface {
	Classify(html string) PageKind
}
