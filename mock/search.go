package mock

import "github.com/fwojciec/linkscout"

var _ linkscout.ResultExtractor = (*ResultExtractor)(nil)

// ResultExtractor is a mock implementation of linkscout.ResultExtractor.
type ResultExtractor struct {
	ExtractResultsFn func(html string) ([]string, error)
}

func (e *ResultExtractor) ExtractResults(html string) ([]string, error) {
	return e.ExtractResultsFn(html)
}

var _ linkscout.RedirectDecoder = (*RedirectDecoder)(nil)

// RedirectDecoder is a mock implementation of linkscout.RedirectDecoder.
type RedirectDecoder struct {
	DecodeFn func(rawLink string) linkscout.Decoded
}

func (d *RedirectDecoder) Decode(rawLink string) linkscout.Decoded {
	return d.DecodeFn(rawLink)
}

var _ linkscout.PageClassifier = (*PageClassifier)(nil)

// PageClassifier is a mock implementation of linkscout.PageClassifier.
type PageClassifier struct {
	ClassifyFn func(html string) linkscout.PageKind
}

func (c *PageClassifier) Classify(html string) linkscout.PageKind {
	return c.ClassifyFn(html)
}
