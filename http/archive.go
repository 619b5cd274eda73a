package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/linkscout"
)

// DefaultArchiveBaseURL is the Wayback Machine host serving the CDX API.
const DefaultArchiveBaseURL = "http://web.archive.org"

// DefaultArchiveTimeout bounds one CDX query, including reading the body.
const DefaultArchiveTimeout = 60 * time.Second

// cdxPath is the CDX search endpoint.
const cdxPath = "/cdx/search/cdx"

// Ensure ArchiveIndex implements linkscout.ArchiveIndex at compile time.
var _ linkscout.ArchiveIndex = (*ArchiveIndex)(nil)

// ArchiveIndex queries the Wayback Machine CDX API for archived URLs.
type ArchiveIndex struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
}

// ArchiveOption configures an ArchiveIndex.
type ArchiveOption func(*ArchiveIndex)

// WithArchiveTimeout sets the timeout for CDX queries.
// Defaults to DefaultArchiveTimeout if not specified.
func WithArchiveTimeout(d time.Duration) ArchiveOption {
	return func(a *ArchiveIndex) {
		a.timeout = d
	}
}

// WithArchiveBaseURL sets the scheme and host of the CDX API.
// Defaults to DefaultArchiveBaseURL if not specified.
func WithArchiveBaseURL(baseURL string) ArchiveOption {
	return func(a *ArchiveIndex) {
		a.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithArchiveClient sets the HTTP client. Its Timeout is overwritten by the
// configured archive timeout.
func WithArchiveClient(client *http.Client) ArchiveOption {
	return func(a *ArchiveIndex) {
		a.client = client
	}
}

// NewArchiveIndex creates a new CDX API client.
func NewArchiveIndex(opts ...ArchiveOption) *ArchiveIndex {
	a := &ArchiveIndex{
		baseURL: DefaultArchiveBaseURL,
		timeout: DefaultArchiveTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}

	client := &http.Client{}
	if a.client != nil {
		c := *a.client
		client = &c
	}
	client.Timeout = a.timeout
	a.client = client

	return a
}

// QueryURL returns the CDX request URL listing every URL under *.<domain>/*,
// one entry per collapsed URL key.
func (a *ArchiveIndex) QueryURL(domain string) string {
	return a.baseURL + cdxPath + "?url=*." + domain + "/*&output=json&fl=original&collapse=urlkey"
}

// FetchURLs returns every archived URL for domain in the order served.
//
// The response is a JSON array of rows whose first row is a header.
// Transport failures, timeouts and 5xx/429 responses return EUNAVAILABLE.
// Other error statuses and malformed or empty bodies return EINVALID.
func (a *ArchiveIndex) FetchURLs(ctx context.Context, domain string) ([]string, error) {
	if domain == "" {
		return nil, linkscout.Errorf(linkscout.EINVALID, "archive query requires a domain")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.QueryURL(domain), nil)
	if err != nil {
		return nil, linkscout.Errorf(linkscout.EINVALID, "invalid archive request for %s: %v", domain, err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, linkscout.Errorf(linkscout.EUNAVAILABLE, "archive request for %s failed: %v", domain, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		code := linkscout.EINVALID
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			code = linkscout.EUNAVAILABLE
		}
		return nil, linkscout.Errorf(code, "archive returned HTTP %d for %s", resp.StatusCode, domain)
	}

	urls, err := decodeRows(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	return urls, nil
}

// decodeRows streams a CDX JSON response, skipping the header row.
func decodeRows(r io.Reader) ([]string, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, linkscout.Errorf(linkscout.EINVALID, "empty archive response")
	}
	if err != nil {
		return nil, readError(err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, linkscout.Errorf(linkscout.EINVALID, "malformed archive response: expected array")
	}

	urls := []string{}
	header := true
	for dec.More() {
		var row []string
		if err := dec.Decode(&row); err != nil {
			return nil, readError(err)
		}
		if header {
			header = false
			continue
		}
		if len(row) == 0 || row[0] == "" {
			continue
		}
		urls = append(urls, row[0])
	}

	if _, err := dec.Token(); err != nil {
		return nil, readError(err)
	}

	return urls, nil
}

// readError classifies a failure while reading the body. Syntax and type
// errors mean a malformed document; anything else is a broken transfer.
func readError(err error) error {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) ||
		errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return linkscout.Errorf(linkscout.EINVALID, "malformed archive response: %v", err)
	}
	return linkscout.Errorf(linkscout.EUNAVAILABLE, "reading archive response: %v", err)
}
