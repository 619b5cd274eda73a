// Package bing implements Bing-specific pieces of the backlink scan:
// search URL construction and decoding of /ck/a click-tracking links.
package bing

import (
	"encoding/base64"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/linkscout"
)

// DefaultHost is the search engine host queried by default.
const DefaultHost = "www.bing.com"

// Domain is the registrable domain of the search engine. Result links on
// this domain are redirect artifacts, not backlinks.
const Domain = "bing.com"

// redirectPath is the path of Bing's click-tracking redirect endpoint.
const redirectPath = "/ck/a"

// destinationParam carries the encoded destination in a redirect link.
const destinationParam = "u"

// encodingPrefix is prepended by Bing to the base64 destination.
const encodingPrefix = "a1"

// SearchURL returns the result page URL for q on host.
func SearchURL(host string, q linkscout.SearchQuery) string {
	if host == "" {
		host = DefaultHost
	}
	return "https://" + host + "/search?q=" + url.QueryEscape(q.Query()) + "&first=" + strconv.Itoa(q.Offset())
}

// IsRedirect reports whether u is a Bing click-tracking redirect link.
func IsRedirect(u *url.URL) bool {
	if u == nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host != Domain && !strings.HasSuffix(host, "."+Domain) {
		return false
	}
	return u.Path == redirectPath
}

// Ensure Decoder implements linkscout.RedirectDecoder at compile time.
var _ linkscout.RedirectDecoder = (*Decoder)(nil)

// Decoder resolves Bing redirect links to their destination URL.
// Decoder is stateless and safe for concurrent use.
type Decoder struct{}

// NewDecoder creates a new Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode returns the destination of rawLink.
//
// Links that are not redirect wrappers are percent-decoded once. Redirect
// links have their "u" parameter decoded: the "a1" prefix is stripped, base64
// padding restored, the URL-safe alphabet translated, and the result
// percent-decoded once more. Any failure falls back to rawLink unchanged.
func (d *Decoder) Decode(rawLink string) linkscout.Decoded {
	u, err := url.Parse(rawLink)
	if err != nil || !IsRedirect(u) {
		return linkscout.Decoded{URL: unquote(rawLink)}
	}

	encoded := u.Query().Get(destinationParam)
	if encoded == "" {
		return fallback(rawLink, true, linkscout.Errorf(linkscout.EINVALID, "redirect link has no %q parameter", destinationParam))
	}

	dest, err := decodeDestination(encoded)
	if err != nil {
		return fallback(rawLink, true, err)
	}
	return linkscout.Decoded{URL: dest, Wrapped: true}
}

func fallback(rawLink string, wrapped bool, err error) linkscout.Decoded {
	return linkscout.Decoded{URL: rawLink, Wrapped: wrapped, Fallback: true, Err: err}
}

var urlSafeToStd = strings.NewReplacer("-", "+", "_", "/")

// decodeDestination decodes the value of a redirect link's "u" parameter.
func decodeDestination(encoded string) (string, error) {
	encoded = strings.TrimPrefix(encoded, encodingPrefix)

	// Bing omits base64 padding.
	if r := len(encoded) % 4; r != 0 {
		encoded += strings.Repeat("=", 4-r)
	}

	b, err := base64.StdEncoding.DecodeString(urlSafeToStd.Replace(encoded))
	if err != nil {
		return "", linkscout.Errorf(linkscout.EINVALID, "invalid base64 destination: %v", err)
	}
	if !utf8.Valid(b) {
		return "", linkscout.Errorf(linkscout.EINVALID, "destination is not valid UTF-8")
	}

	return unquote(string(b)), nil
}

// unquote decodes each valid %XX escape in s once. A '%' not followed by two
// hex digits is kept literally, and '+' is not treated as a space. Bytes that
// do not form valid UTF-8 after decoding become U+FFFD.
func unquote(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
			continue
		}
		b.WriteByte(s[i])
	}
	return strings.ToValidUTF8(b.String(), "\uFFFD")
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case c >= 'a':
		return c - 'a' + 10
	case c >= 'A':
		return c - 'A' + 10
	default:
		return c - '0'
	}
}
