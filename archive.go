package linkscout

import (
	"context"
	"strings"
)

// DefaultExtensions is the default comma-separated extension list for archive scans.
const DefaultExtensions = ".zip,.sql,.bak,.rar,.tar.gz,.7z,.old,.backup"

// ArchiveIndex queries a historical web archive for all known URLs of a domain.
type ArchiveIndex interface {
	// FetchURLs returns every archived URL under *.<domain>/*, one per
	// collapsed URL key, in the order returned by the archive.
	// Returns EUNAVAILABLE on network failure and EINVALID on a malformed response.
	FetchURLs(ctx context.Context, domain string) ([]string, error)
}

// ExtensionBucket groups URLs by the file extension they end with.
type ExtensionBucket struct {
	// Extensions in the order they were checked.
	Extensions []string

	// URLs maps each extension to matching URLs in input order.
	URLs map[string][]string
}

// Get returns the URLs assigned to ext.
func (b *ExtensionBucket) Get(ext string) []string {
	if b == nil {
		return nil
	}
	return b.URLs[ext]
}

// Total returns the number of URLs across all extensions.
func (b *ExtensionBucket) Total() int {
	if b == nil {
		return 0
	}
	var n int
	for _, urls := range b.URLs {
		n += len(urls)
	}
	return n
}

// FilterByExtension assigns each URL to the first extension in the list it
// ends with, compared case-insensitively. URLs matching no extension are dropped.
//
// The first match wins, so with [".gz", ".tar.gz"] a "backup.tar.gz" URL lands
// in the ".gz" bucket.
func FilterByExtension(urls []string, extensions []string) *ExtensionBucket {
	b := &ExtensionBucket{URLs: make(map[string][]string, len(extensions))}

	lowered := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		if _, ok := b.URLs[ext]; ok || ext == "" {
			continue
		}
		b.URLs[ext] = []string{}
		b.Extensions = append(b.Extensions, ext)
		lowered = append(lowered, strings.ToLower(ext))
	}

	for _, u := range urls {
		lu := strings.ToLower(u)
		for i, ext := range lowered {
			if strings.HasSuffix(lu, ext) {
				key := b.Extensions[i]
				b.URLs[key] = append(b.URLs[key], u)
				break
			}
		}
	}

	return b
}

// ParseExtensions splits a comma-separated extension list.
// Whitespace is trimmed, empty entries and duplicates are dropped.
func ParseExtensions(s string) []string {
	seen := make(map[string]bool)
	var exts []string
	for _, part := range strings.Split(s, ",") {
		ext := strings.TrimSpace(part)
		if ext == "" || seen[ext] {
			continue
		}
		seen[ext] = true
		exts = append(exts, ext)
	}
	return exts
}
