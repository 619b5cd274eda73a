package scan

import (
	"sort"

	"github.com/fwojciec/linkscout/bloom"
)

// LinkSet sizing for the Bloom filter that short-circuits membership checks.
const (
	linkSetExpectedLinks     = 10000
	linkSetFalsePositiveRate = 0.01
)

// LinkSet is the deduplicated set of backlinks found for one domain.
// Links compare by exact string equality. The set only grows.
//
// LinkSet is not safe for concurrent use; each domain scan owns its own set.
type LinkSet struct {
	seen  *bloom.Filter
	links map[string]struct{}
}

// NewLinkSet creates an empty LinkSet.
func NewLinkSet() *LinkSet {
	return &LinkSet{
		seen:  bloom.NewFilter(linkSetExpectedLinks, linkSetFalsePositiveRate),
		links: make(map[string]struct{}),
	}
}

// Add inserts link and reports whether it was not already present.
func (s *LinkSet) Add(link string) bool {
	// A negative Bloom test is exact; the map is only consulted on a hit.
	if s.seen.TestAndAdd(link) {
		if _, ok := s.links[link]; ok {
			return false
		}
	}
	s.links[link] = struct{}{}
	return true
}

// Contains reports whether link is in the set.
func (s *LinkSet) Contains(link string) bool {
	if !s.seen.Test(link) {
		return false
	}
	_, ok := s.links[link]
	return ok
}

// Len returns the number of links in the set.
func (s *LinkSet) Len() int {
	return len(s.links)
}

// Sorted returns the links in lexical order.
func (s *LinkSet) Sorted() []string {
	links := make([]string, 0, len(s.links))
	for link := range s.links {
		links = append(links, link)
	}
	sort.Strings(links)
	return links
}
