// Package bloom provides a probabilistic pre-check for link membership.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter is a Bloom filter over link strings. A negative answer is exact;
// a positive answer must be confirmed against an exact set.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a filter sized for n expected links at the given
// false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add records link in the filter.
func (f *Filter) Add(link string) {
	f.f.AddString(link)
}

// Test reports whether link may have been added.
func (f *Filter) Test(link string) bool {
	return f.f.TestString(link)
}

// TestAndAdd records link and reports whether it may have been added before.
func (f *Filter) TestAndAdd(link string) bool {
	return f.f.TestAndAddString(link)
}

// EstimatedCount returns the approximate number of distinct links added.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
