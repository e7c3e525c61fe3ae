// Package bloom provides probabilistic URL deduplication for link discovery.
package bloom

import (
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
)

// Filter remembers URLs that were already queued. URLs are compared
// without their fragment.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected URLs
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add records url.
func (f *Filter) Add(url string) {
	f.f.AddString(Normalize(url))
}

// Test returns true if url might have been added.
// False positives are possible; false negatives are not.
func (f *Filter) Test(url string) bool {
	return f.f.TestString(Normalize(url))
}

// TestAndAdd records url and reports whether it might have been added
// before.
func (f *Filter) TestAndAdd(url string) bool {
	return f.f.TestAndAddString(Normalize(url))
}

// EstimatedCount returns the approximate number of URLs in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}

// Normalize strips the fragment from url.
func Normalize(url string) string {
	if i := strings.IndexByte(url, '#'); i != -1 {
		return url[:i]
	}
	return url
}
