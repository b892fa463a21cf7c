// Package bloom provides the probabilistic prefilter of the crawl's visited
// set.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter answers "definitely not seen" for URL strings.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter sizes a filter for n URLs at the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{f: bloom.NewWithEstimates(n, fpRate)}
}

// Add records url.
func (f *Filter) Add(url string) {
	f.f.AddString(url)
}

// MayContain returns false only if url was never added.
func (f *Filter) MayContain(url string) bool {
	return f.f.TestString(url)
}
