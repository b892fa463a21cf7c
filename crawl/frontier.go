package crawl

import (
	"sort"

	"github.com/fwojciec/site2pdf/bloom"
)

// Stack is a last-in-first-out frontier of URLs awaiting a fetch.
// Popping the most recent push makes traversal depth-first along the links
// in the order they were found. It is not safe for concurrent use.
type Stack struct {
	urls []string
}

// NewStack returns a stack holding the given URLs, the last one on top.
func NewStack(urls ...string) *Stack {
	return &Stack{urls: append([]string(nil), urls...)}
}

// Push appends a URL.
func (s *Stack) Push(url string) {
	s.urls = append(s.urls, url)
}

// Pop removes and returns the most recently pushed URL.
// The bool result is false if the stack is empty.
func (s *Stack) Pop() (string, bool) {
	n := len(s.urls)
	if n == 0 {
		return "", false
	}
	url := s.urls[n-1]
	s.urls = s.urls[:n-1]
	return url, true
}

// Len returns the number of URLs waiting.
func (s *Stack) Len() int {
	return len(s.urls)
}

// VisitedSet holds the URLs already fetched. URLs are compared as exact
// strings. A Bloom filter answers most negative lookups; the map behind it
// keeps every answer exact. It is not safe for concurrent use.
type VisitedSet struct {
	prefilter *bloom.Filter
	urls      map[string]struct{}
}

// NewVisitedSet creates a set whose prefilter is sized for n URLs
// with the given false positive rate.
func NewVisitedSet(n uint, fpRate float64) *VisitedSet {
	return &VisitedSet{
		prefilter: bloom.NewFilter(n, fpRate),
		urls:      make(map[string]struct{}),
	}
}

// Add records url. It returns false if url was already present.
func (v *VisitedSet) Add(url string) bool {
	if v.Contains(url) {
		return false
	}
	v.prefilter.Add(url)
	v.urls[url] = struct{}{}
	return true
}

// Contains reports whether url has been added.
func (v *VisitedSet) Contains(url string) bool {
	if !v.prefilter.MayContain(url) {
		return false
	}
	_, ok := v.urls[url]
	return ok
}

// Len returns the number of URLs in the set.
func (v *VisitedSet) Len() int {
	return len(v.urls)
}

// Sorted returns the URLs in lexicographic order.
func (v *VisitedSet) Sorted() []string {
	urls := make([]string, 0, len(v.urls))
	for url := range v.urls {
		urls = append(urls, url)
	}
	sort.Strings(urls)
	return urls
}
