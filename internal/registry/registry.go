package registry

import (
	"sort"
	"sync"

	"github.com/jaeles-project/gofuzzer/internal/netutil"
	"github.com/jaeles-project/gofuzzer/stringset"
)

// PageSet is the deduplicated set of discovered pages. Two URLs are the
// same page when their netutil.PageKey matches; the first spelling wins.
type PageSet struct {
	once   sync.Once
	mu     sync.Mutex
	filter *stringset.StringFilter
	pages  []string
}

func NewPageSet() *PageSet {
	return &PageSet{}
}

func (s *PageSet) ensure() {
	s.once.Do(func() {
		s.filter = stringset.NewExactFilter()
	})
}

// Add records raw and reports whether it was new.
func (s *PageSet) Add(raw string) bool {
	key := netutil.PageKey(raw)
	if key == "" {
		return false
	}
	s.ensure()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.filter.Duplicate(key) {
		return false
	}
	s.pages = append(s.pages, netutil.StripFragment(raw))
	return true
}

func (s *PageSet) Merge(pages []string) {
	for _, p := range pages {
		s.Add(p)
	}
}

func (s *PageSet) Contains(raw string) bool {
	s.ensure()
	return s.filter.Has(netutil.PageKey(raw))
}

func (s *PageSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pages)
}

// Pages returns a sorted copy.
func (s *PageSet) Pages() []string {
	s.mu.Lock()
	out := make([]string, len(s.pages))
	copy(out, s.pages)
	s.mu.Unlock()
	sort.Strings(out)
	return out
}
