package stringset

import (
	"strings"
	"sync"
)

// StringFilter remembers strings it has seen. Safe for concurrent use.
type StringFilter struct {
	mu   sync.Mutex
	fold bool
	m    map[string]struct{}
}

// NewStringFilter returns a case-insensitive filter.
func NewStringFilter() *StringFilter {
	return &StringFilter{fold: true, m: make(map[string]struct{})}
}

// NewExactFilter returns a filter that compares strings byte for byte.
func NewExactFilter() *StringFilter {
	return &StringFilter{m: make(map[string]struct{})}
}

func (f *StringFilter) key(s string) string {
	if f.fold {
		return strings.ToLower(s)
	}
	return s
}

// Duplicate records s and reports whether it had been recorded before.
func (f *StringFilter) Duplicate(s string) bool {
	k := f.key(s)
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.m[k]; ok {
		return true
	}
	f.m[k] = struct{}{}
	return false
}

// Has reports whether s was recorded, without recording it.
func (f *StringFilter) Has(s string) bool {
	k := f.key(s)
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.m[k]
	return ok
}

func (f *StringFilter) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.m)
}
