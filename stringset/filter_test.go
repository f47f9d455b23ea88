package stringset

import (
	"strings"
	"sync"
	"testing"
)

func TestStringFilterDuplicateCaseInsensitive(t *testing.T) {
	filter := NewStringFilter()
	first := "https://example.com/piUtils.js?ver=1"
	if filter.Duplicate(first) {
		t.Fatalf("first insert should not be duplicate")
	}
	if !filter.Duplicate(first) {
		t.Fatalf("identical string should be duplicate")
	}
	lower := strings.ToLower(first)
	if !filter.Duplicate(lower) {
		t.Fatalf("case-insensitive match should be duplicate")
	}
}

func TestExactFilterKeepsCase(t *testing.T) {
	filter := NewExactFilter()
	if filter.Duplicate("PHPSESSID") {
		t.Fatalf("first insert should not be duplicate")
	}
	if filter.Duplicate("phpsessid") {
		t.Fatalf("exact filter must not fold case")
	}
	if !filter.Has("PHPSESSID") || filter.Len() != 2 {
		t.Fatalf("unexpected filter state: len=%d", filter.Len())
	}
}

func TestHasDoesNotRecord(t *testing.T) {
	filter := NewExactFilter()
	if filter.Has("a") {
		t.Fatalf("empty filter reported a hit")
	}
	if filter.Duplicate("a") {
		t.Fatalf("Has must not record the value")
	}
}

func TestDuplicateConcurrent(t *testing.T) {
	filter := NewExactFilter()
	var wg sync.WaitGroup
	var mu sync.Mutex
	fresh := 0
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !filter.Duplicate("same") {
				mu.Lock()
				fresh++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if fresh != 1 {
		t.Fatalf("expected exactly one first insert, got %d", fresh)
	}
}
