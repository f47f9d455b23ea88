package core

import "github.com/jaeles-project/gofuzzer/stringset"

// Deduplicator lets each (test id, category) pair through once per run.
type Deduplicator struct {
	seen *stringset.StringFilter
}

func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: stringset.NewExactFilter()}
}

// ShouldReport is true the first time a pair is seen and false afterwards.
func (d *Deduplicator) ShouldReport(testID, category string) bool {
	return !d.seen.Duplicate(testID + "\x00" + category)
}
