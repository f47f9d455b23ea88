package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/time/rate"

	"github.com/jaeles-project/gofuzzer/internal/netutil"
)

var ErrNoPayloads = errors.New("no payloads to send")

// FuzzEngine sends baseline and payload probes and reports what the
// analyzer finds, each (test id, category) at most once.
type FuzzEngine struct {
	Client      HTTPClient
	Analyzer    Analyzer
	Dedup       *Deduplicator
	Emit        func(Finding)
	Stats       *ScanStats
	Concurrency int
	Limiter     *rate.Limiter

	cookieMu sync.Mutex
}

func NewFuzzEngine(client HTTPClient, analyzer Analyzer, emit func(Finding)) *FuzzEngine {
	return &FuzzEngine{
		Client:      client,
		Analyzer:    analyzer,
		Dedup:       NewDeduplicator(),
		Emit:        emit,
		Concurrency: 1,
	}
}

// Run fetches every page once under its own test id, then probes each
// field of each page with each payload.
func (f *FuzzEngine) Run(ctx context.Context, pages []string, surfaces map[string]InputSurface, payloads []string) error {
	if len(payloads) == 0 {
		return ErrNoPayloads
	}
	if f.Dedup == nil {
		f.Dedup = NewDeduplicator()
	}
	sorted := append([]string(nil), pages...)
	sort.Strings(sorted)

	for _, page := range sorted {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		f.baseline(ctx, page)
	}

	targets := BuildTargets(sorted, surfaces, payloads)
	Logger.Infof("Sending %d probes across %d pages", len(targets), len(sorted))

	if f.Concurrency <= 1 {
		for _, target := range targets {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			f.execute(ctx, target)
		}
		return nil
	}

	pool, err := ants.NewPool(f.Concurrency)
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, target := range targets {
		if ctx.Err() != nil {
			break
		}
		target := target
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			f.execute(ctx, target)
		}); err != nil {
			wg.Done()
			Logger.Debugf("Failed to schedule probe %s: %s", target.TestID(), err)
		}
	}
	wg.Wait()
	return ctx.Err()
}

func (f *FuzzEngine) baseline(ctx context.Context, page string) {
	if !f.wait(ctx) {
		return
	}
	resp, err := f.Client.Fetch(ctx, page)
	if err != nil {
		Logger.Debugf("Baseline %s failed: %s", page, err)
		return
	}
	f.report(f.Analyzer.Analyze(page, resp, resp.Elapsed))
}

func (f *FuzzEngine) execute(ctx context.Context, target ProbeTarget) {
	if !f.wait(ctx) {
		return
	}
	resp, err := f.probe(ctx, target)
	if err != nil {
		Logger.Debugf("Probe %s failed: %s", target.TestID(), err)
		return
	}
	f.report(f.Analyzer.Analyze(target.TestID(), resp, resp.Elapsed))
}

func (f *FuzzEngine) probe(ctx context.Context, target ProbeTarget) (*Response, error) {
	switch target.Kind {
	case KindParams:
		probeURL, err := netutil.WithQueryValue(target.Page, target.Field, target.Payload)
		if err != nil {
			return nil, err
		}
		return f.Client.Fetch(ctx, probeURL)
	case KindForms:
		return f.Client.SubmitForm(ctx, target.Page, target.Field, target.Payload)
	case KindCookies:
		f.cookieMu.Lock()
		defer f.cookieMu.Unlock()
		restore := f.Client.SetCookie(target.Field, target.Payload)
		defer restore()
		return f.Client.Fetch(ctx, target.Page)
	}
	return nil, fmt.Errorf("unknown surface kind %q", target.Kind)
}

func (f *FuzzEngine) wait(ctx context.Context) bool {
	if f.Limiter == nil {
		return ctx.Err() == nil
	}
	return f.Limiter.Wait(ctx) == nil
}

func (f *FuzzEngine) report(findings []Finding) {
	for _, finding := range findings {
		if !f.Dedup.ShouldReport(finding.TestID, finding.Category) {
			continue
		}
		f.Stats.IncrementFindings()
		if f.Emit != nil {
			f.Emit(finding)
		}
	}
}
