package core

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/jaeles-project/gofuzzer/internal/registry"
)

// Options is what one scan needs beyond its HTTP client.
type Options struct {
	Target         string
	MaxPages       int
	Sitemap        bool
	Words          []string
	Extensions     []string
	Payloads       []string
	Sensitive      []string
	SanitizedChars []string
	SlowThreshold  time.Duration
	Concurrency    int
	Rate           float64
}

// Discovery is the page set with the surface of every page.
type Discovery struct {
	Pages    []string
	Surfaces map[string]InputSurface
}

// Engine runs the discover and test pipelines against one target.
type Engine struct {
	ctx       context.Context
	cancel    context.CancelFunc
	opts      Options
	client    HTTPClient
	printer   *Printer
	stats     *ScanStats
	startTime time.Time
}

// NewEngine wires a scan. SIGINT and SIGTERM cancel the engine context so
// no new requests are scheduled.
func NewEngine(parent context.Context, client HTTPClient, opts Options, printer *Printer, stats *ScanStats) *Engine {
	if stats == nil {
		stats = NewScanStats()
	}
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	return &Engine{
		ctx:       ctx,
		cancel:    cancel,
		opts:      opts,
		client:    client,
		printer:   printer,
		stats:     stats,
		startTime: time.Now(),
	}
}

// Discover crawls, then guesses when words are configured, then enumerates
// every page of the union.
func (e *Engine) Discover() (*Discovery, error) {
	crawler := NewCrawler(e.client, e.opts.MaxPages)
	crawler.Sitemap = e.opts.Sitemap
	crawler.Stats = e.stats
	crawled, err := crawler.Crawl(e.ctx, e.opts.Target)
	if err != nil {
		return nil, err
	}

	pages := registry.NewPageSet()
	pages.Merge(crawled)

	if len(e.opts.Words) > 0 && e.ctx.Err() == nil {
		guesser := NewPageGuesser(e.client)
		guesser.Stats = e.stats
		guessed := guesser.Guess(e.ctx, e.opts.Target, e.opts.Words, e.opts.Extensions)
		Logger.Infof("Guessed %d pages", len(guessed))
		pages.Merge(guessed)
	}

	enumerator := NewInputEnumerator(e.client)
	d := &Discovery{Pages: pages.Pages(), Surfaces: make(map[string]InputSurface)}
	for _, page := range d.Pages {
		if e.ctx.Err() != nil {
			break
		}
		d.Surfaces[page] = enumerator.Enumerate(e.ctx, page)
	}
	return d, e.ctx.Err()
}

// Report prints every page of d with its surface.
func (e *Engine) Report(d *Discovery) {
	for _, page := range d.Pages {
		e.printer.Surface(page, d.Surfaces[page])
	}
}

// Test runs discovery followed by the fuzz phase, printing findings as
// they are confirmed.
func (e *Engine) Test() error {
	d, err := e.Discover()
	if err != nil {
		return err
	}

	fuzzer := NewFuzzEngine(e.client, NewAnalyzer(e.opts.SanitizedChars, e.opts.Sensitive, e.opts.SlowThreshold), e.printer.Finding)
	fuzzer.Stats = e.stats
	fuzzer.Concurrency = e.opts.Concurrency
	if e.opts.Rate > 0 {
		fuzzer.Limiter = rate.NewLimiter(rate.Limit(e.opts.Rate), 1)
	}
	return fuzzer.Run(e.ctx, d.Pages, d.Surfaces, e.opts.Payloads)
}

// Shutdown releases the signal handler and logs run statistics.
func (e *Engine) Shutdown() {
	e.cancel()
	elapsed := time.Since(e.startTime)

	Logger.Info("Scan finished.")
	Logger.Infof("Time elapsed: %s", elapsed.Round(time.Millisecond))
	Logger.Infof("Requests made: %d", e.stats.GetRequestsMade())
	Logger.Infof("Pages found: %d", e.stats.GetPagesFound())
	Logger.Infof("Findings: %d", e.stats.GetFindings())
	Logger.Infof("Errors: %d", e.stats.GetErrors())
	Logger.Infof("RPS: %.2f", e.stats.GetRPS(elapsed))
}
