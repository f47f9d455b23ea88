package core

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/queue"

	"github.com/jaeles-project/gofuzzer/internal/netutil"
	"github.com/jaeles-project/gofuzzer/internal/registry"
)

const requestedKey = "requested"

// Crawler walks same-origin anchor links breadth first from a base URL.
type Crawler struct {
	Client   HTTPClient
	MaxPages int
	Sitemap  bool
	Stats    *ScanStats
}

func NewCrawler(client HTTPClient, maxPages int) *Crawler {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Crawler{Client: client, MaxPages: maxPages}
}

// Crawl returns the pages it fetched, in fetch order. Pages that fail to
// load are skipped; only an unusable base URL is an error.
func (crawler *Crawler) Crawl(ctx context.Context, baseURL string) ([]string, error) {
	site, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	maxPages := crawler.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	origin, err := netutil.Origin(site.String())
	if err != nil {
		return nil, err
	}
	seed := strings.TrimRight(netutil.StripFragment(site.String()), "/")
	Logger.Infof("Start crawling: %s", seed)

	c := colly.NewCollector(
		colly.IgnoreRobotsTxt(),
		colly.AllowURLRevisit(),
		colly.AllowedDomains(site.Hostname()),
	)
	hc := crawler.Client.Client()
	c.WithTransport(hc.Transport)
	if hc.Jar != nil {
		c.SetCookieJar(hc.Jar)
	} else {
		c.DisableCookies()
	}
	if hc.Timeout > 0 {
		c.SetRequestTimeout(hc.Timeout)
	}
	c.ParseHTTPErrorResponse = true
	c.URLFilters = append(c.URLFilters, originFilter(origin))
	// colly checks only the hostname on redirects.
	c.SetRedirectHandler(sameOriginRedirects(site))

	q, err := queue.New(1, &queue.InMemoryQueueStorage{MaxSize: 100000})
	if err != nil {
		return nil, fmt.Errorf("create crawl queue: %w", err)
	}

	visited := registry.NewPageSet()
	var order []string

	c.OnRequest(func(r *colly.Request) {
		raw := r.URL.String()
		if ctx.Err() != nil || visited.Len() >= maxPages || visited.Contains(raw) {
			r.Abort()
			return
		}
		r.Ctx.Put(requestedKey, raw)
		crawler.Stats.IncrementRequestsMade()
	})

	c.OnResponse(func(r *colly.Response) {
		requested := r.Ctx.Get(requestedKey)
		if requested == "" {
			requested = r.Request.URL.String()
		}
		if visited.Add(requested) {
			order = append(order, requested)
			Logger.Debugf("[page] - [code-%d] - %s", r.StatusCode, requested)
		}
	})

	c.OnHTML("a[href]", func(e *colly.HTMLElement) {
		link, ok := NormalizeURL(e.Request.URL, e.Attr("href"))
		if !ok {
			return
		}
		u, err := url.Parse(link)
		if err != nil || !netutil.SameOrigin(site, u) || visited.Contains(link) {
			return
		}
		if err := q.AddURL(link); err != nil {
			Logger.Debugf("Failed to queue %s: %s", link, err)
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		crawler.Stats.IncrementErrors()
		Logger.Debugf("Error request: %s - Status code: %v - Error: %s", r.Request.URL.String(), r.StatusCode, err)
	})

	if err := q.AddURL(seed); err != nil {
		return nil, fmt.Errorf("queue %s: %w", seed, err)
	}
	if crawler.Sitemap {
		for _, loc := range crawler.sitemapURLs(ctx, site, origin) {
			if err := q.AddURL(loc); err != nil {
				Logger.Debugf("Failed to queue %s: %s", loc, err)
			}
		}
	}
	if err := q.Run(c); err != nil {
		return order, fmt.Errorf("crawl %s: %w", seed, err)
	}

	crawler.Stats.AddPagesFound(len(order))
	Logger.Infof("Crawled %d pages from %s", len(order), seed)
	return order, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	site, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	switch strings.ToLower(site.Scheme) {
	case "http", "https":
	default:
		return nil, fmt.Errorf("base url %q must be http or https", raw)
	}
	if site.Host == "" {
		return nil, fmt.Errorf("base url %q has no host", raw)
	}
	return site, nil
}

// originFilter matches URLs under origin (scheme://host).
func originFilter(origin string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(origin) + `(?:[/?#]|$)`)
}
