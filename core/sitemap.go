package core

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	sitemap "github.com/oxffaa/gopher-parse-sitemap"

	"github.com/jaeles-project/gofuzzer/internal/netutil"
)

// sitemapURLs reads /sitemap.xml at the site root and returns its
// same-origin locations. A missing or broken sitemap yields nothing.
func (crawler *Crawler) sitemapURLs(ctx context.Context, site *url.URL, origin string) []string {
	sitemapURL := origin + "/sitemap.xml"
	resp, err := crawler.Client.Fetch(ctx, sitemapURL)
	if err != nil {
		Logger.Debugf("Failed to fetch sitemap %s: %s", sitemapURL, err)
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		Logger.Debugf("No sitemap at %s (status %d)", sitemapURL, resp.StatusCode)
		return nil
	}

	var urls []string
	err = sitemap.Parse(strings.NewReader(resp.Body), func(e sitemap.Entry) error {
		link, ok := NormalizeURL(site, e.GetLocation())
		if !ok {
			return nil
		}
		if u, err := url.Parse(link); err == nil && netutil.SameOrigin(site, u) {
			urls = append(urls, link)
		}
		return nil
	})
	if err != nil {
		Logger.Debugf("Failed to parse sitemap %s: %s", sitemapURL, err)
	}
	Logger.Infof("Sitemap %s listed %d urls", sitemapURL, len(urls))
	return urls
}
