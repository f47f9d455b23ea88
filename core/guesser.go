package core

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jaeles-project/gofuzzer/internal/netutil"
	"github.com/jaeles-project/gofuzzer/internal/registry"
)

// PageGuesser probes <base>/<word><ext> candidates with HEAD requests.
type PageGuesser struct {
	Client HTTPClient
	Stats  *ScanStats
}

func NewPageGuesser(client HTTPClient) *PageGuesser {
	return &PageGuesser{Client: client}
}

// Guess returns the final URL of every candidate that answers 200 after
// redirects, sorted. Any other outcome drops the candidate.
func (g *PageGuesser) Guess(ctx context.Context, baseURL string, words, extensions []string) []string {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		Logger.Debugf("Skip guessing, bad base %s: %s", baseURL, err)
		return nil
	}
	found := registry.NewPageSet()
	for _, word := range words {
		for _, ext := range extensions {
			if ctx.Err() != nil {
				return found.Pages()
			}
			candidate, err := netutil.JoinPath(baseURL, word+ext)
			if err != nil {
				Logger.Debugf("Skip candidate %s%s: %s", word, ext, err)
				continue
			}
			resp, err := g.Client.Head(ctx, candidate)
			if err != nil {
				Logger.Debugf("Guess %s failed: %s", candidate, err)
				continue
			}
			if resp.StatusCode != http.StatusOK {
				continue
			}
			if final, err := url.Parse(resp.URL); err != nil || !netutil.SameOrigin(base, final) {
				continue
			}
			if found.Add(resp.URL) {
				Logger.Infof("[guessed] - %s", resp.URL)
			}
		}
	}
	g.Stats.AddPagesFound(found.Len())
	return found.Pages()
}
