package transport

import (
	"math/rand"
	"net/http"
	"strings"
)

const DefaultUserAgent = "WebFuzzer"

var browserUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Safari/605.1.15",
}

// ResolveUserAgent maps the --user-agent value to a header value. Empty
// means the default; "random" picks a browser string.
func ResolveUserAgent(ua string) string {
	switch strings.ToLower(strings.TrimSpace(ua)) {
	case "":
		return DefaultUserAgent
	case "random":
		return browserUserAgents[rand.Intn(len(browserUserAgents))]
	default:
		return ua
	}
}

// ParseHeaders turns "Name: value" lines into a header set. Malformed lines
// are skipped.
func ParseHeaders(lines []string) http.Header {
	h := make(http.Header)
	for _, line := range lines {
		name, value, ok := strings.Cut(line, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			continue
		}
		h.Add(name, strings.TrimSpace(value))
	}
	return h
}

// headerRoundTripper stamps the user agent and custom headers on every
// request, including the ones issued by the crawler.
type headerRoundTripper struct {
	base      http.RoundTripper
	userAgent string
	headers   http.Header
}

func (rt *headerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", rt.userAgent)
	for name, values := range rt.headers {
		req.Header.Del(name)
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	return rt.base.RoundTrip(req)
}
