package core

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"

	"golang.org/x/net/publicsuffix"
)

// SessionClient keeps cookies across requests in a jar, like a browser
// session. Authentication providers return one of these.
type SessionClient struct {
	*baseClient
	jar *cookiejar.Jar
}

func NewSessionClient(opts ClientOptions) (*SessionClient, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	base, err := newBaseClient(opts)
	if err != nil {
		return nil, err
	}
	base.http.Jar = jar

	if opts.Cookie != "" && opts.Target != "" {
		u, err := url.Parse(opts.Target)
		if err != nil {
			return nil, fmt.Errorf("parse target %q: %w", opts.Target, err)
		}
		preset := parseCookieLine(opts.Cookie)
		for _, c := range preset {
			c.Path = "/"
		}
		jar.SetCookies(u, preset)
	}
	return &SessionClient{baseClient: base, jar: jar}, nil
}

// CurrentCookies lists the jar's cookies for rawURL followed by any
// active overrides.
func (c *SessionClient) CurrentCookies(rawURL string) []string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	return dedupeNames(append(cookieNames(c.jar.Cookies(u)), c.overrides.Names()...))
}

// StatelessClient carries no jar. Cookies are only what --cookie presets
// and what SetCookie overrides, sent on every request.
type StatelessClient struct {
	*baseClient

	mu   sync.Mutex
	last []string
}

func NewStatelessClient(opts ClientOptions) (*StatelessClient, error) {
	base, err := newBaseClient(opts)
	if err != nil {
		return nil, err
	}
	for _, c := range parseCookieLine(opts.Cookie) {
		base.overrides.Set(c.Name, c.Value)
	}
	client := &StatelessClient{baseClient: base}
	base.observe = client.observe
	return client, nil
}

func (c *StatelessClient) observe(res *http.Response) {
	names := cookieNames(res.Cookies())
	c.mu.Lock()
	c.last = names
	c.mu.Unlock()
}

// CurrentCookies returns preset cookie names followed by the cookies set
// by the most recent response.
func (c *StatelessClient) CurrentCookies(string) []string {
	c.mu.Lock()
	last := append([]string(nil), c.last...)
	c.mu.Unlock()
	return dedupeNames(append(c.overrides.Names(), last...))
}

func cookieNames(cookies []*http.Cookie) []string {
	names := make([]string, 0, len(cookies))
	for _, c := range cookies {
		names = append(names, c.Name)
	}
	return dedupeNames(names)
}

func dedupeNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
