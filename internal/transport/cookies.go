package transport

import (
	"net/http"
	"strings"
	"sync"
)

// CookieOverrides replaces cookies by name on every outgoing request. Values
// are written into the Cookie header as given, without the escaping that
// http.Cookie applies, so payloads reach the server byte for byte.
type CookieOverrides struct {
	mu     sync.Mutex
	order  []string
	values map[string]string
}

func NewCookieOverrides() *CookieOverrides {
	return &CookieOverrides{values: make(map[string]string)}
}

// Set installs name=value and returns the previous override, if any.
func (o *CookieOverrides) Set(name, value string) (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	prev, had := o.values[name]
	if !had {
		o.order = append(o.order, name)
	}
	o.values[name] = value
	return prev, had
}

func (o *CookieOverrides) Remove(name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.values[name]; !ok {
		return
	}
	delete(o.values, name)
	for i, n := range o.order {
		if n == name {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
}

// Names lists the overridden cookie names in the order they were first set.
func (o *CookieOverrides) Names() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.order...)
}

// rewrite drops every pair of header whose name is overridden and appends
// the overrides. ok is false when there is nothing to override.
func (o *CookieOverrides) rewrite(header string) (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.order) == 0 {
		return header, false
	}

	parts := make([]string, 0, len(o.order)+4)
	for _, pair := range strings.Split(header, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, _, _ := strings.Cut(pair, "=")
		if _, overridden := o.values[strings.TrimSpace(name)]; overridden {
			continue
		}
		parts = append(parts, pair)
	}
	for _, name := range o.order {
		parts = append(parts, name+"="+o.values[name])
	}
	return strings.Join(parts, "; "), true
}

// cookieRoundTripper sits below the client's jar handling, so the header it
// rewrites already holds the jar's cookies for the request URL.
type cookieRoundTripper struct {
	base    http.RoundTripper
	cookies *CookieOverrides
}

func (rt *cookieRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	header, ok := rt.cookies.rewrite(strings.Join(req.Header.Values("Cookie"), "; "))
	if !ok {
		return rt.base.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	req.Header.Set("Cookie", header)
	return rt.base.RoundTrip(req)
}
