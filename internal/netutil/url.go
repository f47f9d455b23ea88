package netutil

import (
	"fmt"
	"net/url"
	"strings"
)

// StripFragment drops everything from the first '#'.
func StripFragment(raw string) string {
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		return raw[:i]
	}
	return raw
}

// PageKey is the identity used when comparing pages: fragment removed,
// trailing slashes trimmed.
func PageKey(raw string) string {
	return strings.TrimRight(StripFragment(strings.TrimSpace(raw)), "/")
}

// SameOrigin compares scheme and host (including port) case-insensitively.
func SameOrigin(a, b *url.URL) bool {
	if a == nil || b == nil {
		return false
	}
	return strings.EqualFold(a.Scheme, b.Scheme) && strings.EqualFold(a.Host, b.Host)
}

// Origin returns scheme://host of raw.
func Origin(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("url %q is not absolute", raw)
	}
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host), nil
}

// JoinPath resolves elem against base treated as a directory.
func JoinPath(base, elem string) (string, error) {
	b, err := url.Parse(strings.TrimRight(base, "/") + "/")
	if err != nil {
		return "", fmt.Errorf("parse base %q: %w", base, err)
	}
	ref, err := url.Parse(elem)
	if err != nil {
		return "", fmt.Errorf("parse path %q: %w", elem, err)
	}
	return b.ResolveReference(ref).String(), nil
}

// QueryKeys lists the distinct query parameter names of raw in order of
// first appearance. Unparseable input yields nil.
func QueryKeys(raw string) []string {
	u, err := url.Parse(raw)
	if err != nil || u.RawQuery == "" {
		return nil
	}
	var keys []string
	seen := make(map[string]struct{})
	for _, pair := range strings.Split(u.RawQuery, "&") {
		if pair == "" {
			continue
		}
		k := pair
		if i := strings.IndexByte(pair, '='); i >= 0 {
			k = pair[:i]
		}
		name, err := url.QueryUnescape(k)
		if err != nil || name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		keys = append(keys, name)
	}
	return keys
}

// WithQueryValue returns raw with the value of key replaced by value. Other
// parameters are kept; the query is re-encoded in sorted key order.
func WithQueryValue(raw, key, value string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", raw, err)
	}
	values := u.Query()
	values.Set(key, value)
	u.RawQuery = values.Encode()
	u.Fragment = ""
	return u.String(), nil
}
