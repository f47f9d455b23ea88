package core

import (
	"net/url"
	"strings"
)

// NormalizeURL resolves candidate against base and drops the fragment.
// Script, data and mail links are rejected, as is anything that is not
// http or https once resolved.
func NormalizeURL(base *url.URL, candidate string) (string, bool) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" || strings.HasPrefix(candidate, "#") {
		return "", false
	}

	lower := strings.ToLower(candidate)
	if strings.HasPrefix(lower, "javascript:") || strings.HasPrefix(lower, "mailto:") || strings.HasPrefix(lower, "data:") || strings.HasPrefix(lower, "tel:") {
		return "", false
	}

	var resolved *url.URL
	var err error
	if base != nil {
		resolved, err = base.Parse(candidate)
	} else {
		resolved, err = url.Parse(candidate)
	}
	if err != nil {
		return "", false
	}
	resolved.Fragment = ""
	resolved.RawFragment = ""

	switch strings.ToLower(resolved.Scheme) {
	case "http", "https":
	default:
		return "", false
	}
	if resolved.Host == "" {
		return "", false
	}
	return resolved.String(), true
}
