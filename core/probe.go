package core

import (
	"fmt"
	"sort"
	"strings"
)

// SurfaceKind is one of the three input categories of a page.
type SurfaceKind string

const (
	KindParams  SurfaceKind = "params"
	KindForms   SurfaceKind = "forms"
	KindCookies SurfaceKind = "cookies"
)

// SurfaceKinds is the order in which kinds are probed.
var SurfaceKinds = []SurfaceKind{KindParams, KindForms, KindCookies}

// InputSurface lists the injectable names found on one page.
type InputSurface struct {
	Params  []string `json:"params"`
	Forms   []string `json:"forms"`
	Cookies []string `json:"cookies"`
}

func (s InputSurface) Fields(kind SurfaceKind) []string {
	switch kind {
	case KindParams:
		return s.Params
	case KindForms:
		return s.Forms
	case KindCookies:
		return s.Cookies
	}
	return nil
}

// IgnoreFields are session and anti-CSRF names; fuzzing them only breaks
// the session.
var IgnoreFields = map[string]struct{}{
	"PHPSESSID":           {},
	"user_token":          {},
	"JSESSIONID":          {},
	"ASP.NET_SessionId":   {},
	"csrf_token":          {},
	"csrfmiddlewaretoken": {},
	"authenticity_token":  {},
	"_token":              {},
}

func IsIgnoredField(name string) bool {
	_, ok := IgnoreFields[name]
	return ok
}

// ProbeTarget is one payload aimed at one field.
type ProbeTarget struct {
	Page    string
	Kind    SurfaceKind
	Field   string
	Payload string
}

// TestID names the target in findings. Form and cookie ids leave out the
// payload, so every payload for a field shares one id.
func (t ProbeTarget) TestID() string {
	switch t.Kind {
	case KindParams:
		return fmt.Sprintf("%s?%s=%s", pageWithoutQuery(t.Page), t.Field, t.Payload)
	case KindForms:
		return fmt.Sprintf("%s [form:%s]", t.Page, t.Field)
	case KindCookies:
		return fmt.Sprintf("%s [cookie:%s]", t.Page, t.Field)
	}
	return t.Page
}

func pageWithoutQuery(page string) string {
	if i := strings.IndexAny(page, "?#"); i >= 0 {
		return page[:i]
	}
	return page
}

// BuildTargets expands pages, surfaces and payloads into probes: pages
// sorted, kinds in SurfaceKinds order, fields and payloads in list order.
func BuildTargets(pages []string, surfaces map[string]InputSurface, payloads []string) []ProbeTarget {
	sorted := append([]string(nil), pages...)
	sort.Strings(sorted)

	var targets []ProbeTarget
	for _, page := range sorted {
		surface := surfaces[page]
		for _, kind := range SurfaceKinds {
			for _, field := range surface.Fields(kind) {
				if IsIgnoredField(field) {
					continue
				}
				for _, payload := range payloads {
					targets = append(targets, ProbeTarget{Page: page, Kind: kind, Field: field, Payload: payload})
				}
			}
		}
	}
	return targets
}
