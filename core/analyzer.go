package core

import (
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

// Finding categories.
const (
	CategorySlow  = "Slow"
	CategoryError = "Error"
	CategoryXSS   = "XSS"
	CategoryLeak  = "Leak"
)

// DefaultSanitizedChars are checked for raw reflection when no list is given.
var DefaultSanitizedChars = []string{"<", ">"}

type Finding struct {
	TestID   string `json:"test_id"`
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Analyzer classifies a single response. It holds no state between calls.
type Analyzer struct {
	SanitizedChars []string
	Sensitive      []string
	SlowThreshold  time.Duration
}

func NewAnalyzer(sanitized, sensitive []string, slow time.Duration) Analyzer {
	if len(sanitized) == 0 {
		sanitized = DefaultSanitizedChars
	}
	if slow <= 0 {
		slow = DefaultSlowThreshold
	}
	return Analyzer{SanitizedChars: sanitized, Sensitive: sensitive, SlowThreshold: slow}
}

// Analyze applies every rule independently and returns the findings in rule
// order: Slow, Error, XSS per character, Leak per string.
func (a Analyzer) Analyze(testID string, resp *Response, elapsed time.Duration) []Finding {
	var findings []Finding
	add := func(category, format string, args ...interface{}) {
		findings = append(findings, Finding{TestID: testID, Category: category, Message: fmt.Sprintf(format, args...)})
	}

	if a.SlowThreshold > 0 && elapsed > a.SlowThreshold {
		add(CategorySlow, "response took %dms", elapsed.Milliseconds())
	}
	if resp == nil {
		return findings
	}
	if resp.StatusCode != 0 && resp.StatusCode != http.StatusOK {
		add(CategoryError, "returned HTTP %d", resp.StatusCode)
	}
	if resp.Body == "" {
		return findings
	}
	lowerBody := strings.ToLower(resp.Body)
	for _, char := range a.SanitizedChars {
		if char == "" || !strings.Contains(resp.Body, char) {
			continue
		}
		if !containsEscaped(lowerBody, char) {
			add(CategoryXSS, "unsanitized %q in response", char)
		}
	}
	for _, secret := range a.Sensitive {
		if secret != "" && strings.Contains(resp.Body, secret) {
			add(CategoryLeak, "sensitive data %q in response", secret)
		}
	}
	return findings
}

var namedEntities = map[rune][]string{
	'&':  {"&amp;"},
	'<':  {"&lt;"},
	'>':  {"&gt;"},
	'"':  {"&quot;"},
	'\'': {"&apos;"},
}

// escapedForms lists lower-case entity spellings of char that count as
// escaped output. Numeric forms only apply to single runes.
func escapedForms(char string) []string {
	forms := []string{strings.ToLower(html.EscapeString(char))}
	r, size := utf8.DecodeRuneInString(char)
	if r == utf8.RuneError || size != len(char) {
		return forms
	}
	forms = append(forms, namedEntities[r]...)
	return append(forms,
		fmt.Sprintf("&#%d;", r),
		fmt.Sprintf("&#%03d;", r),
		fmt.Sprintf("&#x%x;", r),
		fmt.Sprintf("&#x%02x;", r),
		fmt.Sprintf("&#x%04x;", r),
	)
}

// containsEscaped reports whether lowerBody, already lower-cased, holds any
// escaped form of char.
func containsEscaped(lowerBody, char string) bool {
	for _, form := range escapedForms(char) {
		if strings.Contains(lowerBody, form) {
			return true
		}
	}
	return false
}
