package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func categories(findings []Finding) []string {
	var out []string
	for _, f := range findings {
		out = append(out, f.Category)
	}
	return out
}

func TestAnalyzeReflectedScript(t *testing.T) {
	a := NewAnalyzer(nil, nil, 500*time.Millisecond)
	resp := &Response{StatusCode: 200, Body: "<html><script>alert(1)</script></html>"}

	findings := a.Analyze("http://h/p.php?q=<script>", resp, 10*time.Millisecond)
	assert.Equal(t, []string{CategoryXSS, CategoryXSS}, categories(findings))
	assert.Equal(t, "http://h/p.php?q=<script>", findings[0].TestID)
	assert.Equal(t, `unsanitized "<" in response`, findings[0].Message)
}

func TestAnalyzeEscapedIsClean(t *testing.T) {
	a := NewAnalyzer([]string{"<", ">", "'"}, nil, time.Second)
	resp := &Response{StatusCode: 200, Body: "&lt;b&gt; and <b> it&#39;s"}
	findings := a.Analyze("id", resp, 0)
	assert.Empty(t, findings)
}

func TestAnalyzeAcceptsCommonEntitySpellings(t *testing.T) {
	a := NewAnalyzer([]string{`"`, "'"}, nil, time.Second)
	for _, body := range []string{
		`<input value="&quot;&#039;">`,
		`<input value="&#34;&#x27;">`,
		`<input value="&QUOT;&#X27;">`,
		`<input value="&#034;&apos;">`,
	} {
		assert.Empty(t, a.Analyze("id", &Response{StatusCode: 200, Body: body}, 0), body)
	}

	findings := a.Analyze("id", &Response{StatusCode: 200, Body: `<input value=""'">`}, 0)
	assert.Equal(t, []string{CategoryXSS, CategoryXSS}, categories(findings))
	assert.Equal(t, `unsanitized "\"" in response`, findings[0].Message)
}

func TestAnalyzeSlowThreshold(t *testing.T) {
	a := NewAnalyzer(nil, nil, 500*time.Millisecond)
	resp := &Response{StatusCode: 200, Body: "ok"}

	findings := a.Analyze("id", resp, 600*time.Millisecond+900*time.Microsecond)
	assert.Equal(t, []Finding{{TestID: "id", Category: CategorySlow, Message: "response took 600ms"}}, findings)
	assert.Empty(t, a.Analyze("id", resp, 400*time.Millisecond))
	assert.Empty(t, a.Analyze("id", resp, 500*time.Millisecond))
}

func TestAnalyzeErrorStatus(t *testing.T) {
	a := NewAnalyzer(nil, nil, time.Second)
	findings := a.Analyze("id", &Response{StatusCode: 500}, 0)
	assert.Equal(t, []Finding{{TestID: "id", Category: CategoryError, Message: "returned HTTP 500"}}, findings)

	assert.Equal(t, []string{CategoryError}, categories(a.Analyze("id", &Response{StatusCode: 302}, 0)))
}

func TestAnalyzeLeak(t *testing.T) {
	a := NewAnalyzer(nil, []string{"SECRET123", "password", ""}, time.Second)
	findings := a.Analyze("id", &Response{StatusCode: 200, Body: "token=SECRET123"}, 0)
	assert.Equal(t, []Finding{{TestID: "id", Category: CategoryLeak, Message: `sensitive data "SECRET123" in response`}}, findings)
}

func TestAnalyzeAllRulesIndependent(t *testing.T) {
	a := NewAnalyzer(nil, []string{"root:x:0:0"}, 100*time.Millisecond)
	resp := &Response{StatusCode: 500, Body: "<pre>root:x:0:0</pre>"}
	findings := a.Analyze("id", resp, time.Second)
	assert.Equal(t, []string{CategorySlow, CategoryError, CategoryXSS, CategoryXSS, CategoryLeak}, categories(findings))
}

func TestAnalyzeMissingFields(t *testing.T) {
	a := NewAnalyzer(nil, []string{"x"}, time.Second)
	assert.NotPanics(t, func() {
		assert.Empty(t, a.Analyze("id", nil, 0))
		assert.Empty(t, a.Analyze("id", &Response{}, 0))
	})
	assert.Equal(t, []string{CategorySlow}, categories(a.Analyze("id", nil, 2*time.Second)))
}

func TestAnalyzeDeterministic(t *testing.T) {
	a := NewAnalyzer(nil, []string{"s3cr3t"}, time.Millisecond)
	resp := &Response{StatusCode: 404, Body: "<x> s3cr3t"}
	assert.Equal(t, a.Analyze("id", resp, time.Second), a.Analyze("id", resp, time.Second))
}
