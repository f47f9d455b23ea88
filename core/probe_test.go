package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProbeTargetTestID(t *testing.T) {
	param := ProbeTarget{Page: "http://h/a.php?id=1&q=2", Kind: KindParams, Field: "q", Payload: "<x>"}
	assert.Equal(t, "http://h/a.php?q=<x>", param.TestID())

	form := ProbeTarget{Page: "http://h/a.php", Kind: KindForms, Field: "name", Payload: "<x>"}
	assert.Equal(t, "http://h/a.php [form:name]", form.TestID())

	cookie := ProbeTarget{Page: "http://h/a.php", Kind: KindCookies, Field: "security", Payload: "<x>"}
	assert.Equal(t, "http://h/a.php [cookie:security]", cookie.TestID())
}

func TestBuildTargetsOrderAndIgnore(t *testing.T) {
	pages := []string{"http://h/b.php", "http://h/a.php?id=1"}
	surfaces := map[string]InputSurface{
		"http://h/a.php?id=1": {
			Params:  []string{"id"},
			Forms:   []string{"user_token", "name"},
			Cookies: []string{"PHPSESSID", "security"},
		},
		"http://h/b.php": {Forms: []string{"csrf_token", "comment"}},
	}

	targets := BuildTargets(pages, surfaces, []string{"p1", "p2"})
	var got []string
	for _, tgt := range targets {
		got = append(got, string(tgt.Kind)+":"+tgt.Field+":"+tgt.Payload)
	}
	assert.Equal(t, []string{
		"params:id:p1", "params:id:p2",
		"forms:name:p1", "forms:name:p2",
		"cookies:security:p1", "cookies:security:p2",
		"forms:comment:p1", "forms:comment:p2",
	}, got)
	assert.Equal(t, "http://h/a.php?id=1", targets[0].Page)
	assert.Equal(t, "http://h/b.php", targets[7].Page)
}

func TestIgnoreFieldsExact(t *testing.T) {
	for _, name := range []string{"PHPSESSID", "user_token", "JSESSIONID", "ASP.NET_SessionId", "csrf_token", "csrfmiddlewaretoken", "authenticity_token", "_token"} {
		assert.True(t, IsIgnoredField(name), name)
	}
	assert.False(t, IsIgnoredField("phpsessid"))
	assert.False(t, IsIgnoredField("username"))
}
