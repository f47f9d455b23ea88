package netutil

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageKey(t *testing.T) {
	assert.Equal(t, "http://h/dvwa", PageKey("http://h/dvwa/"))
	assert.Equal(t, "http://h/a.php?x=1", PageKey("http://h/a.php?x=1#top"))
	assert.Equal(t, "http://h", PageKey("http://h/"))
}

func TestSameOrigin(t *testing.T) {
	base, _ := url.Parse("http://Target.local:8080/app/")
	same, _ := url.Parse("http://target.local:8080/other")
	otherPort, _ := url.Parse("http://target.local/other")
	otherScheme, _ := url.Parse("https://target.local:8080/")

	assert.True(t, SameOrigin(base, same))
	assert.False(t, SameOrigin(base, otherPort))
	assert.False(t, SameOrigin(base, otherScheme))
	assert.False(t, SameOrigin(base, nil))
}

func TestOrigin(t *testing.T) {
	o, err := Origin("HTTP://Example.com:81/path?q=1")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com:81", o)

	_, err = Origin("/relative")
	assert.Error(t, err)
}

func TestJoinPath(t *testing.T) {
	got, err := JoinPath("http://h/dvwa", "login.php")
	require.NoError(t, err)
	assert.Equal(t, "http://h/dvwa/login.php", got)

	got, err = JoinPath("http://h/dvwa///", "admin")
	require.NoError(t, err)
	assert.Equal(t, "http://h/dvwa/admin", got)
}

func TestQueryKeysOrderAndDistinct(t *testing.T) {
	assert.Equal(t, []string{"id", "q", "a b"}, QueryKeys("http://h/p?id=1&q=&id=2&a%20b=3"))
	assert.Nil(t, QueryKeys("http://h/p"))
	assert.Equal(t, []string{"flag"}, QueryKeys("http://h/p?flag"))
}

func TestWithQueryValue(t *testing.T) {
	got, err := WithQueryValue("http://h/p.php?q=1&id=5#frag", "q", "<script>")
	require.NoError(t, err)
	assert.Equal(t, "http://h/p.php?id=5&q=%3Cscript%3E", got)
}
