package transport

import (
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyTransport struct {
	failures int32
	calls    int32
	bodies   []string
}

func (f *flakyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	n := atomic.AddInt32(&f.calls, 1)
	if req.Body != nil {
		b := new(strings.Builder)
		buf := make([]byte, 64)
		for {
			k, err := req.Body.Read(buf)
			b.Write(buf[:k])
			if err != nil {
				break
			}
		}
		f.bodies = append(f.bodies, b.String())
	}
	if n <= f.failures {
		return nil, &net.OpError{Op: "dial", Err: assert.AnError}
	}
	return &http.Response{StatusCode: http.StatusInternalServerError, Body: http.NoBody, Request: req}, nil
}

func TestRetryOnTransportErrorOnly(t *testing.T) {
	flaky := &flakyTransport{failures: 2}
	rt := NewRetryRoundTripper(flaky, &RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond, BackoffFactor: 1})

	req, err := http.NewRequest(http.MethodPost, "http://example.invalid/", strings.NewReader("a=1"))
	require.NoError(t, err)
	req.GetBody = nil
	resp, err := rt.RoundTrip(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&flaky.calls))
	assert.Equal(t, []string{"a=1", "a=1", "a=1"}, flaky.bodies)
}

func TestRetryGivesUp(t *testing.T) {
	flaky := &flakyTransport{failures: 10}
	rt := NewRetryRoundTripper(flaky, &RetryConfig{MaxRetries: 1, BaseDelay: time.Millisecond})

	req, _ := http.NewRequest(http.MethodGet, "http://example.invalid/", nil)
	_, err := rt.RoundTrip(req)
	assert.Error(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&flaky.calls))
}

func TestNewStampsHeaders(t *testing.T) {
	var gotUA, gotCustom string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotCustom = r.Header.Get("X-Scan")
	}))
	defer srv.Close()

	rt, err := New(Options{Headers: []string{"X-Scan: yes", "broken"}})
	require.NoError(t, err)
	client := &http.Client{Transport: rt}
	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	req.Header.Set("User-Agent", "colly")
	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, DefaultUserAgent, gotUA)
	assert.Equal(t, "yes", gotCustom)
}

func TestNewRejectsBadProxy(t *testing.T) {
	_, err := New(Options{Proxy: "http://[::1"})
	assert.Error(t, err)
}

func TestResolveUserAgent(t *testing.T) {
	assert.Equal(t, DefaultUserAgent, ResolveUserAgent(""))
	assert.Equal(t, "custom/1.0", ResolveUserAgent("custom/1.0"))
	assert.Contains(t, browserUserAgents, ResolveUserAgent("random"))
}

func TestCookieOverridesSendRawValue(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Cookie")
	}))
	defer srv.Close()

	cookies := NewCookieOverrides()
	rt, err := New(Options{Cookies: cookies})
	require.NoError(t, err)
	client := &http.Client{Transport: rt}

	send := func() string {
		req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
		req.Header.Set("Cookie", "PHPSESSID=abc; theme=dark")
		resp, err := client.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return got
	}

	assert.Equal(t, "PHPSESSID=abc; theme=dark", send())

	payload := `"><script>alert(1);</script>\`
	prev, had := cookies.Set("theme", payload)
	assert.False(t, had)
	assert.Empty(t, prev)
	assert.Equal(t, "PHPSESSID=abc; theme="+payload, send())
	assert.Equal(t, []string{"theme"}, cookies.Names())

	cookies.Remove("theme")
	assert.Equal(t, "PHPSESSID=abc; theme=dark", send())
	assert.Empty(t, cookies.Names())
}
