package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jaeles-project/gofuzzer/internal/netutil"
	"github.com/jaeles-project/gofuzzer/internal/transport"
)

const maxRedirects = 10

// ErrOffOriginRedirect stops a redirect chain that would leave the target.
var ErrOffOriginRedirect = errors.New("redirect leaves the target origin")

// Response is a fully read HTTP response.
type Response struct {
	URL        string
	StatusCode int
	Header     http.Header
	Body       string
	Elapsed    time.Duration
}

// HTTPClient is what discovery, fuzzing and authentication talk to. Both
// SessionClient and StatelessClient implement it.
type HTTPClient interface {
	// Fetch issues a GET, following redirects.
	Fetch(ctx context.Context, rawURL string) (*Response, error)
	// Head issues a HEAD bounded by HeadTimeout, following redirects.
	Head(ctx context.Context, rawURL string) (*Response, error)
	// SubmitForm POSTs a single urlencoded field.
	SubmitForm(ctx context.Context, rawURL, field, value string) (*Response, error)
	// SubmitValues POSTs a full urlencoded form.
	SubmitValues(ctx context.Context, rawURL string, values url.Values) (*Response, error)
	// SetCookie sends name=value, unescaped, on every request until the
	// returned restore func is called. Stored session cookies are untouched.
	SetCookie(name, value string) (restore func())
	// CurrentCookies lists the cookie names the client would send to rawURL.
	CurrentCookies(rawURL string) []string
	// Client exposes the underlying client for the crawler.
	Client() *http.Client
}

// ClientOptions configures both client flavors.
type ClientOptions struct {
	Target     string
	Timeout    time.Duration
	Proxy      string
	UserAgent  string
	Headers    []string
	Cookie     string
	Retries    int
	RetryDelay time.Duration
	Stats      *ScanStats
}

// NewClient returns a StatelessClient when stateless is set and a
// SessionClient otherwise.
func NewClient(stateless bool, opts ClientOptions) (HTTPClient, error) {
	if stateless {
		return NewStatelessClient(opts)
	}
	return NewSessionClient(opts)
}

type baseClient struct {
	http      *http.Client
	timeout   time.Duration
	stats     *ScanStats
	overrides *transport.CookieOverrides
	// observe is called with every response before its body is read.
	observe func(*http.Response)
}

func newBaseClient(opts ClientOptions) (*baseClient, error) {
	overrides := transport.NewCookieOverrides()
	rt, err := transport.New(transport.Options{
		Proxy:      opts.Proxy,
		UserAgent:  opts.UserAgent,
		Headers:    opts.Headers,
		Retries:    opts.Retries,
		RetryDelay: opts.RetryDelay,
		Cookies:    overrides,
	})
	if err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = FetchTimeout
	}
	hc := &http.Client{Transport: rt, Timeout: timeout}
	if opts.Target != "" {
		target, err := url.Parse(opts.Target)
		if err != nil {
			return nil, fmt.Errorf("parse target %q: %w", opts.Target, err)
		}
		hc.CheckRedirect = sameOriginRedirects(target)
	}
	return &baseClient{
		http:      hc,
		timeout:   timeout,
		stats:     opts.Stats,
		overrides: overrides,
	}, nil
}

// sameOriginRedirects follows at most maxRedirects redirects and none that
// change scheme or host of origin.
func sameOriginRedirects(origin *url.URL) func(*http.Request, []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("stopped after %d redirects", maxRedirects)
		}
		if !netutil.SameOrigin(origin, req.URL) {
			return fmt.Errorf("%w: %s", ErrOffOriginRedirect, req.URL)
		}
		return nil
	}
}

func (c *baseClient) Client() *http.Client {
	return c.http
}

func (c *baseClient) SetCookie(name, value string) func() {
	prev, had := c.overrides.Set(name, value)
	return func() {
		if had {
			c.overrides.Set(name, prev)
			return
		}
		c.overrides.Remove(name)
	}
}

func (c *baseClient) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	return c.do(ctx, http.MethodGet, rawURL, "", "")
}

func (c *baseClient) Head(ctx context.Context, rawURL string) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, HeadTimeout)
	defer cancel()
	return c.do(ctx, http.MethodHead, rawURL, "", "")
}

func (c *baseClient) SubmitForm(ctx context.Context, rawURL, field, value string) (*Response, error) {
	return c.SubmitValues(ctx, rawURL, url.Values{field: []string{value}})
}

func (c *baseClient) SubmitValues(ctx context.Context, rawURL string, values url.Values) (*Response, error) {
	return c.do(ctx, http.MethodPost, rawURL, values.Encode(), "application/x-www-form-urlencoded")
}

func (c *baseClient) do(ctx context.Context, method, rawURL, body, contentType string) (*Response, error) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, rawURL, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	c.stats.IncrementRequestsMade()
	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		c.stats.IncrementErrors()
		return nil, fmt.Errorf("%s %s: %w", method, rawURL, err)
	}
	defer res.Body.Close()
	if c.observe != nil {
		c.observe(res)
	}

	data, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		c.stats.IncrementErrors()
		return nil, fmt.Errorf("read %s %s: %w", method, rawURL, err)
	}

	return &Response{
		URL:        res.Request.URL.String(),
		StatusCode: res.StatusCode,
		Header:     res.Header,
		Body:       string(data),
		Elapsed:    time.Since(start),
	}, nil
}

// parseCookieLine splits "a=1; b=2" into cookies, skipping malformed parts.
func parseCookieLine(line string) []*http.Cookie {
	var cookies []*http.Cookie
	for _, part := range strings.Split(line, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			continue
		}
		cookies = append(cookies, &http.Cookie{Name: name, Value: strings.TrimSpace(value)})
	}
	return cookies
}
