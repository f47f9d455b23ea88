package transport

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/http2"
)

type Options struct {
	Proxy      string
	UserAgent  string
	Headers    []string
	Retries    int
	RetryDelay time.Duration
	// Cookies, when set, are written over the Cookie header of every
	// request.
	Cookies *CookieOverrides
}

// New builds the round tripper shared by every client: TLS verification
// off, optional proxy, HTTP/2, cookie overrides, retries on transport
// errors and header stamping.
func New(opts Options) (http.RoundTripper, error) {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: true,
			Renegotiation:      tls.RenegotiateOnceAsClient,
		},
		MaxIdleConns:          100,
		MaxConnsPerHost:       10,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if opts.Proxy != "" {
		proxyURL, err := url.Parse(opts.Proxy)
		if err != nil {
			return nil, fmt.Errorf("parse proxy %q: %w", opts.Proxy, err)
		}
		tr.Proxy = http.ProxyURL(proxyURL)
	}
	if err := http2.ConfigureTransport(tr); err != nil {
		return nil, fmt.Errorf("configure http2: %w", err)
	}

	var rt http.RoundTripper = tr
	if opts.Cookies != nil {
		rt = &cookieRoundTripper{base: rt, cookies: opts.Cookies}
	}
	if opts.Retries > 0 {
		cfg := DefaultRetryConfig()
		cfg.MaxRetries = opts.Retries
		if opts.RetryDelay > 0 {
			cfg.BaseDelay = opts.RetryDelay
		}
		rt = NewRetryRoundTripper(rt, cfg)
	}
	return &headerRoundTripper{
		base:      rt,
		userAgent: ResolveUserAgent(opts.UserAgent),
		headers:   ParseHeaders(opts.Headers),
	}, nil
}
