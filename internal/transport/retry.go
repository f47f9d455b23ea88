package transport

import (
	"bytes"
	"io"
	"math/rand"
	"net/http"
	"time"
)

// RetryConfig controls how often a failed round trip is repeated.
type RetryConfig struct {
	MaxRetries    int
	BaseDelay     time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	JitterPercent float64
}

func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:    2,
		BaseDelay:     250 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2.0,
		JitterPercent: 10.0,
	}
}

func (cfg *RetryConfig) delay(attempt int) time.Duration {
	d := float64(cfg.BaseDelay)
	for i := 0; i < attempt; i++ {
		d *= cfg.BackoffFactor
	}
	if ceiling := float64(cfg.MaxDelay); ceiling > 0 && d > ceiling {
		d = ceiling
	}
	if cfg.JitterPercent > 0 {
		jitter := d * cfg.JitterPercent / 100
		d += (rand.Float64()*2 - 1) * jitter
	}
	if d < 0 {
		return 0
	}
	return time.Duration(d)
}

// RetryRoundTripper repeats a request when the underlying transport fails.
// Any HTTP response, whatever its status, is returned as is: a 500 is an
// observation for the analyzer, not a transient error.
type RetryRoundTripper struct {
	base http.RoundTripper
	cfg  *RetryConfig
}

func NewRetryRoundTripper(base http.RoundTripper, cfg *RetryConfig) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	if cfg == nil {
		cfg = DefaultRetryConfig()
	}
	return &RetryRoundTripper{base: base, cfg: cfg}
}

func (rt *RetryRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	var bodyCopy []byte
	if req.Body != nil && req.GetBody == nil {
		b, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, err
		}
		bodyCopy = b
	}

	var resp *http.Response
	var err error
	for attempt := 0; attempt <= rt.cfg.MaxRetries; attempt++ {
		attemptReq := req
		if attempt > 0 || bodyCopy != nil {
			attemptReq = req.Clone(req.Context())
			if req.GetBody != nil {
				if attemptReq.Body, err = req.GetBody(); err != nil {
					return nil, err
				}
			} else if bodyCopy != nil {
				attemptReq.Body = io.NopCloser(bytes.NewReader(bodyCopy))
			}
		}

		resp, err = rt.base.RoundTrip(attemptReq)
		if err == nil || attempt == rt.cfg.MaxRetries {
			return resp, err
		}

		timer := time.NewTimer(rt.cfg.delay(attempt))
		select {
		case <-req.Context().Done():
			timer.Stop()
			return nil, req.Context().Err()
		case <-timer.C:
		}
	}
	return resp, err
}
