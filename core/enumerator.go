package core

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jaeles-project/gofuzzer/internal/netutil"
)

// InputEnumerator lists the injectable names of a page.
type InputEnumerator struct {
	Client  HTTPClient
	Timeout time.Duration
}

func NewInputEnumerator(client HTTPClient) *InputEnumerator {
	return &InputEnumerator{Client: client, Timeout: EnumerateTimeout}
}

// Enumerate fetches page and reports its query parameters, form field
// names and the cookies the client holds afterwards. A failed fetch gives
// an empty surface.
func (e *InputEnumerator) Enumerate(ctx context.Context, page string) InputSurface {
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = EnumerateTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := e.Client.Fetch(ctx, page)
	if err != nil {
		Logger.Debugf("Enumerate %s failed: %s", page, err)
		return InputSurface{}
	}

	surface := InputSurface{
		Params:  netutil.QueryKeys(page),
		Cookies: e.Client.CurrentCookies(page),
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.Body))
	if err != nil {
		Logger.Debugf("Parse %s failed: %s", page, err)
	} else {
		surface.Forms = InputNames(doc)
	}
	return surface
}
