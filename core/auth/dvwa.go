package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jaeles-project/gofuzzer/core"
)

var ErrLoginFailed = errors.New("dvwa login or setup failed")

// DVWA resets the Damn Vulnerable Web Application database, logs in and
// lowers the security level.
type DVWA struct {
	Username string
	Password string
	Security string
}

func NewDVWA() *DVWA {
	return &DVWA{Username: "admin", Password: "password", Security: "low"}
}

func (d *DVWA) Name() string { return "dvwa" }

func (d *DVWA) Login(ctx context.Context, baseURL string, opts core.ClientOptions) (core.HTTPClient, error) {
	if opts.Target == "" {
		opts.Target = baseURL
	}
	client, err := core.NewSessionClient(opts)
	if err != nil {
		return nil, err
	}
	root := strings.TrimRight(baseURL, "/")

	if err := submitFirstForm(ctx, client, root+"/setup.php", nil); err != nil {
		return nil, fmt.Errorf("reset database: %w", err)
	}
	core.Logger.Info("DVWA database reset")

	// The base URL redirects to the login page while logged out.
	if err := submitFirstForm(ctx, client, baseURL, map[string]string{
		"username": d.Username,
		"password": d.Password,
	}); err != nil {
		return nil, fmt.Errorf("log in: %w", err)
	}

	if err := submitFirstForm(ctx, client, root+"/security.php", map[string]string{
		"security": d.Security,
	}); err != nil {
		return nil, fmt.Errorf("set security level: %w", err)
	}

	home, err := client.Fetch(ctx, baseURL)
	if err != nil {
		return nil, fmt.Errorf("verify login: %w", err)
	}
	if !strings.Contains(home.Body, "Dashboard") {
		return nil, ErrLoginFailed
	}
	core.Logger.Infof("DVWA authenticated and security set to %s", d.Security)
	return client, nil
}

// submitFirstForm opens page, fills its first form with overrides on top
// of the values already present and submits it.
func submitFirstForm(ctx context.Context, client core.HTTPClient, page string, overrides map[string]string) error {
	resp, err := client.Fetch(ctx, page)
	if err != nil {
		return err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.Body))
	if err != nil {
		return fmt.Errorf("parse %s: %w", resp.URL, err)
	}
	base, err := url.Parse(resp.URL)
	if err != nil {
		return fmt.Errorf("parse %s: %w", resp.URL, err)
	}
	form, ok := core.ParseForm(doc.Find("form").First(), base)
	if !ok {
		return fmt.Errorf("no form on %s", resp.URL)
	}

	values := form.Values(overrides)
	if form.Method == http.MethodPost {
		_, err = client.SubmitValues(ctx, form.Action, values)
		return err
	}
	target, err := url.Parse(form.Action)
	if err != nil {
		return fmt.Errorf("parse form action %s: %w", form.Action, err)
	}
	target.RawQuery = values.Encode()
	_, err = client.Fetch(ctx, target.String())
	return err
}
