package source

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"campus-space-backend/config"
	"campus-space-backend/internal/course"
)

// rosterSelectors are tried in order; the first one yielding at least one
// usable row wins. The portal has rendered its schedule table under several
// different markup shapes over time.
var rosterSelectors = []string{
	"table.dataTable tbody tr",
	"table tbody tr",
	"table tr",
	".schedule-table tbody tr",
}

// AuthAdapter fetches the course schedule through an authenticated portal
// session: load the schedule page, detect a redirect to the SSO login form,
// submit credentials, and extract the roster table from the landing page.
type AuthAdapter struct {
	cfg    config.PortalConfig
	client *http.Client
}

// NewAuthAdapter builds the adapter with a cookie-jar client so the login
// session survives across the redirect chain. All calls share one fixed
// timeout; a portal that hangs is treated as failed and fallthrough proceeds.
func NewAuthAdapter(cfg config.PortalConfig) *AuthAdapter {
	jar, _ := cookiejar.New(nil)
	return &AuthAdapter{
		cfg: cfg,
		client: &http.Client{
			Jar:     jar,
			Timeout: cfg.Timeout,
		},
	}
}

func (a *AuthAdapter) Source() course.Source {
	return course.SourceAuthenticated
}

// Fetch runs the interactive session. It fails, without being fatal, when
// credentials are absent, login cannot be completed, or no selector yields
// usable rows.
func (a *AuthAdapter) Fetch(ctx context.Context) ([]course.RawRow, error) {
	if a.cfg.Username == "" || a.cfg.Password == "" {
		return nil, ErrNoCredentials
	}

	doc, landedOn, err := a.get(ctx, a.cfg.URL)
	if err != nil {
		return nil, err
	}

	if isLoginPage(landedOn) {
		log.Printf("portal: login required at %s, authenticating", landedOn)
		if doc, err = a.login(ctx, landedOn); err != nil {
			return nil, fmt.Errorf("portal login failed: %w", err)
		}
	}

	for _, selector := range rosterSelectors {
		rows := extractRows(doc, selector, rosterRule)
		if len(rows) > 0 {
			log.Printf("portal: selector %q yielded %d usable rows", selector, len(rows))
			return rows, nil
		}
	}

	return nil, ErrNoUsableRows
}

// login posts the credentials to the login page and re-fetches the schedule.
func (a *AuthAdapter) login(ctx context.Context, loginURL string) (*goquery.Document, error) {
	target := a.cfg.LoginURL
	if target == "" {
		target = loginURL
	}

	form := url.Values{
		"username": {a.cfg.Username},
		"password": {a.cfg.Password},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", a.cfg.UserAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("login rejected with status %d", resp.StatusCode)
	}

	// The session cookie is set now; the schedule page must stop
	// redirecting to the login form.
	doc, landedOn, err := a.get(ctx, a.cfg.URL)
	if err != nil {
		return nil, err
	}
	if isLoginPage(landedOn) {
		return nil, fmt.Errorf("still on login page after authenticating (%s)", landedOn)
	}
	return doc, nil
}

// get fetches a page and reports the URL it finally landed on after
// redirects, which is how a login bounce is detected.
func (a *AuthAdapter) get(ctx context.Context, pageURL string) (*goquery.Document, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", a.cfg.UserAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("portal request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("portal returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse portal HTML: %w", err)
	}

	return doc, resp.Request.URL.String(), nil
}

func isLoginPage(pageURL string) bool {
	u := strings.ToLower(pageURL)
	return strings.Contains(u, "login") || strings.Contains(u, "auth") || strings.Contains(u, "sso")
}
