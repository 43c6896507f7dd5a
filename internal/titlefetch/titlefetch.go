// Package titlefetch resolves page titles for submitted URLs. Fetching
// is best-effort: every failure mode (network error, non-2xx status,
// unparseable body, missing title) yields an empty string, never an
// error the caller has to handle.
package titlefetch

import (
	"context"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const (
	// Timeout bounds the whole fetch; title resolution must never hold
	// up recommendation creation.
	Timeout = 5 * time.Second

	maxTitleLen = 200

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// Fetcher resolves a title for a URL. The zero-value client uses the
// default timeout.
type Fetcher struct {
	client *http.Client
}

// New creates a Fetcher with the standard bounded client.
func New() *Fetcher {
	return &Fetcher{client: &http.Client{Timeout: Timeout}}
}

// NewWithClient creates a Fetcher using the provided HTTP client.
func NewWithClient(client *http.Client) *Fetcher {
	return &Fetcher{client: client}
}

// Fetch returns the page title for url, preferring og:title, then
// twitter:title, then the <title> element. It returns "" when no title
// can be resolved.
func (f *Fetcher) Fetch(ctx context.Context, url string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}

	title, ok := doc.Find(`meta[property="og:title"]`).Attr("content")
	if !ok || strings.TrimSpace(title) == "" {
		title, ok = doc.Find(`meta[name="twitter:title"]`).Attr("content")
	}
	if !ok || strings.TrimSpace(title) == "" {
		title = doc.Find("title").First().Text()
	}

	return truncate(strings.TrimSpace(title), maxTitleLen)
}

// truncate caps s at max bytes without splitting a multibyte rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
