package htmlmeta

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultTimeout = 5 * time.Second
	maxBodyBytes   = 1 << 20
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	acceptHTML     = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
)

// Scraper fetches pages and extracts their Meta. It never returns an error:
// any failure yields nil.
type Scraper struct {
	client  *http.Client
	timeout time.Duration
}

func NewScraper(client *http.Client) *Scraper {
	if client == nil {
		client = &http.Client{}
	}
	return &Scraper{client: client, timeout: DefaultTimeout}
}

// WithTimeout returns a copy of s using the given per-request timeout.
func (s *Scraper) WithTimeout(d time.Duration) *Scraper {
	cp := *s
	cp.timeout = d
	return &cp
}

func (s *Scraper) Fetch(ctx context.Context, url string) *Meta {
	log := zerolog.Ctx(ctx)
	html, err := s.get(ctx, url)
	if err != nil {
		log.Debug().Err(err).Str("url", url).Msg("scrape failed")
		return nil
	}
	return Extract(html)
}

// Title returns the page title, or "" when it cannot be determined.
func (s *Scraper) Title(ctx context.Context, url string) string {
	if m := s.Fetch(ctx, url); m != nil {
		return m.Title
	}
	return ""
}

func (s *Scraper) get(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHTML)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(body), nil
}
