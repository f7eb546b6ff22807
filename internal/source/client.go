// Package source contains the adapters that list repositories, deployments
// and probed sites from upstream providers. Adapters never fail their caller:
// upstream errors are logged and turned into empty results.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/arwindpianist/showcase/internal/entity"
)

const (
	// APITimeout bounds a single call to a provider API.
	APITimeout = 10 * time.Second
	// ProbeTimeout bounds existence checks and page scrapes.
	ProbeTimeout = 5 * time.Second

	maxErrorBody = 512
)

// StatusError is returned when an upstream answers with a non-2xx status.
type StatusError struct {
	URL    string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s returned status %d", e.URL, e.Status)
}

func (e *StatusError) Unwrap() error { return entity.ErrUpstream }

// getJSON issues an authenticated GET and decodes a 2xx JSON body into out.
func getJSON(ctx context.Context, client *http.Client, url string, header http.Header, out any) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	for k, vals := range header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{URL: url, Status: resp.StatusCode, Body: string(body)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode JSON: %w", err)
	}
	return nil
}
