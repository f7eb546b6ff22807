package entity

import (
	"net/url"
	"strings"
)

type ProjectSource int

// Lower values win during deduplication.
const (
	SourceVercel ProjectSource = iota
	SourceProbe
	SourceHomepage
)

func (s ProjectSource) String() string {
	switch s {
	case SourceVercel:
		return "vercel"
	case SourceProbe:
		return "probe"
	case SourceHomepage:
		return "homepage"
	}
	return "unknown"
}

// DetectedProject is the client-visible view of a discovered deployment.
type DetectedProject struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Detected    bool   `json:"detected"`
}

// ProjectCandidate is the server-side record behind a DetectedProject. GitHubURL
// and Source never leave the server.
type ProjectCandidate struct {
	Title       string
	Description string
	URL         string
	GitHubURL   string
	Source      ProjectSource
}

// Hostname returns the lowercase host of the candidate URL, or "" when it cannot be parsed.
func (p *ProjectCandidate) Hostname() string {
	return Hostname(p.URL)
}

func (p *ProjectCandidate) Public() DetectedProject {
	return DetectedProject{
		Title:       p.Title,
		Description: p.Description,
		URL:         p.URL,
		Detected:    true,
	}
}

// Hostname extracts the lowercase host from a URL or bare domain.
func Hostname(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSuffix(u.Hostname(), "."))
}

// EnsureScheme prefixes bare domains with https://.
func EnsureScheme(raw string) string {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "https://" + raw
}
