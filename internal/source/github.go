package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/arwindpianist/showcase/internal/entity"
)

const (
	DefaultGitHubAPI = "https://api.github.com"
	githubPageSize   = 100
)

type GitHubConfig struct {
	BaseURL  string
	User     string
	Token    string
	MaxPages int
}

// GitHub lists a user's public repositories.
type GitHub struct {
	cfg    GitHubConfig
	client *http.Client
}

func NewGitHub(cfg GitHubConfig, client *http.Client) *GitHub {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGitHubAPI
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 10
	}
	if client == nil {
		client = &http.Client{}
	}
	return &GitHub{cfg: cfg, client: client}
}

type githubRepo struct {
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	HTMLURL     string    `json:"html_url"`
	Homepage    *string   `json:"homepage"`
	Fork        bool      `json:"fork"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (r *githubRepo) valid() bool { return r.Name != "" && r.HTMLURL != "" }

func (r *githubRepo) toEntity() *entity.Repository {
	return &entity.Repository{
		Name:        r.Name,
		Description: strings.TrimSpace(lo.FromPtr(r.Description)),
		HTMLURL:     r.HTMLURL,
		Homepage:    strings.TrimSpace(lo.FromPtr(r.Homepage)),
		IsFork:      r.Fork,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// List returns every non-fork repository, most recently updated first. Unlike
// Repositories it reports upstream failures.
func (g *GitHub) List(ctx context.Context) ([]*entity.Repository, error) {
	if g.cfg.User == "" {
		return nil, fmt.Errorf("github user not configured: %w", entity.ErrInvalid)
	}
	header := http.Header{}
	header.Set("Accept", "application/vnd.github.v3+json")
	header.Set("User-Agent", "showcase")
	if g.cfg.Token != "" {
		header.Set("Authorization", "Bearer "+g.cfg.Token)
	}

	var out []*entity.Repository
	for page := 1; page <= g.cfg.MaxPages; page++ {
		q := url.Values{}
		q.Set("per_page", fmt.Sprint(githubPageSize))
		q.Set("sort", "updated")
		q.Set("page", fmt.Sprint(page))
		reqURL := fmt.Sprintf("%s/users/%s/repos?%s", g.cfg.BaseURL, url.PathEscape(g.cfg.User), q.Encode())

		var repos []githubRepo
		if err := getJSON(ctx, g.client, reqURL, header, &repos); err != nil {
			return nil, fmt.Errorf("list repositories page %d: %w", page, err)
		}
		for i := range repos {
			if repos[i].valid() && !repos[i].Fork {
				out = append(out, repos[i].toEntity())
			}
		}
		if len(repos) < githubPageSize {
			break
		}
	}
	return out, nil
}

// Repositories is List with failures swallowed: any error yields an empty slice.
func (g *GitHub) Repositories(ctx context.Context) []*entity.Repository {
	repos, err := g.List(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("user", g.cfg.User).Msg("failed to list github repositories")
		return []*entity.Repository{}
	}
	return repos
}

// WithOwnedHomepage keeps repositories whose homepage host is one of owned or
// a subdomain of it.
func WithOwnedHomepage(repos []*entity.Repository, owned []string) []*entity.Repository {
	return lo.Filter(repos, func(r *entity.Repository, _ int) bool {
		if !r.HasHomepage() {
			return false
		}
		host := entity.Hostname(r.Homepage)
		return host != "" && lo.SomeBy(owned, func(d string) bool {
			d = strings.ToLower(strings.TrimPrefix(d, "."))
			return host == d || strings.HasSuffix(host, "."+d)
		})
	})
}
