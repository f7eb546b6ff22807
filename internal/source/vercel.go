package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/arwindpianist/showcase/internal/entity"
)

const (
	DefaultVercelAPI = "https://api.vercel.com"
	vercelPageSize   = 100
)

type VercelConfig struct {
	BaseURL string
	Token   string
	// MaxPages bounds pagination per account or team.
	MaxPages int
	// Concurrency bounds the per-project enrichment fan-out.
	Concurrency int
}

// Vercel lists projects with at least one custom domain across the personal
// account and every team visible to the token.
type Vercel struct {
	cfg    VercelConfig
	client *http.Client
}

func NewVercel(cfg VercelConfig, client *http.Client) *Vercel {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultVercelAPI
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 20
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 8
	}
	if client == nil {
		client = &http.Client{}
	}
	return &Vercel{cfg: cfg, client: client}
}

type vercelTeam struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type vercelProject struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AccountID string `json:"accountId"`
	UpdatedAt int64  `json:"updatedAt"`
}

type vercelDomain struct {
	Name      string `json:"name"`
	ProjectID string `json:"projectId"`
	Verified  bool   `json:"verified"`
}

type vercelDeployment struct {
	UID       string  `json:"uid"`
	Name      string  `json:"name"`
	URL       string  `json:"url"`
	State     string  `json:"state"`
	Target    *string `json:"target"`
	CreatedAt int64   `json:"createdAt"`
}

func (d *vercelDeployment) toEntity() *entity.Deployment {
	return &entity.Deployment{
		UID:       d.UID,
		URL:       d.URL,
		State:     entity.DeploymentState(strings.ToUpper(d.State)),
		Target:    lo.FromPtr(d.Target),
		CreatedAt: time.UnixMilli(d.CreatedAt),
	}
}

// Projects runs both phases and never fails: a missing token or an upstream
// error yields an empty (or partial) list.
func (v *Vercel) Projects(ctx context.Context) []*entity.VercelProject {
	log := zerolog.Ctx(ctx)
	if v.cfg.Token == "" {
		log.Warn().Msg("vercel token not set, skipping vercel projects")
		return []*entity.VercelProject{}
	}

	projects := v.listAllProjects(ctx)
	log.Debug().Int("count", len(projects)).Msg("listed vercel projects")

	enriched := make([]*entity.VercelProject, len(projects))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.cfg.Concurrency)
	for i, p := range projects {
		g.Go(func() error {
			enriched[i] = v.enrich(gctx, p)
			return nil
		})
	}
	_ = g.Wait()

	out := lo.Filter(enriched, func(p *entity.VercelProject, _ int) bool {
		if len(p.Domains) == 0 {
			log.Debug().Str("project", p.Name).Msg("dropping vercel project without domains")
			return false
		}
		if !p.HasCustomDomain() {
			log.Debug().Str("project", p.Name).Msg("dropping vercel project without custom domain")
			return false
		}
		return true
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt > out[j].UpdatedAt })
	return out
}

// listAllProjects gathers projects of the personal account and all teams,
// deduplicated by project id in first-seen order.
func (v *Vercel) listAllProjects(ctx context.Context) []*entity.VercelProject {
	log := zerolog.Ctx(ctx)

	all, err := v.listProjects(ctx, "")
	if err != nil {
		log.Warn().Err(err).Msg("failed to list personal vercel projects")
	}

	var teams struct {
		Teams []vercelTeam `json:"teams"`
	}
	if err := getJSON(ctx, v.client, v.cfg.BaseURL+"/v2/teams", v.authHeader(), &teams); err != nil {
		log.Warn().Err(err).Msg("failed to list vercel teams")
	}
	for _, team := range teams.Teams {
		if team.ID == "" {
			continue
		}
		projects, err := v.listProjects(ctx, team.ID)
		if err != nil {
			log.Warn().Err(err).Str("team", team.Name).Msg("failed to list vercel team projects")
		}
		log.Debug().Str("team", team.Name).Int("count", len(projects)).Msg("listed vercel team projects")
		all = append(all, projects...)
	}

	return lo.UniqBy(all, func(p *entity.VercelProject) string { return p.ID })
}

// listProjects pages through /v9/projects using the updatedAt of the last
// item as the cursor, continuing while full pages come back. Pages fetched
// before an error are returned along with it.
func (v *Vercel) listProjects(ctx context.Context, teamID string) ([]*entity.VercelProject, error) {
	var out []*entity.VercelProject
	var cursor int64
	for page := 0; page < v.cfg.MaxPages; page++ {
		q := url.Values{}
		q.Set("limit", fmt.Sprint(vercelPageSize))
		if cursor > 0 {
			q.Set("until", fmt.Sprint(cursor))
		}
		if teamID != "" {
			q.Set("teamId", teamID)
		}

		var body struct {
			Projects []vercelProject `json:"projects"`
		}
		if err := getJSON(ctx, v.client, v.cfg.BaseURL+"/v9/projects?"+q.Encode(), v.authHeader(), &body); err != nil {
			return out, err
		}
		for _, p := range body.Projects {
			if p.ID == "" || p.Name == "" {
				continue
			}
			out = append(out, &entity.VercelProject{
				ID:        p.ID,
				Name:      p.Name,
				AccountID: p.AccountID,
				TeamID:    teamID,
				UpdatedAt: p.UpdatedAt,
			})
		}
		if len(body.Projects) < vercelPageSize {
			break
		}
		next := body.Projects[len(body.Projects)-1].UpdatedAt
		if next <= 0 || next == cursor {
			break
		}
		cursor = next
	}
	return out, nil
}

// enrich fetches domains and the production deployment for p. Failures leave
// the corresponding fields empty.
func (v *Vercel) enrich(ctx context.Context, p *entity.VercelProject) *entity.VercelProject {
	log := zerolog.Ctx(ctx).With().Str("project", p.Name).Logger()

	domains, err := v.domains(ctx, p)
	if err != nil {
		log.Warn().Err(err).Msg("failed to fetch vercel domains")
	}
	if unverified := lo.Filter(domains, func(d entity.Domain, _ int) bool { return !d.Verified }); len(unverified) > 0 {
		log.Debug().Strs("domains", lo.Map(unverified, func(d entity.Domain, _ int) string { return d.Name })).Msg("project has unverified domains")
	}

	dep, err := v.productionDeployment(ctx, p)
	if err != nil {
		log.Warn().Err(err).Msg("failed to fetch vercel deployments")
	}

	out := *p
	out.Domains = domains
	if dep.IsReady() && dep.URL != "" {
		out.ProductionURL = dep.URL
	}
	if len(out.Domains) == 0 && out.ProductionURL != "" {
		out.Domains = []entity.Domain{{Name: out.ProductionURL, Verified: true}}
	}
	return &out
}

func (v *Vercel) domains(ctx context.Context, p *entity.VercelProject) ([]entity.Domain, error) {
	var body struct {
		Domains []vercelDomain `json:"domains"`
	}
	err := getJSON(ctx, v.client, v.projectURL(p.Name, "domains", p.TeamID), v.authHeader(), &body)
	if err != nil && p.ID != p.Name {
		err = getJSON(ctx, v.client, v.projectURL(p.ID, "domains", p.TeamID), v.authHeader(), &body)
	}
	if err != nil {
		return nil, err
	}
	out := make([]entity.Domain, 0, len(body.Domains))
	for _, d := range body.Domains {
		if name := strings.TrimSpace(d.Name); name != "" {
			out = append(out, entity.Domain{Name: name, Verified: d.Verified})
		}
	}
	return out, nil
}

// productionDeployment returns the latest production deployment, falling back
// to the latest deployment of any target when no ready production deployment
// is found.
func (v *Vercel) productionDeployment(ctx context.Context, p *entity.VercelProject) (*entity.Deployment, error) {
	prod, prodErr := v.latestDeployment(ctx, p, "production")
	if prod.IsReady() {
		return prod, nil
	}
	latest, err := v.latestDeployment(ctx, p, "")
	if err != nil {
		return nil, errors.Join(prodErr, err)
	}
	return latest, nil
}

func (v *Vercel) latestDeployment(ctx context.Context, p *entity.VercelProject, target string) (*entity.Deployment, error) {
	q := url.Values{}
	q.Set("projectId", p.ID)
	q.Set("limit", "1")
	if target != "" {
		q.Set("target", target)
	}
	if p.TeamID != "" {
		q.Set("teamId", p.TeamID)
	}
	var body struct {
		Deployments []vercelDeployment `json:"deployments"`
	}
	if err := getJSON(ctx, v.client, v.cfg.BaseURL+"/v6/deployments?"+q.Encode(), v.authHeader(), &body); err != nil {
		return nil, err
	}
	if len(body.Deployments) == 0 {
		return nil, nil
	}
	return body.Deployments[0].toEntity(), nil
}

func (v *Vercel) projectURL(idOrName, sub, teamID string) string {
	u := fmt.Sprintf("%s/v9/projects/%s/%s", v.cfg.BaseURL, url.PathEscape(idOrName), sub)
	if teamID != "" {
		u += "?teamId=" + url.QueryEscape(teamID)
	}
	return u
}

func (v *Vercel) authHeader() http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+v.cfg.Token)
	h.Set("Content-Type", "application/json")
	return h
}
