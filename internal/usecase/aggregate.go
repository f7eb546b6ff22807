package usecase

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/arwindpianist/showcase/internal/entity"
	"github.com/arwindpianist/showcase/internal/htmlmeta"
	"github.com/arwindpianist/showcase/internal/source"
	"github.com/arwindpianist/showcase/internal/utils"
)

const scrapeConcurrency = 8

// Aggregate merges candidate groups given in priority order. A hostname is
// claimed by the first candidate that carries it; later ones are dropped.
func Aggregate(groups ...[]*entity.ProjectCandidate) []*entity.ProjectCandidate {
	seen := map[string]bool{}
	var out []*entity.ProjectCandidate
	for _, group := range groups {
		for _, c := range group {
			if c == nil {
				continue
			}
			host := c.Hostname()
			if host == "" || seen[host] {
				continue
			}
			seen[host] = true
			out = append(out, c)
		}
	}
	return out
}

// Public strips server-side fields from candidates.
func Public(candidates []*entity.ProjectCandidate) []entity.DetectedProject {
	return lo.Map(candidates, func(c *entity.ProjectCandidate, _ int) entity.DetectedProject {
		return c.Public()
	})
}

// MatchRepository finds the first repository whose name equals the project
// name ignoring case, or after normalization.
func MatchRepository(project string, repos []*entity.Repository) *entity.Repository {
	normalized := utils.NormalizeName(project)
	r, ok := lo.Find(repos, func(r *entity.Repository) bool {
		return strings.EqualFold(r.Name, project) || utils.NormalizeName(r.Name) == normalized
	})
	if !ok {
		return nil
	}
	return r
}

// VercelCandidate builds the candidate for a project. meta may be nil when
// the site could not be scraped.
func VercelCandidate(p *entity.VercelProject, repo *entity.Repository, meta *htmlmeta.Meta) *entity.ProjectCandidate {
	domain, ok := p.PrimaryDomain()
	if !ok {
		return nil
	}
	c := &entity.ProjectCandidate{
		Title:       p.Name,
		Description: "Vercel deployment for " + p.Name,
		URL:         entity.EnsureScheme(domain),
		Source:      entity.SourceVercel,
	}
	if meta != nil && meta.Title != "" {
		c.Title = meta.Title
	}
	if repo != nil {
		c.GitHubURL = repo.HTMLURL
		if repo.Description != "" {
			c.Description = repo.Description
		}
	}
	return c
}

// HomepageCandidates turns repositories with an owned homepage into candidates.
func HomepageCandidates(repos []*entity.Repository, owned []string) []*entity.ProjectCandidate {
	return lo.Map(source.WithOwnedHomepage(repos, owned), func(r *entity.Repository, _ int) *entity.ProjectCandidate {
		url := entity.EnsureScheme(r.Homepage)
		desc := r.Description
		if desc == "" {
			desc = "Live project at " + entity.Hostname(url)
		}
		return &entity.ProjectCandidate{
			Title:       utils.Titleize(r.Name),
			Description: desc,
			URL:         url,
			GitHubURL:   r.HTMLURL,
			Source:      entity.SourceHomepage,
		}
	})
}

// vercelCandidates scrapes every project's primary domain concurrently and
// builds candidates in the input order. A failed scrape only loses the title.
func vercelCandidates(ctx context.Context, scraper source.PageScraper, projects []*entity.VercelProject, repos []*entity.Repository) []*entity.ProjectCandidate {
	out := make([]*entity.ProjectCandidate, len(projects))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(scrapeConcurrency)
	for i, p := range projects {
		g.Go(func() error {
			var meta *htmlmeta.Meta
			if domain, ok := p.PrimaryDomain(); ok {
				meta = scraper.Fetch(gctx, entity.EnsureScheme(domain))
			}
			out[i] = VercelCandidate(p, MatchRepository(p.Name, repos), meta)
			return nil
		})
	}
	_ = g.Wait()

	zerolog.Ctx(ctx).Debug().Int("projects", len(projects)).Msg("built vercel candidates")
	return lo.Compact(out)
}
