package source

import (
	"context"

	"github.com/arwindpianist/showcase/internal/entity"
	"github.com/arwindpianist/showcase/internal/htmlmeta"
)

type RepositoryLister interface {
	// List reports upstream failures.
	List(ctx context.Context) ([]*entity.Repository, error)
	// Repositories never fails; an upstream failure yields an empty slice.
	Repositories(ctx context.Context) []*entity.Repository
}

type ProjectLister interface {
	Projects(ctx context.Context) []*entity.VercelProject
}

type SiteProber interface {
	Probe(ctx context.Context) []*entity.ProjectCandidate
}

type PageScraper interface {
	Fetch(ctx context.Context, url string) *htmlmeta.Meta
}

var (
	_ RepositoryLister = (*GitHub)(nil)
	_ ProjectLister    = (*Vercel)(nil)
	_ SiteProber       = (*Prober)(nil)
	_ PageScraper      = (*htmlmeta.Scraper)(nil)
)
