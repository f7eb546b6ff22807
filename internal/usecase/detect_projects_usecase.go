package usecase

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/samber/do"
	"golang.org/x/sync/errgroup"

	"github.com/arwindpianist/showcase/internal/config"
	"github.com/arwindpianist/showcase/internal/entity"
	"github.com/arwindpianist/showcase/internal/source"
)

type DetectProjectsUsecase interface {
	Execute(ctx context.Context) ([]entity.DetectedProject, error)
}

type detectProjectsUsecaseImpl struct {
	repositories source.RepositoryLister
	vercel       source.ProjectLister
	prober       source.SiteProber
	scraper      source.PageScraper
	ownedDomains []string
}

// Execute implements DetectProjectsUsecase.
func (d *detectProjectsUsecaseImpl) Execute(ctx context.Context) ([]entity.DetectedProject, error) {
	var (
		repos    []*entity.Repository
		projects []*entity.VercelProject
		probed   []*entity.ProjectCandidate
	)

	// Branches swallow their own failures, so Wait only reports cancellation.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		repos = d.repositories.Repositories(gctx)
		return nil
	})
	g.Go(func() error {
		projects = d.vercel.Projects(gctx)
		return nil
	})
	g.Go(func() error {
		probed = d.prober.Probe(gctx)
		return nil
	})
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fromVercel := vercelCandidates(ctx, d.scraper, projects, repos)
	fromHomepage := HomepageCandidates(repos, d.ownedDomains)
	merged := Aggregate(fromVercel, probed, fromHomepage)

	zerolog.Ctx(ctx).Info().
		Int("vercel", len(fromVercel)).
		Int("probed", len(probed)).
		Int("homepage", len(fromHomepage)).
		Int("detected", len(merged)).
		Msg("detected projects")
	return Public(merged), nil
}

func NewDetectProjectsUsecase(injector *do.Injector) (DetectProjectsUsecase, error) {
	cfg := do.MustInvoke[*config.Config](injector)
	return &detectProjectsUsecaseImpl{
		repositories: do.MustInvoke[source.RepositoryLister](injector),
		vercel:       do.MustInvoke[source.ProjectLister](injector),
		prober:       do.MustInvoke[source.SiteProber](injector),
		scraper:      do.MustInvoke[source.PageScraper](injector),
		ownedDomains: cfg.GitHub.OwnedDomains,
	}, nil
}
