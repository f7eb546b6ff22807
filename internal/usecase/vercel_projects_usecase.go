package usecase

import (
	"context"

	"github.com/samber/do"
	"golang.org/x/sync/errgroup"

	"github.com/arwindpianist/showcase/internal/entity"
	"github.com/arwindpianist/showcase/internal/source"
)

// VercelProjectsUsecase lists only the Vercel-detected projects.
type VercelProjectsUsecase interface {
	Execute(ctx context.Context) ([]entity.DetectedProject, error)
}

type vercelProjectsUsecaseImpl struct {
	repositories source.RepositoryLister
	vercel       source.ProjectLister
	scraper      source.PageScraper
}

// Execute implements VercelProjectsUsecase.
func (v *vercelProjectsUsecaseImpl) Execute(ctx context.Context) ([]entity.DetectedProject, error) {
	var (
		repos    []*entity.Repository
		projects []*entity.VercelProject
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		repos = v.repositories.Repositories(gctx)
		return nil
	})
	g.Go(func() error {
		projects = v.vercel.Projects(gctx)
		return nil
	})
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Public(Aggregate(vercelCandidates(ctx, v.scraper, projects, repos))), nil
}

func NewVercelProjectsUsecase(injector *do.Injector) (VercelProjectsUsecase, error) {
	return &vercelProjectsUsecaseImpl{
		repositories: do.MustInvoke[source.RepositoryLister](injector),
		vercel:       do.MustInvoke[source.ProjectLister](injector),
		scraper:      do.MustInvoke[source.PageScraper](injector),
	}, nil
}
