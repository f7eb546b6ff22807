package usecase

import (
	"context"

	"github.com/samber/do"
	"github.com/samber/lo"

	"github.com/arwindpianist/showcase/internal/entity"
	"github.com/arwindpianist/showcase/internal/hashid"
	"github.com/arwindpianist/showcase/internal/source"
	"github.com/arwindpianist/showcase/internal/utils"
)

const (
	teaserVisibleRunes = 4
	teaserVisibleWords = 4
	noDescription      = "No description available."
)

type ListRepositoryUsecase interface {
	Execute(ctx context.Context) ([]entity.RepositoryTeaser, error)
}

type listRepositoryUsecaseImpl struct {
	repositories source.RepositoryLister
}

// Execute implements ListRepositoryUsecase.
func (l *listRepositoryUsecaseImpl) Execute(ctx context.Context) ([]entity.RepositoryTeaser, error) {
	repos, err := l.repositories.List(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(repos, func(r *entity.Repository, _ int) entity.RepositoryTeaser {
		return Teaser(r)
	}), nil
}

// Teaser censors a repository for the public listing. The id is the only
// handle a client gets for the real repository.
func Teaser(r *entity.Repository) entity.RepositoryTeaser {
	return entity.RepositoryTeaser{
		ID:          hashid.Hash(r.Name),
		DisplayName: utils.CensorText(r.Name, teaserVisibleRunes),
		Description: utils.CensorWords(r.Description, teaserVisibleWords, noDescription),
		UpdatedAt:   r.UpdatedAt,
	}
}

func NewListRepositoryUsecase(injector *do.Injector) (ListRepositoryUsecase, error) {
	return &listRepositoryUsecaseImpl{
		repositories: do.MustInvoke[source.RepositoryLister](injector),
	}, nil
}
