package usecase

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/samber/do"

	"github.com/arwindpianist/showcase/internal/entity"
	"github.com/arwindpianist/showcase/internal/hashid"
	"github.com/arwindpianist/showcase/internal/source"
)

// ResolveGitHubURLUsecase maps a hashed project id back to its repository URL
// using a freshly fetched repository list. Callers must check access first.
type ResolveGitHubURLUsecase interface {
	Execute(ctx context.Context, id entity.ID) (string, error)
}

type resolveGitHubURLUsecaseImpl struct {
	repositories source.RepositoryLister
}

// Execute implements ResolveGitHubURLUsecase.
func (r *resolveGitHubURLUsecaseImpl) Execute(ctx context.Context, id entity.ID) (string, error) {
	if id.IsZero() {
		return "", entity.ErrInvalid
	}
	url, ok := URLMap(ctx, r.repositories.Repositories(ctx))[id]
	if !ok {
		return "", entity.ErrNotFound
	}
	return url, nil
}

// URLMap indexes repository URLs by hashed name. On a collision the first
// repository keeps the id.
func URLMap(ctx context.Context, repos []*entity.Repository) map[entity.ID]string {
	out := make(map[entity.ID]string, len(repos))
	owner := make(map[entity.ID]string, len(repos))
	for _, repo := range repos {
		id := hashid.Hash(repo.Name)
		if prev, taken := owner[id]; taken {
			zerolog.Ctx(ctx).Warn().
				Str("id", id.String()).
				Str("kept", prev).
				Str("dropped", repo.Name).
				Msg("repository id collision")
			continue
		}
		owner[id] = repo.Name
		out[id] = repo.HTMLURL
	}
	return out
}

func NewResolveGitHubURLUsecase(injector *do.Injector) (ResolveGitHubURLUsecase, error) {
	return &resolveGitHubURLUsecaseImpl{
		repositories: do.MustInvoke[source.RepositoryLister](injector),
	}, nil
}
