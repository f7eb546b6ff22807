package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arwindpianist/showcase/internal/entity"
	"github.com/arwindpianist/showcase/internal/hashid"
)

func TestListRepositoryUsecase(t *testing.T) {
	injector, deps := newTestInjector(t, nil)
	updated := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	deps.repos.repos = []*entity.Repository{
		{Name: "ys-teras-maju", Description: "Company profile website for a construction firm", UpdatedAt: updated},
		{Name: "CasaLink", Description: "Property app"},
		{Name: "api", Description: ""},
	}

	uc, err := NewListRepositoryUsecase(injector)
	require.NoError(t, err)
	teasers, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []entity.RepositoryTeaser{
		{
			ID:          "q6ku8k",
			DisplayName: "ys-t" + strings.Repeat("•", 9),
			Description: "Company profile website for •••",
			UpdatedAt:   updated,
		},
		{
			ID:          "1cu0di",
			DisplayName: "Casa" + strings.Repeat("•", 4),
			Description: "Property app",
		},
		{
			ID:          hashid.Hash("api"),
			DisplayName: "api",
			Description: "No description available.",
		},
	}, teasers)
}

func TestListRepositoryUsecaseUpstreamError(t *testing.T) {
	injector, deps := newTestInjector(t, nil)
	deps.repos.err = entity.ErrUpstream

	uc, err := NewListRepositoryUsecase(injector)
	require.NoError(t, err)
	_, err = uc.Execute(context.Background())
	assert.ErrorIs(t, err, entity.ErrUpstream)
}

func TestTeaserMasksLongNames(t *testing.T) {
	teaser := Teaser(&entity.Repository{Name: strings.Repeat("a", 40)})
	assert.Equal(t, "aaaa"+strings.Repeat("•", 20), teaser.DisplayName)
}
