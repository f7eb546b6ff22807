package usecase

import (
	"context"
	"testing"

	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arwindpianist/showcase/internal/config"
	"github.com/arwindpianist/showcase/internal/entity"
	"github.com/arwindpianist/showcase/internal/htmlmeta"
)

func seedDetection(deps *testDeps) {
	deps.repos.repos = []*entity.Repository{
		{Name: "CasaLink", Description: "Property listings", HTMLURL: "https://github.com/octo/CasaLink"},
		{Name: "ys-teras-maju", Homepage: "https://ysterasmaju.example.com", HTMLURL: "https://github.com/octo/ys-teras-maju"},
		{Name: "shop", Homepage: "https://shop.example.com", HTMLURL: "https://github.com/octo/shop"},
	}
	deps.vercel.projects = []*entity.VercelProject{
		{Name: "casalink", UpdatedAt: 3, Domains: []entity.Domain{{Name: "casalink.example.com", Verified: true}}},
		{Name: "portfolio-site", UpdatedAt: 2, Domains: []entity.Domain{{Name: "portfolio.example.com", Verified: true}}},
	}
	deps.prober.found = []*entity.ProjectCandidate{
		{Title: "Probe CasaLink", Description: "probe", URL: "https://casalink.example.com", Source: entity.SourceProbe},
		{Title: "Shop", Description: "Live project at shop.example.com", URL: "https://shop.example.com", Source: entity.SourceProbe},
	}
	deps.scraper.metas["https://casalink.example.com"] = &htmlmeta.Meta{Title: "CasaLink Homes"}
}

func TestDetectProjectsUsecase(t *testing.T) {
	injector, deps := newTestInjector(t, &config.Config{
		SiteURL: "https://example.com",
		GitHub:  config.GitHubConfig{OwnedDomains: []string{"example.com"}},
	})
	seedDetection(deps)

	uc, err := NewDetectProjectsUsecase(injector)
	require.NoError(t, err)

	projects, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []entity.DetectedProject{
		{Title: "CasaLink Homes", Description: "Property listings", URL: "https://casalink.example.com", Detected: true},
		{Title: "portfolio-site", Description: "Vercel deployment for portfolio-site", URL: "https://portfolio.example.com", Detected: true},
		{Title: "Shop", Description: "Live project at shop.example.com", URL: "https://shop.example.com", Detected: true},
		{Title: "Ys Teras Maju", Description: "Live project at ysterasmaju.example.com", URL: "https://ysterasmaju.example.com", Detected: true},
	}, projects)
}

func TestDetectProjectsUsecaseDegrades(t *testing.T) {
	injector, deps := newTestInjector(t, nil)
	seedDetection(deps)
	deps.repos.err = entity.ErrUpstream

	do.Provide(injector, NewDetectProjectsUsecase)
	uc := do.MustInvoke[DetectProjectsUsecase](injector)
	projects, err := uc.Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 3)
	assert.Equal(t, "Vercel deployment for casalink", projects[0].Description)
}

func TestDetectProjectsUsecaseEmpty(t *testing.T) {
	injector, _ := newTestInjector(t, nil)
	uc, err := NewDetectProjectsUsecase(injector)
	require.NoError(t, err)

	projects, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, projects)
	assert.Empty(t, projects)
}

func TestDetectProjectsUsecaseCancelled(t *testing.T) {
	injector, _ := newTestInjector(t, nil)
	uc, err := NewDetectProjectsUsecase(injector)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = uc.Execute(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVercelProjectsUsecase(t *testing.T) {
	injector, deps := newTestInjector(t, nil)
	seedDetection(deps)

	uc, err := NewVercelProjectsUsecase(injector)
	require.NoError(t, err)
	projects, err := uc.Execute(context.Background())
	require.NoError(t, err)

	require.Len(t, projects, 2)
	assert.Equal(t, "CasaLink Homes", projects[0].Title)
	assert.Equal(t, "portfolio-site", projects[1].Title)
}
