package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/do"
	"github.com/stretchr/testify/assert"

	"github.com/arwindpianist/showcase/internal/config"
	"github.com/arwindpianist/showcase/internal/entity"
	appmw "github.com/arwindpianist/showcase/internal/server/middleware"
	"github.com/arwindpianist/showcase/internal/source"
)

type staticRepos []*entity.Repository

func (s staticRepos) List(context.Context) ([]*entity.Repository, error) { return s, nil }
func (s staticRepos) Repositories(context.Context) []*entity.Repository { return s }

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	app := &config.Config{
		SiteURL: "http://localhost:3000",
		GitHub:  config.GitHubConfig{User: "someone"},
		Cookie:  config.CookieConfig{Secret: "0123456789abcdef", MaxAge: time.Hour},
		RateLimit: config.RateLimitConfig{
			Enabled:        true,
			Capacity:       2,
			RefillTokens:   1,
			RefillInterval: time.Hour,
			TTL:            time.Hour,
			Prefix:         "rl",
		},
	}
	return New(&Config{Port: 0, Logger: zerolog.Nop(), App: app}, opts...)
}

func TestServerHealth(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(appmw.RequestIDHeader))
}

func TestServerGitHubURLIsGatedAndLimited(t *testing.T) {
	srv := newTestServer(t, func(i *do.Injector) {
		do.OverrideValue[source.RepositoryLister](i, staticRepos{{Name: "CasaLink", HTMLURL: "https://github.com/someone/CasaLink"}})
	})

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/api/get-github-url", strings.NewReader(`{"projectId":"1cu0di"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusForbidden, http.StatusForbidden, http.StatusTooManyRequests}, codes)
}

func TestServerStop(t *testing.T) {
	srv := newTestServer(t)
	assert.NoError(t, srv.Stop(context.Background()))
}
