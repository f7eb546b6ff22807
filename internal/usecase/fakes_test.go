package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/samber/do"
	"github.com/stretchr/testify/require"

	"github.com/arwindpianist/showcase/internal/config"
	"github.com/arwindpianist/showcase/internal/entity"
	"github.com/arwindpianist/showcase/internal/htmlmeta"
	"github.com/arwindpianist/showcase/internal/notify"
	"github.com/arwindpianist/showcase/internal/payment"
	"github.com/arwindpianist/showcase/internal/repository"
	"github.com/arwindpianist/showcase/internal/source"
)

type fakeRepos struct {
	repos []*entity.Repository
	err   error
}

func (f *fakeRepos) List(context.Context) ([]*entity.Repository, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.repos, nil
}

func (f *fakeRepos) Repositories(ctx context.Context) []*entity.Repository {
	repos, err := f.List(ctx)
	if err != nil {
		return []*entity.Repository{}
	}
	return repos
}

type fakeVercel struct{ projects []*entity.VercelProject }

func (f *fakeVercel) Projects(context.Context) []*entity.VercelProject { return f.projects }

type fakeProber struct{ found []*entity.ProjectCandidate }

func (f *fakeProber) Probe(context.Context) []*entity.ProjectCandidate { return f.found }

// fakeScraper answers from metas; unknown URLs behave like a failed scrape.
type fakeScraper struct{ metas map[string]*htmlmeta.Meta }

func (f *fakeScraper) Fetch(_ context.Context, url string) *htmlmeta.Meta { return f.metas[url] }

type fakeProvider struct {
	mu       sync.Mutex
	requests []payment.CheckoutRequest
	sessions map[string]*entity.CheckoutSession
	events   map[string]*entity.WebhookEvent
	err      error
}

func (f *fakeProvider) CreateCheckoutSession(_ context.Context, req payment.CheckoutRequest) (*entity.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.requests = append(f.requests, req)
	return &entity.CheckoutSession{ID: "cs_new", URL: "https://checkout.example/cs_new"}, nil
}

func (f *fakeProvider) GetSession(_ context.Context, id string) (*entity.CheckoutSession, error) {
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.sessions[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return s, nil
}

// ParseWebhook treats the signature as a key into events.
func (f *fakeProvider) ParseWebhook(_ []byte, signature string) (*entity.WebhookEvent, error) {
	ev, ok := f.events[signature]
	if !ok {
		return nil, entity.ErrSignature
	}
	cp := *ev
	return &cp, nil
}

type fakePublisher struct {
	mu        sync.Mutex
	published []notify.AccessGrantedEvent
	err       error
}

func (f *fakePublisher) PublishAccessGranted(_ context.Context, ev notify.AccessGrantedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, ev)
	return f.err
}

type testDeps struct {
	repos     *fakeRepos
	vercel    *fakeVercel
	prober    *fakeProber
	scraper   *fakeScraper
	provider  *fakeProvider
	publisher *fakePublisher
	events    repository.WebhookEventRepository
}

func newTestInjector(t *testing.T, cfg *config.Config) (*do.Injector, *testDeps) {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{SiteURL: "https://example.com"}
	}
	db, err := repository.NewSQLiteDB()
	require.NoError(t, err)

	deps := &testDeps{
		repos:     &fakeRepos{},
		vercel:    &fakeVercel{},
		prober:    &fakeProber{},
		scraper:   &fakeScraper{metas: map[string]*htmlmeta.Meta{}},
		provider:  &fakeProvider{sessions: map[string]*entity.CheckoutSession{}, events: map[string]*entity.WebhookEvent{}},
		publisher: &fakePublisher{},
		events:    repository.NewWebhookEventRepository(db),
	}

	injector := do.New()
	do.ProvideValue(injector, cfg)
	do.ProvideValue[source.RepositoryLister](injector, deps.repos)
	do.ProvideValue[source.ProjectLister](injector, deps.vercel)
	do.ProvideValue[source.SiteProber](injector, deps.prober)
	do.ProvideValue[source.PageScraper](injector, deps.scraper)
	do.ProvideValue[payment.Provider](injector, deps.provider)
	do.ProvideValue[notify.Publisher](injector, deps.publisher)
	do.ProvideValue(injector, deps.events)
	return injector, deps
}
