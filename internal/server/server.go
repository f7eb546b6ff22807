package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/samber/do"
	"gorm.io/gorm"

	"github.com/arwindpianist/showcase/internal/access"
	"github.com/arwindpianist/showcase/internal/config"
	"github.com/arwindpianist/showcase/internal/htmlmeta"
	"github.com/arwindpianist/showcase/internal/notify"
	"github.com/arwindpianist/showcase/internal/payment"
	"github.com/arwindpianist/showcase/internal/repository"
	appmw "github.com/arwindpianist/showcase/internal/server/middleware"
	"github.com/arwindpianist/showcase/internal/server/routes"
	"github.com/arwindpianist/showcase/internal/source"
	"github.com/arwindpianist/showcase/internal/usecase"
)

const upstreamTimeout = 15 * time.Second

type Config struct {
	Port   int
	Logger zerolog.Logger
	App    *config.Config
}

// Option adjusts the injector after the default providers are declared.
// Use do.Override* inside an Option to swap a dependency.
type Option func(injector *do.Injector)

type Server struct {
	e        *echo.Echo
	config   *Config
	injector *do.Injector
}

func New(config *Config, opts ...Option) *Server {
	e := echo.New()
	e.HidePort = true
	e.HideBanner = true
	e.Use(appmw.RequestLogger(config.Logger))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogRemoteIP:  true,
		LogHost:      true,
		LogMethod:    true,
		LogURI:       true,
		LogUserAgent: true,
		LogStatus:    true,
		LogLatency:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			zerolog.Ctx(c.Request().Context()).Info().
				Str("remote_ip", v.RemoteIP).
				Str("host", v.Host).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("user_agent", v.UserAgent).
				Int("status", v.Status).
				Int64("latency_ms", v.Latency.Milliseconds()).
				Msg("handled request")
			return nil
		},
	}))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			config.Logger.Error().Err(err).Bytes("stack", stack).Send()
			return err
		},
	}))

	s := &Server{e: e, config: config}
	s.init(opts)
	return s
}

func (s *Server) init(opts []Option) {
	injector := do.New()
	s.injectDependencies(injector)
	for _, opt := range opts {
		opt(injector)
	}
	s.injector = injector
	s.registerRoutes(injector)
}

func (s *Server) injectDependencies(injector *do.Injector) {
	app := s.config.App
	do.ProvideValue(injector, app)
	do.ProvideValue(injector, &http.Client{Timeout: upstreamTimeout})

	do.Provide(injector, func(i *do.Injector) (*htmlmeta.Scraper, error) {
		return htmlmeta.NewScraper(do.MustInvoke[*http.Client](i)), nil
	})
	do.Provide(injector, func(i *do.Injector) (source.PageScraper, error) {
		return do.MustInvoke[*htmlmeta.Scraper](i), nil
	})
	do.Provide(injector, func(i *do.Injector) (source.RepositoryLister, error) {
		return source.NewGitHub(source.GitHubConfig{
			BaseURL: app.GitHub.APIURL,
			User:    app.GitHub.User,
			Token:   app.GitHub.Token,
		}, do.MustInvoke[*http.Client](i)), nil
	})
	do.Provide(injector, func(i *do.Injector) (source.ProjectLister, error) {
		return source.NewVercel(source.VercelConfig{
			BaseURL:     app.Vercel.APIURL,
			Token:       app.Vercel.Token,
			Concurrency: app.Vercel.Concurrency,
		}, do.MustInvoke[*http.Client](i)), nil
	})
	do.Provide(injector, func(i *do.Injector) (source.SiteProber, error) {
		return source.NewProber(source.ProberConfig{
			BaseDomains: app.Probe.BaseDomains,
			Labels:      app.Probe.Labels,
		}, do.MustInvoke[*http.Client](i), do.MustInvoke[*htmlmeta.Scraper](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (*gorm.DB, error) {
		return repository.NewSQLiteDB()
	})
	do.Provide(injector, func(i *do.Injector) (repository.WebhookEventRepository, error) {
		return repository.NewWebhookEventRepository(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(injector, func(i *do.Injector) (payment.Provider, error) {
		return payment.NewStripe(payment.StripeConfig{
			SecretKey:     app.Stripe.SecretKey,
			WebhookSecret: app.Stripe.WebhookSecret,
		}, nil), nil
	})
	do.Provide(injector, func(i *do.Injector) (notify.Publisher, error) {
		return notify.NewPublisher(app.RabbitMQURL), nil
	})

	// A nil client is valid: the middlewares fall back to pass-through and
	// in-process limiting.
	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		return config.NewRedisClient(app.Redis), nil
	})
	do.ProvideNamed(injector, routes.CacheMiddleware, func(i *do.Injector) (echo.MiddlewareFunc, error) {
		return appmw.NewRedisCache(app.Cache, do.MustInvoke[*redis.Client](i)), nil
	})
	do.ProvideNamed(injector, routes.RateLimitMiddleware, func(i *do.Injector) (echo.MiddlewareFunc, error) {
		return appmw.NewTokenBucket(app.RateLimit, do.MustInvoke[*redis.Client](i)), nil
	})

	do.Provide(injector, usecase.NewDetectProjectsUsecase)
	do.Provide(injector, usecase.NewVercelProjectsUsecase)
	do.Provide(injector, usecase.NewListRepositoryUsecase)
	do.Provide(injector, usecase.NewResolveGitHubURLUsecase)
	do.Provide(injector, usecase.NewCreateCheckoutSessionUsecase)
	do.Provide(injector, usecase.NewVerifyCheckoutSessionUsecase)
	do.Provide(injector, usecase.NewHandleWebhookUsecase)

	do.Provide(injector, func(i *do.Injector) (*access.Gate, error) {
		verify := do.MustInvoke[usecase.VerifyCheckoutSessionUsecase](i)
		return access.NewGate(access.Config{
			Secret: []byte(app.Cookie.Secret),
			Secure: app.Cookie.Secure,
			MaxAge: app.Cookie.MaxAge,
		}, access.VerifierFunc(verify.Execute)), nil
	})
}

func (s *Server) registerRoutes(injector *do.Injector) {
	routes.RegisterAPI(injector, s.e)
	routes.RegisterPayment(injector, s.e)
	routes.RegisterMisc(injector, s.e)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.e }

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	s.config.Logger.Info().Str("addr", addr).Msg("starting server")
	return s.e.Start(addr)
}

func (s *Server) Stop(ctx context.Context) error {
	err := s.e.Shutdown(ctx)
	if shutdownErr := s.injector.Shutdown(); shutdownErr != nil {
		s.config.Logger.Warn().Err(shutdownErr).Msg("dependency shutdown")
	}
	return err
}
