// Package config loads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	SiteURL     string
	GitHub      GitHubConfig
	Vercel      VercelConfig
	Probe       ProbeConfig
	Stripe      StripeConfig
	Cookie      CookieConfig
	Redis       RedisConfig
	Cache       CacheConfig
	RateLimit   RateLimitConfig
	RabbitMQURL string
}

type GitHubConfig struct {
	User   string
	Token  string
	APIURL string
	// OwnedDomains selects repositories whose homepage is a deliverable.
	OwnedDomains []string
}

type VercelConfig struct {
	Token       string
	APIURL      string
	Concurrency int
}

type ProbeConfig struct {
	BaseDomains []string
	Labels      []string
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	PriceID       string
}

type CookieConfig struct {
	Secret string
	Secure bool
	MaxAge time.Duration
}

// Load reads a .env file when present and then the process environment.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded, using environment variables")
	}

	cfg := &Config{
		SiteURL: strings.TrimSuffix(envStr("SITE_URL", "http://localhost:3000"), "/"),
		GitHub: GitHubConfig{
			User:         envStr("GITHUB_USER", "Arwindpianist"),
			Token:        envStr("GITHUB_TOKEN", ""),
			APIURL:       envStr("GITHUB_API_URL", "https://api.github.com"),
			OwnedDomains: envList("OWNED_DOMAINS", nil),
		},
		Vercel: VercelConfig{
			Token:       envStr("VERCEL_TOKEN", ""),
			APIURL:      envStr("VERCEL_API_URL", "https://api.vercel.com"),
			Concurrency: envInt("VERCEL_CONCURRENCY", 8),
		},
		Probe: ProbeConfig{
			BaseDomains: envList("PROBE_BASE_DOMAINS", nil),
			Labels:      envList("PROBE_LABELS", nil),
		},
		Stripe: StripeConfig{
			SecretKey:     envStr("STRIPE_SECRET_KEY", ""),
			WebhookSecret: envStr("STRIPE_WEBHOOK_SECRET", ""),
			PriceID:       envStr("STRIPE_PRICE_ID", ""),
		},
		Cookie: CookieConfig{
			Secret: envStr("COOKIE_SECRET", ""),
			Secure: envBool("COOKIE_SECURE", true),
			MaxAge: envDur("COOKIE_MAX_AGE", 365*24*time.Hour),
		},
		Redis:       LoadRedisConfig(),
		Cache:       LoadCacheConfig(),
		RateLimit:   LoadRateLimitConfig(),
		RabbitMQURL: envStr("RABBITMQ_URL", ""),
	}

	if cfg.Cookie.Secret == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		log.Warn().Msg("COOKIE_SECRET not set, access cookies will not survive a restart")
		cfg.Cookie.Secret = secret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.SiteURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("SITE_URL must be an absolute URL, got %q", c.SiteURL)
	}
	if c.GitHub.User == "" {
		return fmt.Errorf("GITHUB_USER is required")
	}
	if len(c.Cookie.Secret) < 16 {
		return fmt.Errorf("COOKIE_SECRET must be at least 16 bytes")
	}
	if c.Cookie.MaxAge <= 0 {
		return fmt.Errorf("COOKIE_MAX_AGE must be positive")
	}
	return nil
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate cookie secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
