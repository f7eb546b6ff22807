package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/arwindpianist/showcase/internal/config"
)

var tokenBucket = redis.NewScript(`
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill_tokens = tonumber(ARGV[3])
local interval_ms = tonumber(ARGV[4])
local ttl_seconds = tonumber(ARGV[5])

local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])
if tokens == nil or last_refill == nil then
	tokens = capacity
	last_refill = now_ms
end

local elapsed = math.max(0, now_ms - last_refill)
local intervals = math.floor(elapsed / interval_ms)
if intervals > 0 then
	tokens = math.min(capacity, tokens + intervals * refill_tokens)
	last_refill = last_refill + intervals * interval_ms
end

local allowed = 0
local retry_after_ms = 0
if tokens > 0 then
	allowed = 1
	tokens = tokens - 1
else
	retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
end

redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
redis.call('EXPIRE', key, ttl_seconds)
return { allowed, tokens, retry_after_ms }
`)

type decision struct {
	allowed   bool
	remaining int64
	retry     time.Duration
}

// NewTokenBucket limits requests per client IP and route. Buckets live in
// Redis when rdb is set; otherwise, or when Redis errors, an in-process
// limiter is used.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled {
		return passThrough
	}
	local := newLocalLimiter(cfg)
	now := time.Now

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := rateKey(cfg, c)
			ctx := c.Request().Context()

			var d decision
			redisOK := false
			if rdb != nil {
				var err error
				d, err = redisDecision(c, rdb, cfg, key, now())
				if err == nil {
					redisOK = true
				} else {
					zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("redis rate limit failed, using local limiter")
				}
			}
			if !redisOK {
				d = local.decide(key, now())
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(d.remaining, 10))
			if !d.allowed {
				secs := int(math.Ceil(d.retry.Seconds()))
				h.Set("Retry-After", strconv.Itoa(secs))
				zerolog.Ctx(ctx).Info().Str("key", key).Msg("rate limited")
				return c.JSON(http.StatusTooManyRequests, map[string]any{
					"error":       "Too many requests",
					"retry_after": secs,
				})
			}
			return next(c)
		}
	}
}

func redisDecision(c echo.Context, rdb *redis.Client, cfg config.RateLimitConfig, key string, now time.Time) (decision, error) {
	vals, err := tokenBucket.Run(c.Request().Context(), rdb, []string{key},
		now.UnixMilli(),
		cfg.Capacity,
		cfg.RefillTokens,
		cfg.RefillInterval.Milliseconds(),
		int64(cfg.TTL/time.Second),
	).Int64Slice()
	if err != nil {
		return decision{}, err
	}
	if len(vals) != 3 {
		return decision{}, redis.Nil
	}
	return decision{
		allowed:   vals[0] == 1,
		remaining: vals[1],
		retry:     time.Duration(vals[2]) * time.Millisecond,
	}, nil
}

func rateKey(cfg config.RateLimitConfig, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	return strings.Join([]string{cfg.Prefix, "ip", ip, "route", c.Request().Method + " " + c.Path()}, ":")
}

type localEntry struct {
	limiter *rate.Limiter
	seen    time.Time
}

// localLimiter is the in-process fallback. Idle buckets are pruned after TTL.
type localLimiter struct {
	mu      sync.Mutex
	cfg     config.RateLimitConfig
	entries map[string]*localEntry
	pruned  time.Time
}

func newLocalLimiter(cfg config.RateLimitConfig) *localLimiter {
	return &localLimiter{cfg: cfg, entries: map[string]*localEntry{}}
}

func (l *localLimiter) decide(key string, now time.Time) decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.pruned) > l.cfg.TTL {
		for k, e := range l.entries {
			if now.Sub(e.seen) > l.cfg.TTL {
				delete(l.entries, k)
			}
		}
		l.pruned = now
	}

	e, ok := l.entries[key]
	if !ok {
		every := l.cfg.RefillInterval / time.Duration(max(l.cfg.RefillTokens, 1))
		e = &localEntry{limiter: rate.NewLimiter(rate.Every(every), l.cfg.Capacity)}
		l.entries[key] = e
	}
	e.seen = now

	r := e.limiter.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return decision{retry: delay, remaining: 0}
	}
	return decision{allowed: true, remaining: int64(e.limiter.TokensAt(now))}
}
