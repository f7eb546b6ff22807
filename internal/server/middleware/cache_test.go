package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arwindpianist/showcase/internal/config"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func testCacheConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{"GET": true},
		TTL:          time.Minute,
		Prefix:       "cache",
		MaxBodyBytes: 1 << 20,
	}
}

func serve(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestRedisCache(t *testing.T) {
	mr, rdb := newTestRedis(t)
	var calls atomic.Int32

	e := echo.New()
	e.Use(NewRedisCache(testCacheConfig(), rdb))
	e.GET("/api/projects", func(c echo.Context) error {
		calls.Add(1)
		c.SetCookie(&http.Cookie{Name: "session", Value: "x"})
		return c.JSON(http.StatusOK, map[string]any{"page": c.QueryParam("page")})
	})
	e.GET("/api/broken", func(c echo.Context) error {
		calls.Add(1)
		return c.JSON(http.StatusInternalServerError, map[string]any{"success": false})
	})

	first := serve(e, http.MethodGet, "/api/projects?page=1")
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := serve(e, http.MethodGet, "/api/projects?page=1")
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, first.Header().Get(echo.HeaderContentType), second.Header().Get(echo.HeaderContentType))
	assert.Empty(t, second.Header().Values("Set-Cookie"))
	assert.EqualValues(t, 1, calls.Load())

	third := serve(e, http.MethodGet, "/api/projects?page=2")
	assert.Equal(t, "MISS", third.Header().Get("X-Cache"))
	assert.EqualValues(t, 2, calls.Load())

	serve(e, http.MethodGet, "/api/broken")
	serve(e, http.MethodGet, "/api/broken")
	assert.EqualValues(t, 4, calls.Load())

	mr.FastForward(2 * time.Minute)
	assert.Equal(t, "MISS", serve(e, http.MethodGet, "/api/projects?page=1").Header().Get("X-Cache"))
}

func TestRedisCachePassThrough(t *testing.T) {
	var calls atomic.Int32
	e := echo.New()
	e.Use(NewRedisCache(testCacheConfig(), nil))
	e.GET("/", func(c echo.Context) error {
		calls.Add(1)
		return c.String(http.StatusOK, "ok")
	})

	serve(e, http.MethodGet, "/")
	rec := serve(e, http.MethodGet, "/")
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.EqualValues(t, 2, calls.Load())
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"a":1}`))
	require.NoError(t, err)

	status, got, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, got)
	assert.Equal(t, `{"a":1}`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 0})
	assert.False(t, ok)
	_, _, _, ok = decodePayload([]byte{0, 0, 0, 200, 0, 0, 0, 99})
	assert.False(t, ok)
}
