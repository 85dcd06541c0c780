package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/car-rental-reservation/internal/config"
)

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": []string{"application/json"}, "X-Extra": []string{"a", "b"}}
	body := []byte(`{"ok":true}`)

	bs, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, gotHdr)
	assert.Equal(t, body, gotBody)
}

func TestDecodePayloadRejectsTruncated(t *testing.T) {
	_, _, _, ok := decodePayload([]byte{0, 0})
	assert.False(t, ok)
	_, _, _, ok = decodePayload(nil)
	assert.False(t, ok)
}

func TestCacheKeyDependsOnStrategy(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cars", KeyStrategy: "route_query"}
	e := echo.New()

	ctxFor := func(target string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/v1/cars")
		return c
	}

	k1 := cacheKeyFrom(cfg, ctxFor("/v1/cars?group=SUV"))
	k2 := cacheKeyFrom(cfg, ctxFor("/v1/cars?group=SUV"))
	k3 := cacheKeyFrom(cfg, ctxFor("/v1/cars?group=Mini"))
	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)

	// The route strategy ignores the query string.
	cfg.KeyStrategy = "route"
	assert.Equal(t, cacheKeyFrom(cfg, ctxFor("/v1/cars?group=SUV")), cacheKeyFrom(cfg, ctxFor("/v1/cars?group=Mini")))
}

func TestDisabledCacheIsPassThrough(t *testing.T) {
	mw := NewRedisCache(config.CacheConfig{Enabled: false}, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/cars", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	err := mw(func(echo.Context) error {
		called = true
		return c.String(http.StatusOK, "ok")
	})(c)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}
