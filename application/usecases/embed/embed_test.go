package embed_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ryos-app/ryos-server/application/usecases/embed"
	"github.com/ryos-app/ryos-server/infrastructure/cache"
	"github.com/ryos-app/ryos-server/infrastructure/config"
	"github.com/ryos-app/ryos-server/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestUseCase(t *testing.T) embed.EmbedUseCase {
	t.Helper()

	verdictCache := cache.NewLocal(cache.Options{CleanupInterval: time.Minute})
	t.Cleanup(verdictCache.Close)

	cfg := &config.ProxyConfig{
		FetchTimeout:     5 * time.Second,
		MaxBodyBytes:     1 << 20,
		FetchesPerSecond: 100,
		FetchBurst:       100,
		VerdictCacheTTL:  time.Minute,
	}

	return embed.NewEmbedUseCase(cfg, verdictCache, &logger.Logger{Log: zap.NewNop()})
}

func TestCheck_FrameOptionsDeny(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>Blocked Site</title></head></html>`))
	}))
	defer upstream.Close()

	uc := newTestUseCase(t)

	verdict, err := uc.Check(context.Background(), upstream.URL)

	require.NoError(t, err)
	assert.False(t, verdict.Allowed)
	assert.Contains(t, verdict.Reason, "X-Frame-Options")
	assert.Equal(t, "Blocked Site", verdict.Title)
}

func TestCheck_RestrictiveFrameAncestors(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; frame-ancestors 'self'")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html></html>`))
	}))
	defer upstream.Close()

	uc := newTestUseCase(t)

	verdict, err := uc.Check(context.Background(), upstream.URL)

	require.NoError(t, err)
	assert.False(t, verdict.Allowed)
	assert.Contains(t, verdict.Reason, "frame-ancestors")
}

func TestCheck_Embeddable(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>Open Site</title></head></html>`))
	}))
	defer upstream.Close()

	uc := newTestUseCase(t)

	verdict, err := uc.Check(context.Background(), upstream.URL)

	require.NoError(t, err)
	assert.True(t, verdict.Allowed)
	assert.Empty(t, verdict.Reason)
	assert.Equal(t, "Open Site", verdict.Title)
}

func TestCheck_CachesVerdict(t *testing.T) {
	var hits int
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html></html>`))
	}))
	defer upstream.Close()

	uc := newTestUseCase(t)

	_, err := uc.Check(context.Background(), upstream.URL)
	require.NoError(t, err)
	_, err = uc.Check(context.Background(), upstream.URL)
	require.NoError(t, err)

	assert.Equal(t, 1, hits)
}

func TestProxy_RewritesHTML(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head><title>t</title></head><body></body></html>`))
	}))
	defer upstream.Close()

	uc := newTestUseCase(t)

	result, err := uc.Proxy(context.Background(), upstream.URL, embed.ProxyOptions{})

	require.NoError(t, err)
	assert.True(t, result.IsHTML)
	body := string(result.Body)
	assert.Equal(t, 1, strings.Count(body, "<base "))
	assert.Contains(t, body, "postMessage")
}

func TestProxy_PassesThroughNonHTML(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"key":"value"}`))
	}))
	defer upstream.Close()

	uc := newTestUseCase(t)

	result, err := uc.Proxy(context.Background(), upstream.URL, embed.ProxyOptions{})

	require.NoError(t, err)
	assert.False(t, result.IsHTML)
	assert.Equal(t, `{"key":"value"}`, string(result.Body))
}

func TestProxy_UpstreamHTTPError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer upstream.Close()

	uc := newTestUseCase(t)

	_, err := uc.Proxy(context.Background(), upstream.URL, embed.ProxyOptions{})

	var upstreamErr *embed.UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, "http_error", upstreamErr.Type)
	assert.Equal(t, http.StatusNotFound, upstreamErr.StatusCode)
}

func TestProxy_UnreachableHost(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := upstream.URL
	upstream.Close()

	uc := newTestUseCase(t)

	_, err := uc.Proxy(context.Background(), target, embed.ProxyOptions{})

	var upstreamErr *embed.UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, "connection_error", upstreamErr.Type)
	assert.Equal(t, http.StatusServiceUnavailable, upstreamErr.StatusCode)
}
