package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/payinstr/internal/adapter/http/middleware"
	"github.com/iho/payinstr/internal/infrastructure/auth"
	"github.com/iho/payinstr/internal/infrastructure/config"
)

const body = `{"accounts":[{"id":"a","balance":100,"currency":"NGN"},{"id":"b","balance":0,"currency":"NGN"}],
	"instruction":"DEBIT 40 NGN FROM ACCOUNT a FOR CREDIT TO ACCOUNT b"}`

func useFreshRegistry(t *testing.T) {
	t.Helper()

	registry := prometheus.NewRegistry()
	origRegisterer, origGatherer := prometheus.DefaultRegisterer, prometheus.DefaultGatherer
	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry
	t.Cleanup(func() {
		prometheus.DefaultRegisterer = origRegisterer
		prometheus.DefaultGatherer = origGatherer
	})
}

func baseConfig() *config.Config {
	return &config.Config{
		HTTPPort:            "0",
		HTTPShutdownTimeout: time.Second,
		JWTExpiration:       time.Hour,
		RateLimitBurst:      20,
		IdempotencyTTL:      time.Minute,
	}
}

func TestNewApp_MinimalConfig(t *testing.T) {
	useFreshRegistry(t)

	a, err := newApp(context.Background(), baseConfig(), zerolog.Nop())
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.pool)
	assert.Nil(t, a.redisClient)
	assert.Equal(t, ":0", a.server.Addr)

	rec := httptest.NewRecorder()
	a.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/payment-instructions", strings.NewReader(body)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status_code":"AP00"`)

	// Audit trail is unavailable without a database.
	rec = httptest.NewRecorder()
	a.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/payment-instructions/audit", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	a.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "payinstr_instructions_processed_total")
}

func TestNewApp_WithRedisAndAuth(t *testing.T) {
	useFreshRegistry(t)
	mr := miniredis.RunT(t)

	cfg := baseConfig()
	cfg.RedisURL = "redis://" + mr.Addr()
	cfg.AuthEnabled = true
	cfg.JWTSecret = "server-secret"
	cfg.RateLimitRPS = 100

	a, err := newApp(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.redisClient)

	rec := httptest.NewRecorder()
	a.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/payment-instructions", strings.NewReader(body)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := auth.NewJWTManager(cfg.JWTSecret, time.Hour).Generate("client-1")
	require.NoError(t, err)

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/payment-instructions", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set(middleware.IdempotencyKeyHeader, "order-1")
		rec := httptest.NewRecorder()
		a.server.Handler.ServeHTTP(rec, req)
		return rec
	}

	first := send()
	require.Equal(t, http.StatusOK, first.Code)
	assert.Empty(t, first.Header().Get(middleware.IdempotencyReplayHeader))

	second := send()
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "true", second.Header().Get(middleware.IdempotencyReplayHeader))
	assert.Equal(t, first.Body.String(), second.Body.String())

	rec = httptest.NewRecorder()
	a.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redis":"ok"`)
}

func TestNewApp_InvalidRedisURL(t *testing.T) {
	useFreshRegistry(t)

	cfg := baseConfig()
	cfg.RedisURL = "not-a-redis-url"

	_, err := newApp(context.Background(), cfg, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect to redis")
}
