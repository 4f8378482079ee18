package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"venture-ai-be/internal/bootstrap"
	"venture-ai-be/internal/config"
	"venture-ai-be/internal/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, authEnabled bool) *Server {
	t.Helper()
	cfg := &config.Config{
		App: config.AppConfig{
			Port:               "0",
			BaseURL:            "http://localhost:3000",
			Environment:        "test",
			CorsAllowedOrigins: "*",
			AuthEnabled:        authEnabled,
			JwtSecret:          "test-secret",
		},
		Database: config.DatabaseConfig{AnalysisBackend: "memory"},
		Session:  config.SessionConfig{Backend: "memory", TTL: time.Hour},
		Artifact: config.ArtifactConfig{Backend: "local", Dir: t.TempDir()},
		Ai:       config.AIConfig{LLMProvider: "ollama", LLMModel: "llama3"},
		Search:   config.SearchConfig{SearxngURLs: []string{"http://127.0.0.1:1"}, CacheTTL: time.Minute},
		Pipeline: config.PipelineConfig{PipelineTimeout: time.Minute, JobTopic: "TEST_JOBS", ContentMaxBytes: 1 << 20},
	}

	c, err := bootstrap.NewContainer(context.Background(), cfg, logger.NewNop(), bootstrap.Options{
		Registerer: prometheus.NewRegistry(),
		SkipEvents: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return New(cfg, c)
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t, false)

	resp, err := srv.GetApp().Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = srv.GetApp().Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSessionRoundTripWithoutAuth(t *testing.T) {
	srv := newTestServer(t, false)

	req := httptest.NewRequest(http.MethodPost, "/api/sessions", strings.NewReader(`{"user_id":"alice"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.GetApp().Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Data struct {
			SessionId string `json:"session_id"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.Data.SessionId)

	get := httptest.NewRequest(http.MethodGet, "/api/sessions/"+body.Data.SessionId+"?user_id=alice", nil)
	resp, err = srv.GetApp().Test(get)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthEnabledRejectsAnonymousRequests(t *testing.T) {
	srv := newTestServer(t, true)

	req := httptest.NewRequest(http.MethodPost, "/api/sessions", strings.NewReader(`{"user_id":"alice"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.GetApp().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
