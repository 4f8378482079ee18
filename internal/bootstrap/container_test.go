package bootstrap

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"venture-ai-be/internal/apperror"
	"venture-ai-be/internal/config"
	"venture-ai-be/internal/dto"
	"venture-ai-be/internal/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		App:      config.AppConfig{Port: "0", BaseURL: "http://localhost:3000", Environment: "test"},
		Database: config.DatabaseConfig{AnalysisBackend: "memory"},
		Session:  config.SessionConfig{Backend: "memory", TTL: time.Hour},
		Artifact: config.ArtifactConfig{Backend: "local", Dir: t.TempDir()},
		Ai:       config.AIConfig{LLMProvider: "ollama", LLMModel: "llama3"},
		Search:   config.SearchConfig{SearxngURLs: []string{"http://127.0.0.1:1"}, CacheTTL: time.Minute},
		Pipeline: config.PipelineConfig{
			VerificationTimeout:     time.Second,
			LookupTimeout:           time.Second,
			VerificationConcurrency: 2,
			PipelineTimeout:         time.Minute,
			ContentMaxBytes:         1 << 20,
			JobTopic:                "TEST_JOBS",
		},
	}
}

func newTestContainer(t *testing.T, cfg *config.Config) (*Container, error) {
	t.Helper()
	return NewContainer(context.Background(), cfg, logger.NewNop(), Options{
		Registerer: prometheus.NewRegistry(),
		SkipEvents: true,
	})
}

func TestNewContainerWithMemoryBackends(t *testing.T) {
	c, err := newTestContainer(t, memoryConfig(t))
	require.NoError(t, err)

	assert.NotNil(t, c.SessionController)
	assert.NotNil(t, c.AnalysisController)
	assert.NotNil(t, c.JobController)
	assert.NotNil(t, c.ConsumerService)
	assert.Nil(t, c.NatsSubscriber)

	require.NoError(t, c.ConsumerService.Consume(context.Background()))
	assert.NoError(t, c.Close())
}

func TestServerContainerRefusesLocalContent(t *testing.T) {
	deck := filepath.Join(t.TempDir(), "deck.txt")
	require.NoError(t, os.WriteFile(deck, []byte("Acme Robotics. $1B TAM."), 0o644))

	c, err := newTestContainer(t, memoryConfig(t))
	require.NoError(t, err)
	defer c.Close()

	for _, ref := range []string{"file://" + deck, deck} {
		_, err := c.AnalysisService.Analyze(context.Background(), &dto.AnalyzeRequest{UserId: "u1", ContentRef: ref})
		require.Error(t, err, ref)
		assert.True(t, errors.Is(err, apperror.ErrContentUnavailable), "got %v", err)
		assert.Equal(t, "fetch", apperror.StageOf(err))
	}
}

func TestNewContainerRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		errMsg string
	}{
		{
			name:   "postgres without dsn",
			mutate: func(c *config.Config) { c.Database.AnalysisBackend = "postgres" },
			errMsg: "DB_CONNECTION_STRING",
		},
		{
			name:   "unknown session backend",
			mutate: func(c *config.Config) { c.Session.Backend = "etcd" },
			errMsg: "unsupported session backend",
		},
		{
			name:   "unknown artifact backend",
			mutate: func(c *config.Config) { c.Artifact.Backend = "s3" },
			errMsg: "unsupported artifact backend",
		},
		{
			name:   "gcs without bucket",
			mutate: func(c *config.Config) { c.Artifact.Backend = "gcs" },
			errMsg: "GCS_BUCKET_NAME",
		},
		{
			name:   "unknown llm provider",
			mutate: func(c *config.Config) { c.Ai.LLMProvider = "markov" },
			errMsg: "unsupported LLM provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := memoryConfig(t)
			tt.mutate(cfg)

			_, err := newTestContainer(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
