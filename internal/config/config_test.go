package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "3000", cfg.App.Port)
	assert.Equal(t, 60*time.Second, cfg.Pipeline.VerificationTimeout)
	assert.Equal(t, 4, cfg.Pipeline.VerificationConcurrency)
	assert.Equal(t, "ANALYSIS_JOBS", cfg.Pipeline.JobTopic)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("VERIFICATION_TIMEOUT", "90s")
	t.Setenv("VERIFICATION_CONCURRENCY", "8")
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("SEARXNG_URLS", "http://a:8080/, http://b:8080 ,,")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.App.AuthEnabled)
	assert.Equal(t, 90*time.Second, cfg.Pipeline.VerificationTimeout)
	assert.Equal(t, 8, cfg.Pipeline.VerificationConcurrency)
	assert.Equal(t, []string{"http://a:8080", "http://b:8080"}, cfg.Search.SearxngURLs)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("VERIFICATION_TIMEOUT", "soon")
	t.Setenv("VERIFICATION_CONCURRENCY", "many")

	cfg := Load()

	assert.Equal(t, 60*time.Second, cfg.Pipeline.VerificationTimeout)
	assert.Equal(t, 4, cfg.Pipeline.VerificationConcurrency)
}
