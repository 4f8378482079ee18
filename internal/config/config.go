package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Session  SessionConfig
	Artifact ArtifactConfig
	Ai       AIConfig
	Search   SearchConfig
	Pipeline PipelineConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	OtelEnabled        bool
	OtelEndpoint       string
	AuthEnabled        bool
	JwtSecret          string
}

type DatabaseConfig struct {
	Connection      string
	AnalysisBackend string // "postgres" or "memory"
}

type SessionConfig struct {
	Backend           string // "memory", "redis" or "firestore"
	TTL               time.Duration
	FirestoreProject  string
	FirestoreDatabase string
}

type ArtifactConfig struct {
	Backend   string // "local" or "gcs"
	Dir       string
	GCSBucket string
}

type AIConfig struct {
	LLMProvider    string // "genai", "ollama" or "huggingface"
	LLMModel       string
	SynthesisModel string // optional heavier model for the synthesis stage
	OllamaBaseURL  string
	GeminiAPIKey   string
	HuggingFaceKey string
	HuggingFaceURL string
}

type SearchConfig struct {
	SearxngURLs []string
	CacheTTL    time.Duration
}

type PipelineConfig struct {
	VerificationTimeout     time.Duration
	LookupTimeout           time.Duration
	VerificationConcurrency int
	PipelineTimeout         time.Duration
	ContentMaxBytes         int64
	JobTopic                string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
			OtelEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			AuthEnabled:        getEnvAsBool("AUTH_ENABLED", false),
			JwtSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection:      getEnv("DB_CONNECTION_STRING", ""),
			AnalysisBackend: getEnv("ANALYSIS_BACKEND", "postgres"),
		},
		Session: SessionConfig{
			Backend:           getEnv("SESSION_BACKEND", "memory"),
			TTL:               getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			FirestoreProject:  getEnv("FIRESTORE_PROJECT", getEnv("PROJECT_ID", "")),
			FirestoreDatabase: getEnv("FIRESTORE_DATABASE", "(default)"),
		},
		Artifact: ArtifactConfig{
			Backend:   getEnv("ARTIFACT_BACKEND", "local"),
			Dir:       getEnv("ARTIFACT_DIR", "./uploads"),
			GCSBucket: getEnv("GCS_BUCKET_NAME", ""),
		},
		Ai: AIConfig{
			LLMProvider:    getEnv("LLM_PROVIDER", "genai"),
			LLMModel:       getEnv("LLM_MODEL", "gemini-2.5-flash"),
			SynthesisModel: getEnv("LLM_SYNTHESIS_MODEL", ""),
			OllamaBaseURL:  getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			GeminiAPIKey:   getEnv("GOOGLE_GEMINI_API_KEY", ""),
			HuggingFaceKey: getEnv("HUGGINGFACE_API_KEY", ""),
			HuggingFaceURL: getEnv("HUGGINGFACE_BASE_URL", ""),
		},
		Search: SearchConfig{
			SearxngURLs: getEnvAsList("SEARXNG_URLS", []string{getEnv("SEARXNG_URL", "http://localhost:8080")}),
			CacheTTL:    getEnvAsDuration("SEARCH_CACHE_TTL", 30*time.Minute),
		},
		Pipeline: PipelineConfig{
			VerificationTimeout:     getEnvAsDuration("VERIFICATION_TIMEOUT", 60*time.Second),
			LookupTimeout:           getEnvAsDuration("LOOKUP_TIMEOUT", 15*time.Second),
			VerificationConcurrency: getEnvAsInt("VERIFICATION_CONCURRENCY", 4),
			PipelineTimeout:         getEnvAsDuration("PIPELINE_TIMEOUT", 5*time.Minute),
			ContentMaxBytes:         int64(getEnvAsInt("CONTENT_MAX_BYTES", 20*1024*1024)),
			JobTopic:                getEnv("JOB_TOPIC", "ANALYSIS_JOBS"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsList splits a comma-separated value, dropping blanks and trailing slashes.
func getEnvAsList(key string, fallback []string) []string {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(strValue, ",") {
		trimmed := strings.TrimSuffix(strings.TrimSpace(part), "/")
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
