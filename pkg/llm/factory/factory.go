package factory

import (
	"context"
	"fmt"

	"venture-ai-be/pkg/llm"
	"venture-ai-be/pkg/llm/gemini"
	"venture-ai-be/pkg/llm/huggingface"
	"venture-ai-be/pkg/llm/ollama"
)

type ProviderConfig struct {
	Provider       string
	Model          string
	OllamaBaseURL  string
	GeminiAPIKey   string
	HuggingFaceKey string
	HuggingFaceURL string
}

func NewLLMProvider(ctx context.Context, cfg ProviderConfig) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case "genai", "gemini":
		return gemini.NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.Model)
	case "ollama":
		baseURL := cfg.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, cfg.Model), nil
	case "huggingface":
		return huggingface.NewHuggingFaceProvider(cfg.HuggingFaceKey, cfg.HuggingFaceURL, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
