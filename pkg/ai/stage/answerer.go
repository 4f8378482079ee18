package stage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"venture-ai-be/internal/apperror"
	"venture-ai-be/internal/constant"
	"venture-ai-be/internal/entity"
	"venture-ai-be/internal/pkg/logger"
	"venture-ai-be/pkg/llm"
)

// Answerer answers free-text questions grounded in one analysis record.
type Answerer struct {
	llm    llm.LLMProvider
	model  string
	logger logger.ILogger
}

func NewAnswerer(provider llm.LLMProvider, model string, log logger.ILogger) *Answerer {
	return &Answerer{llm: provider, model: model, logger: log}
}

func (a *Answerer) Answer(ctx context.Context, record *entity.AnalysisRecord, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", apperror.New(apperror.KindInvalidRequest, "question is required")
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode analysis: %w", err)
	}
	prompt := fmt.Sprintf("Analysis data:\n%s\n\nInvestor question: %s", data, question)

	opts := []llm.Option{
		llm.WithSystemPrompt(constant.QuerySystemPrompt),
		llm.WithTemperature(0.2),
	}
	if a.model != "" {
		opts = append(opts, llm.WithModel(a.model))
	}

	answer, err := a.llm.Generate(ctx, prompt, opts...)
	if err != nil {
		return "", apperror.Wrap(apperror.KindCollaboratorOutage, err, "query model call failed")
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", apperror.New(apperror.KindSchemaValidation, "model returned an empty answer")
	}

	a.logger.Debug("QUERY", "Question answered", map[string]interface{}{
		"analysis_id": record.Id.String(),
		"question":    truncate(question, 80),
	})
	return answer, nil
}
