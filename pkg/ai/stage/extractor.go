package stage

import (
	"context"
	"strings"

	"venture-ai-be/internal/apperror"
	"venture-ai-be/internal/constant"
	"venture-ai-be/internal/entity"
	"venture-ai-be/internal/pkg/logger"
	"venture-ai-be/pkg/content"
	"venture-ai-be/pkg/llm"
)

// Extractor turns raw deck text into a validated Claims record.
type Extractor struct {
	llm    llm.LLMProvider
	model  string
	logger logger.ILogger
}

func NewExtractor(provider llm.LLMProvider, model string, log logger.ILogger) *Extractor {
	return &Extractor{llm: provider, model: model, logger: log}
}

func (e *Extractor) Extract(ctx context.Context, doc *content.Document) (*entity.Claims, error) {
	if doc == nil || strings.TrimSpace(doc.Text) == "" {
		return nil, apperror.New(apperror.KindContentUnavailable, "document has no text to extract")
	}

	opts := []llm.Option{
		llm.WithSystemPrompt(constant.ExtractionSystemPrompt),
		llm.WithJSONOutput(),
		llm.WithTemperature(0.1),
	}
	if e.model != "" {
		opts = append(opts, llm.WithModel(e.model))
	}

	raw, err := e.llm.Generate(ctx, "Pitch deck content:\n\n"+doc.Text, opts...)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindCollaboratorOutage, err, "extraction model call failed")
	}

	var claims entity.Claims
	if err := decodeStrict(raw, &claims); err != nil {
		e.logger.Warn("EXTRACT", "Rejected extraction output", map[string]interface{}{
			"error":  err.Error(),
			"output": truncate(raw, 200),
		})
		return nil, err
	}

	e.logger.Info("EXTRACT", "Claims extracted", map[string]interface{}{
		"company":  claims.CompanyName,
		"founders": len(claims.Team.Founders),
	})
	return &claims, nil
}
