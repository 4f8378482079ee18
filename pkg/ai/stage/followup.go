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

// FollowupGenerator drafts due-diligence questions for the founders.
type FollowupGenerator struct {
	llm    llm.LLMProvider
	model  string
	logger logger.ILogger
}

func NewFollowupGenerator(provider llm.LLMProvider, model string, log logger.ILogger) *FollowupGenerator {
	return &FollowupGenerator{llm: provider, model: model, logger: log}
}

func (f *FollowupGenerator) Generate(ctx context.Context, record *entity.AnalysisRecord) (*entity.FollowupQuestions, error) {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis: %w", err)
	}

	opts := []llm.Option{
		llm.WithSystemPrompt(constant.FollowupSystemPrompt),
		llm.WithJSONOutput(),
		llm.WithTemperature(0.4),
	}
	if f.model != "" {
		opts = append(opts, llm.WithModel(f.model))
	}

	raw, err := f.llm.Generate(ctx, "Investment analysis:\n"+string(data), opts...)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindCollaboratorOutage, err, "follow-up model call failed")
	}

	var out entity.FollowupQuestions
	if err := decodeStrict(raw, &out); err != nil {
		f.logger.Warn("FOLLOWUP", "Rejected follow-up output", map[string]interface{}{
			"error":  err.Error(),
			"output": truncate(raw, 200),
		})
		return nil, err
	}

	added := CoverFlagged(&out, record.FlaggedAnnotations())
	f.logger.Info("FOLLOWUP", "Follow-up questions generated", map[string]interface{}{
		"analysis_id": record.Id.String(),
		"questions":   len(out.Questions),
		"added":       added,
	})
	return &out, nil
}

// CoverFlagged appends a question for every flagged annotation whose field
// no existing question category references. It returns how many were added.
func CoverFlagged(out *entity.FollowupQuestions, flagged []entity.Annotation) int {
	added := 0
	for _, a := range flagged {
		if referencesField(out.Questions, a.Field) {
			continue
		}
		out.Questions = append(out.Questions, entity.FollowupQuestion{
			Question: flaggedQuestion(a),
			Category: a.Field,
			Context:  a.Note,
		})
		added++
	}
	return added
}

func referencesField(questions []entity.FollowupQuestion, field string) bool {
	field = strings.ToLower(field)
	for _, q := range questions {
		if containsField(strings.ToLower(q.Category), field) {
			return true
		}
	}
	return false
}

// containsField reports whether field appears in category as a whole path,
// so "team.founders[1]" does not match inside "team.founders[10]".
func containsField(category, field string) bool {
	if field == "" {
		return false
	}
	for from := 0; ; {
		i := strings.Index(category[from:], field)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(field)
		if (start == 0 || isFieldBoundary(category[start-1])) &&
			(end == len(category) || isFieldBoundary(category[end])) {
			return true
		}
		from = start + 1
	}
}

func isFieldBoundary(b byte) bool {
	switch b {
	case '.', '[', ' ', '\t', '\n', ',', ';', '/', '(', ')':
		return true
	}
	return false
}

func flaggedQuestion(a entity.Annotation) string {
	if a.Outcome == entity.OutcomeDiscrepancy {
		return fmt.Sprintf("Independent research contradicts the claim %q (%s). How do you reconcile this, and what data supports your figure?", a.Claim, a.Field)
	}
	return fmt.Sprintf("We could not independently verify the claim %q (%s). What evidence or sources support it?", a.Claim, a.Field)
}
