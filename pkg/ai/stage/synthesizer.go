package stage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"venture-ai-be/internal/apperror"
	"venture-ai-be/internal/constant"
	"venture-ai-be/internal/entity"
	"venture-ai-be/internal/pkg/logger"
	"venture-ai-be/pkg/llm"

	"github.com/google/uuid"
)

type SynthesisInput struct {
	Request     *entity.PipelineRequest
	Claims      *entity.Claims
	Annotations []entity.Annotation
}

// Synthesizer produces the final AnalysisRecord from claims and annotations.
type Synthesizer struct {
	llm    llm.LLMProvider
	model  string
	logger logger.ILogger
	now    func() time.Time
}

func NewSynthesizer(provider llm.LLMProvider, model string, log logger.ILogger) *Synthesizer {
	return &Synthesizer{llm: provider, model: model, logger: log, now: time.Now}
}

type synthesisOutput struct {
	Summary        string                `json:"summary" validate:"required"`
	Recommendation entity.Recommendation `json:"recommendation" validate:"required"`
}

func (s *Synthesizer) Synthesize(ctx context.Context, in SynthesisInput) (*entity.AnalysisRecord, error) {
	payload, err := json.MarshalIndent(struct {
		Claims      *entity.Claims      `json:"claims"`
		Annotations []entity.Annotation `json:"verification"`
	}{in.Claims, in.Annotations}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode synthesis input: %w", err)
	}

	opts := []llm.Option{
		llm.WithSystemPrompt(constant.SynthesisSystemPrompt),
		llm.WithJSONOutput(),
		llm.WithTemperature(0.3),
	}
	if s.model != "" {
		opts = append(opts, llm.WithModel(s.model))
	}

	raw, err := s.llm.Generate(ctx, string(payload), opts...)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindCollaboratorOutage, err, "synthesis model call failed")
	}

	var out synthesisOutput
	if err := decodeStrict(raw, &out); err != nil {
		s.logger.Warn("SYNTHESIS", "Rejected synthesis output", map[string]interface{}{
			"error":  err.Error(),
			"output": truncate(raw, 200),
		})
		return nil, err
	}

	annotations := in.Annotations
	if annotations == nil {
		annotations = []entity.Annotation{}
	}
	out.Recommendation.Rationale = LeadWithFlagged(out.Recommendation.Rationale, annotations)

	req := in.Request
	record := &entity.AnalysisRecord{
		Id:             uuid.New(),
		UserId:         req.UserId,
		SessionId:      req.SessionId,
		CompanyName:    in.Claims.CompanyName,
		TechField:      req.TechField,
		CompanyWebsite: req.CompanyWebsite,
		ContentRef:     req.ContentRef,
		Summary:        out.Summary,
		Claims:         *in.Claims,
		Annotations:    annotations,
		Recommendation: out.Recommendation,
		CreatedAt:      s.now().UTC(),
	}
	if err := entity.Validate(record); err != nil {
		return nil, apperror.Wrap(apperror.KindSchemaValidation, err, "analysis record failed validation")
	}

	s.logger.Info("SYNTHESIS", "Analysis synthesized", map[string]interface{}{
		"analysis_id": record.Id.String(),
		"outcome":     string(record.Recommendation.Outcome),
		"flagged":     len(record.FlaggedAnnotations()),
	})
	return record, nil
}

// LeadWithFlagged prepends every flagged claim the rationale does not
// already mention, so discrepancies and unverified claims come first.
func LeadWithFlagged(rationale string, annotations []entity.Annotation) string {
	lower := strings.ToLower(rationale)
	var missing []string
	for _, a := range annotations {
		if !a.Flagged() {
			continue
		}
		if strings.Contains(lower, strings.ToLower(a.Claim)) || strings.Contains(lower, strings.ToLower(a.Field)) {
			continue
		}
		state := "unverified"
		if a.Outcome == entity.OutcomeDiscrepancy {
			state = "contradicted by research"
		}
		missing = append(missing, fmt.Sprintf("%s %q (%s)", a.Field, a.Claim, state))
	}
	if len(missing) == 0 {
		return rationale
	}
	return "Flagged claims: " + strings.Join(missing, "; ") + ". " + rationale
}
