package router

import (
	"context"
	"unicode/utf8"

	"venture-ai-be/internal/apperror"
	"venture-ai-be/internal/entity"
	"venture-ai-be/internal/metrics"
	"venture-ai-be/internal/pkg/logger"

	"github.com/google/uuid"
)

// Handlers runs each task kind. The router owns no pipeline state.
type Handlers interface {
	RunFullAnalysis(ctx context.Context, req *entity.PipelineRequest) (*entity.AnalysisRecord, error)
	RunInvestorQuery(ctx context.Context, req *entity.PipelineRequest) (*entity.QueryAnswer, error)
	RunFollowup(ctx context.Context, req *entity.PipelineRequest) (*entity.FollowupResult, error)
}

// AnalysisResolver resolves an analysis reference found in the intent.
type AnalysisResolver interface {
	Resolve(ctx context.Context, ref ParsedReference) (uuid.UUID, error)
}

// ExecuteResult carries exactly one populated payload, matching Kind.
type ExecuteResult struct {
	Kind     TaskKind               `json:"task"`
	Analysis *entity.AnalysisRecord `json:"analysis,omitempty"`
	Answer   *entity.QueryAnswer    `json:"answer,omitempty"`
	Followup *entity.FollowupResult `json:"followup,omitempty"`
}

type Router struct {
	handlers Handlers
	resolver AnalysisResolver
	logger   logger.ILogger
	metrics  *metrics.Metrics
}

func NewRouter(handlers Handlers, resolver AnalysisResolver, log logger.ILogger, m *metrics.Metrics) *Router {
	return &Router{handlers: handlers, resolver: resolver, logger: log, metrics: m}
}

// Execute classifies req and dispatches it to one handler.
func (r *Router) Execute(ctx context.Context, req *entity.PipelineRequest) (*ExecuteResult, error) {
	kind, err := Classify(req)
	if err != nil {
		details := map[string]interface{}{"error": err.Error()}
		if req != nil {
			details["intent"] = truncateLog(req.Intent, 50)
			details["has_content"] = req.HasContent()
		}
		r.logger.Info("ROUTER", "Unroutable request", details)
		r.metrics.RecordTask("unroutable", string(apperror.KindUnroutableRequest))
		return nil, err
	}

	return r.Run(ctx, kind, req)
}

// Run dispatches req to the handler for kind without classifying it. The
// direct endpoints use it so every task is logged and counted the same way.
func (r *Router) Run(ctx context.Context, kind TaskKind, req *entity.PipelineRequest) (*ExecuteResult, error) {
	if !kind.Valid() {
		return nil, apperror.New(apperror.KindUnroutableRequest, "unknown task kind "+string(kind))
	}
	if req == nil {
		return nil, apperror.New(apperror.KindInvalidRequest, "request is required")
	}
	r.logger.Info("ROUTER", "Request routed", map[string]interface{}{
		"task":       string(kind),
		"session_id": req.SessionId,
		"intent":     truncateLog(req.Intent, 50),
	})

	result, err := r.dispatch(ctx, kind, req)
	r.metrics.RecordTask(string(kind), string(apperror.KindOf(err)))
	if err != nil {
		r.logger.Warn("ROUTER", "Task failed", map[string]interface{}{
			"task":  string(kind),
			"kind":  string(apperror.KindOf(err)),
			"stage": apperror.StageOf(err),
			"error": err.Error(),
		})
		return nil, err
	}
	return result, nil
}

func (r *Router) dispatch(ctx context.Context, kind TaskKind, req *entity.PipelineRequest) (*ExecuteResult, error) {
	switch kind {
	case TaskFullAnalysis:
		record, err := r.handlers.RunFullAnalysis(ctx, req)
		if err != nil {
			return nil, err
		}
		return &ExecuteResult{Kind: kind, Analysis: record}, nil

	case TaskInvestorQuery:
		target, err := r.targeted(ctx, req)
		if err != nil {
			return nil, err
		}
		answer, err := r.handlers.RunInvestorQuery(ctx, target)
		if err != nil {
			return nil, err
		}
		return &ExecuteResult{Kind: kind, Answer: answer}, nil

	case TaskFollowupQuestions:
		target, err := r.targeted(ctx, req)
		if err != nil {
			return nil, err
		}
		followup, err := r.handlers.RunFollowup(ctx, target)
		if err != nil {
			return nil, err
		}
		return &ExecuteResult{Kind: kind, Followup: followup}, nil
	}
	return nil, apperror.New(apperror.KindUnroutableRequest, "unknown task kind "+string(kind))
}

// targeted strips analysis references from the intent and, when one is
// present and no explicit id was given, resolves it into AnalysisId.
func (r *Router) targeted(ctx context.Context, req *entity.PipelineRequest) (*entity.PipelineRequest, error) {
	parsed := ParseReferences(req.Intent)
	if !parsed.HasRefs {
		return req, nil
	}
	if err := ValidateReferences(parsed.References); err != nil {
		return nil, err
	}

	out := *req
	out.Intent = parsed.CleanPrompt
	if out.AnalysisId != "" || r.resolver == nil {
		return &out, nil
	}

	id, err := r.resolver.Resolve(ctx, parsed.References[0])
	if err != nil {
		return nil, err
	}
	out.AnalysisId = id.String()
	r.logger.Debug("ROUTER", "Analysis reference resolved", map[string]interface{}{
		"reference":   parsed.References[0].OriginalRaw,
		"analysis_id": out.AnalysisId,
	})
	return &out, nil
}

// truncateLog keeps at most maxLen runes.
func truncateLog(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen]) + "..."
}
