package router

import (
	"regexp"
	"strings"

	"venture-ai-be/internal/apperror"
	"venture-ai-be/internal/entity"
)

// TaskKind is the closed set of pipelines a request can be routed to.
type TaskKind string

const (
	TaskFullAnalysis      TaskKind = "full_analysis"
	TaskInvestorQuery     TaskKind = "investor_query"
	TaskFollowupQuestions TaskKind = "followup_questions"
)

func (k TaskKind) Valid() bool {
	switch k {
	case TaskFullAnalysis, TaskInvestorQuery, TaskFollowupQuestions:
		return true
	}
	return false
}

// Phrasing patterns. Word boundaries keep "reporter" from matching "report".
var (
	analysisPattern = regexp.MustCompile(`(?i)\b(analy[sz]e|analysis|investment memo|memo|report)\b`)
	followupPattern = regexp.MustCompile(`(?i)\b(follow[- ]?up questions?|generate (?:some )?questions|questions for (?:the )?founders?)\b`)
)

// Classify maps a request to exactly one TaskKind. It is pure: the same
// request always yields the same result. Priority order:
//  1. content present and intent empty or analysis-like → full_analysis
//  2. intent matches the follow-up pattern → followup_questions
//  3. no content and a free-text question → investor_query
//  4. anything else → UnroutableRequest
func Classify(req *entity.PipelineRequest) (TaskKind, error) {
	if req == nil {
		return "", apperror.New(apperror.KindUnroutableRequest, "empty request")
	}
	intent := ParseReferences(req.Intent).CleanPrompt

	if req.HasContent() && (intent == "" || analysisPattern.MatchString(intent)) {
		return TaskFullAnalysis, nil
	}
	if followupPattern.MatchString(intent) {
		return TaskFollowupQuestions, nil
	}
	if !req.HasContent() && strings.TrimSpace(intent) != "" {
		return TaskInvestorQuery, nil
	}

	if req.HasContent() {
		return "", apperror.New(apperror.KindUnroutableRequest, "content was attached but the intent is not an analysis request")
	}
	return "", apperror.New(apperror.KindUnroutableRequest, "request has neither content nor a question")
}
