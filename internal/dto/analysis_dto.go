package dto

import (
	"time"

	"venture-ai-be/internal/entity"

	"github.com/google/uuid"
)

type AnalyzeRequest struct {
	UserId           string `json:"user_id"`
	SessionId        string `json:"session_id"`
	ContentRef       string `json:"content_ref" validate:"required"`
	TechField        string `json:"tech_field"`
	ShortDescription string `json:"short_description"`
	CompanyWebsite   string `json:"company_website" validate:"omitempty,url"`
}

type AskRequest struct {
	UserId     string `json:"user_id"`
	SessionId  string `json:"session_id"`
	AnalysisId string `json:"analysis_id" validate:"omitempty,uuid"`
	Question   string `json:"question" validate:"required"`
}

type FollowupRequest struct {
	UserId     string `json:"user_id"`
	SessionId  string `json:"session_id"`
	AnalysisId string `json:"analysis_id" validate:"omitempty,uuid"`
}

// RoutedQueryRequest is the generic entry point; the task is classified
// from the intent and content reference.
type RoutedQueryRequest struct {
	UserId           string `json:"user_id"`
	SessionId        string `json:"session_id"`
	Intent           string `json:"intent"`
	ContentRef       string `json:"content_ref"`
	AnalysisId       string `json:"analysis_id" validate:"omitempty,uuid"`
	TechField        string `json:"tech_field"`
	ShortDescription string `json:"short_description"`
	CompanyWebsite   string `json:"company_website" validate:"omitempty,url"`
}

type ListAnalysesRequest struct {
	UserId  string `query:"user_id"`
	Company string `query:"company"`
	Limit   int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset  int    `query:"offset" validate:"omitempty,min=0"`
}

type AnalysisResponse struct {
	Id             uuid.UUID             `json:"analysis_id"`
	UserId         string                `json:"user_id"`
	SessionId      string                `json:"session_id"`
	CompanyName    string                `json:"company_name"`
	TechField      string                `json:"tech_field"`
	CompanyWebsite string                `json:"company_website"`
	ContentRef     string                `json:"content_ref"`
	Summary        string                `json:"summary"`
	Claims         entity.Claims         `json:"claims"`
	Annotations    []entity.Annotation   `json:"annotations"`
	Recommendation entity.Recommendation `json:"recommendation"`
	ArtifactURL    string                `json:"generated_artifact_url"`
	CreatedAt      time.Time             `json:"created_at"`
}

type AnalysisSummaryResponse struct {
	Id          uuid.UUID                    `json:"analysis_id"`
	CompanyName string                       `json:"company_name"`
	TechField   string                       `json:"tech_field"`
	Outcome     entity.RecommendationOutcome `json:"outcome"`
	Flagged     int                          `json:"flagged_claims"`
	ArtifactURL string                       `json:"generated_artifact_url"`
	CreatedAt   time.Time                    `json:"created_at"`
}

type ListAnalysesResponse struct {
	Items  []*AnalysisSummaryResponse `json:"items"`
	Total  int64                      `json:"total"`
	Limit  int                        `json:"limit"`
	Offset int                        `json:"offset"`
}

type QueryAnswerResponse struct {
	AnalysisId uuid.UUID `json:"analysis_id"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
}

type FollowupResponse struct {
	AnalysisId        uuid.UUID                 `json:"analysis_id"`
	Questions         []entity.FollowupQuestion `json:"questions"`
	OverallAssessment string                    `json:"overall_assessment"`
	PriorityConcerns  []string                  `json:"priority_concerns"`
}

// RoutedQueryResponse has exactly one payload set, matching Task.
type RoutedQueryResponse struct {
	Task     string               `json:"task"`
	Analysis *AnalysisResponse    `json:"analysis,omitempty"`
	Answer   *QueryAnswerResponse `json:"answer,omitempty"`
	Followup *FollowupResponse    `json:"followup,omitempty"`
}
