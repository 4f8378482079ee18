package entity

import (
	"time"

	"github.com/google/uuid"
)

// Claims is what the pitch deck asserts, before any verification.
type Claims struct {
	CompanyName          string                `json:"company_name" validate:"required"`
	Summary              string                `json:"summary"`
	Team                 TeamClaims            `json:"team"`
	Problem              string                `json:"problem" validate:"required"`
	Solution             string                `json:"solution" validate:"required"`
	Market               MarketClaims          `json:"market"`
	Traction             TractionClaims        `json:"traction"`
	BusinessModel        string                `json:"business_model"`
	CompetitivePosition  string                `json:"competitive_position"`
	Financials           FinancialClaims       `json:"financials"`
	StatedRecommendation *StatedRecommendation `json:"stated_recommendation,omitempty"`
}

type TeamClaims struct {
	Founders          []string `json:"founders" validate:"required,min=1,dive,required"`
	BackgroundSummary string   `json:"background_summary"`
	Strengths         []string `json:"strengths"`
}

type MarketClaims struct {
	TAM        string `json:"tam" validate:"required"`
	SAM        string `json:"sam"`
	GrowthRate string `json:"growth_rate"`
	Analysis   string `json:"analysis"`
}

type TractionClaims struct {
	Metrics          string `json:"metrics"`
	CustomerFeedback string `json:"customer_feedback"`
}

type FinancialClaims struct {
	FundingAsk         string `json:"funding_ask"`
	FundingAskINR      *int64 `json:"funding_ask_inr,omitempty" validate:"omitempty,gte=0"`
	UseOfFunds         string `json:"use_of_funds"`
	ProjectionsSummary string `json:"projections_summary"`
}

// StatedRecommendation is a recommendation the deck itself makes, if any.
type StatedRecommendation struct {
	Recommendation string   `json:"recommendation"`
	Justification  string   `json:"justification"`
	Risks          []string `json:"risks"`
}

type VerificationOutcome string

const (
	OutcomeAgree       VerificationOutcome = "agree"
	OutcomeDiscrepancy VerificationOutcome = "discrepancy"
	OutcomeUnknown     VerificationOutcome = "unknown"
)

// Annotation records how one claim held up against outside sources.
type Annotation struct {
	Field    string              `json:"field" validate:"required"`
	Claim    string              `json:"claim"`
	Checked  bool                `json:"checked"`
	Outcome  VerificationOutcome `json:"outcome" validate:"required,oneof=agree discrepancy unknown"`
	Verified bool                `json:"verified"`
	Note     string              `json:"note,omitempty"`
	Evidence []string            `json:"evidence" validate:"dive,url"`
}

// Flagged reports whether the claim needs attention in the memo.
func (a Annotation) Flagged() bool {
	return a.Outcome != OutcomeAgree
}

type RecommendationOutcome string

const (
	RecommendInvest   RecommendationOutcome = "invest"
	RecommendConsider RecommendationOutcome = "consider"
	RecommendPass     RecommendationOutcome = "pass"
)

type Recommendation struct {
	Outcome   RecommendationOutcome `json:"outcome" validate:"required,oneof=invest consider pass"`
	Rationale string                `json:"rationale" validate:"required"`
	Risks     []string              `json:"risks"`
}

type AnalysisRecord struct {
	Id             uuid.UUID      `json:"analysis_id"`
	UserId         string         `json:"user_id" validate:"required"`
	SessionId      string         `json:"session_id"`
	CompanyName    string         `json:"company_name" validate:"required"`
	TechField      string         `json:"tech_field"`
	CompanyWebsite string         `json:"company_website"`
	ContentRef     string         `json:"content_ref"`
	Summary        string         `json:"summary" validate:"required"`
	Claims         Claims         `json:"claims"`
	Annotations    []Annotation   `json:"annotations" validate:"dive"`
	Recommendation Recommendation `json:"recommendation"`
	ArtifactURL    string         `json:"generated_artifact_url"`
	CreatedAt      time.Time      `json:"created_at"`
}

// FlaggedAnnotations returns discrepancies and unverified claims in field order.
func (r *AnalysisRecord) FlaggedAnnotations() []Annotation {
	var out []Annotation
	for _, a := range r.Annotations {
		if a.Flagged() {
			out = append(out, a)
		}
	}
	return out
}

type Artifact struct {
	Id          uuid.UUID
	AnalysisId  uuid.UUID
	URL         string
	Path        string
	ContentType string
	Size        int64
	CreatedAt   time.Time
}

type FollowupQuestion struct {
	Question string `json:"question" validate:"required"`
	Category string `json:"category" validate:"required"`
	Context  string `json:"context"`
}

type FollowupQuestions struct {
	Questions         []FollowupQuestion `json:"questions" validate:"required,min=1,dive"`
	OverallAssessment string             `json:"overall_assessment"`
	PriorityConcerns  []string           `json:"priority_concerns" validate:"max=3"`
}

// QueryAnswer is an investor question answered against one analysis.
type QueryAnswer struct {
	AnalysisId uuid.UUID `json:"analysis_id"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
}

// FollowupResult ties generated questions to the analysis they probe.
type FollowupResult struct {
	AnalysisId uuid.UUID `json:"analysis_id"`
	FollowupQuestions
}
