package entity

import (
	"strings"
	"time"
)

type SessionPhase string

const (
	// PhaseBrowsing: no analysis in focus yet
	PhaseBrowsing SessionPhase = "BROWSING"
	// PhaseFocused: FocusAnalysisId names the analysis follow-up work targets
	PhaseFocused SessionPhase = "FOCUSED"
)

// Well-known session state keys.
const (
	StateKeyAnalysisID       = "analysis_id"
	StateKeyArtifactURL      = "generated_artifact_url"
	StateKeyTechField        = "tech_field"
	StateKeyCompanyWebsite   = "company_website"
	StateKeyShortDescription = "short_description"
	StateKeyContentRef       = "content_ref"
	StateKeyIdToAnalyse      = "id_to_analyse"
)

type Session struct {
	Id              string                 `json:"id" firestore:"-"`
	UserId          string                 `json:"user_id" firestore:"user_id"`
	State           map[string]interface{} `json:"state" firestore:"state"`
	Phase           SessionPhase           `json:"phase" firestore:"phase"`
	FocusAnalysisId string                 `json:"focus_analysis_id,omitempty" firestore:"focus_analysis_id"`
	CreatedAt       time.Time              `json:"created_at" firestore:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at" firestore:"updated_at"`
}

// PipelineRequest is one inbound unit of work. It is never persisted.
type PipelineRequest struct {
	ContentRef       string
	UserId           string
	SessionId        string
	Intent           string
	AnalysisId       string
	TechField        string
	ShortDescription string
	CompanyWebsite   string
}

// HasContent reports whether the request carries source content to analyse.
func (r *PipelineRequest) HasContent() bool {
	return strings.TrimSpace(r.ContentRef) != ""
}
