package dto

import "time"

type JobError struct {
	Kind    string `json:"kind"`
	Stage   string `json:"stage,omitempty"`
	Message string `json:"message"`
}

type JobResponse struct {
	JobId       string    `json:"job_id"`
	Status      string    `json:"status"`
	AnalysisId  string    `json:"analysis_id,omitempty"`
	Error       *JobError `json:"error,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PublishAnalysisJobMessage is the queue payload for an async analysis.
type PublishAnalysisJobMessage struct {
	JobId string `json:"job_id"`
}
