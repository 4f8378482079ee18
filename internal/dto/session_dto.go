package dto

import "time"

type CreateSessionRequest struct {
	UserId string                 `json:"user_id"`
	State  map[string]interface{} `json:"state"`
}

type SessionResponse struct {
	Id              string                 `json:"session_id"`
	UserId          string                 `json:"user_id"`
	Phase           string                 `json:"phase"`
	FocusAnalysisId string                 `json:"focus_analysis_id,omitempty"`
	State           map[string]interface{} `json:"state"`
	Created         bool                   `json:"created"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}
