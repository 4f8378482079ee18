package entity

import "time"

type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// Job tracks one asynchronous full analysis.
type Job struct {
	Id           string
	UserId       string
	Status       JobStatus
	Request      PipelineRequest
	AnalysisId   string
	ErrorKind    string
	ErrorStage   string
	ErrorMessage string
	SubmittedAt  time.Time
	UpdatedAt    time.Time
}

// Done reports whether the job reached a terminal status.
func (j *Job) Done() bool {
	return j.Status == JobSucceeded || j.Status == JobFailed
}
