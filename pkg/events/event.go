package events

import (
	"context"
	"time"

	"venture-ai-be/internal/entity"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the subject suffix, e.g. "analysis.completed".
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Publisher delivers events to whatever bus is configured.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

const (
	TypeAnalysisCompleted = "analysis.completed"
	TypeAnalysisFailed    = "analysis.failed"
)

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewAnalysisCompleted announces a committed analysis.
func NewAnalysisCompleted(record *entity.AnalysisRecord) BaseEvent {
	now := time.Now().UTC()
	return BaseEvent{
		Type: TypeAnalysisCompleted,
		Data: map[string]interface{}{
			"analysis_id":  record.Id.String(),
			"user_id":      record.UserId,
			"session_id":   record.SessionId,
			"company_name": record.CompanyName,
			"outcome":      string(record.Recommendation.Outcome),
			"flagged":      len(record.FlaggedAnnotations()),
			"artifact_url": record.ArtifactURL,
			"occurred_at":  now.Format(time.RFC3339Nano),
		},
		OccurredAt: now,
	}
}

// NewAnalysisFailed announces an async job whose pipeline run failed.
func NewAnalysisFailed(jobId, userId, stage, kind, message string) BaseEvent {
	now := time.Now().UTC()
	return BaseEvent{
		Type: TypeAnalysisFailed,
		Data: map[string]interface{}{
			"job_id":      jobId,
			"user_id":     userId,
			"stage":       stage,
			"kind":        kind,
			"error":       message,
			"occurred_at": now.Format(time.RFC3339Nano),
		},
		OccurredAt: now,
	}
}

// NopPublisher drops events. Used when no bus is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event Event) error {
	return nil
}

// Recorder keeps published events in memory.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Publish(ctx context.Context, event Event) error {
	r.Events = append(r.Events, event)
	return nil
}
