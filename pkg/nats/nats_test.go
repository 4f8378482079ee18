package nats

import (
	"testing"
	"time"

	"venture-ai-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEvent(t *testing.T) {
	ev, err := decodeEvent("events.analysis.completed", []byte(`{"analysis_id":"a1","occurred_at":"2026-01-02T03:04:05Z"}`))
	require.NoError(t, err)
	assert.Equal(t, events.TypeAnalysisCompleted, ev.EventType())
	assert.Equal(t, "a1", ev.Payload()["analysis_id"])
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), ev.Timestamp())

	_, err = decodeEvent("events.analysis.completed", []byte(`not json`))
	assert.Error(t, err)
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "events.analysis.failed", Subject(events.BaseEvent{Type: events.TypeAnalysisFailed}))
}
