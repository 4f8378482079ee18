package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorders(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordTask("full_analysis", "")
	m.RecordTask("full_analysis", "SchemaValidationError")
	m.RecordLookup("unknown")
	m.RecordLookup("unknown")
	m.ObserveStage("extraction", time.Now(), errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.TaskRuns.WithLabelValues("full_analysis", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TaskRuns.WithLabelValues("full_analysis", "SchemaValidationError")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LookupOutcomes.WithLabelValues("unknown")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.StageDuration))
}

func TestSeparateRegistriesDoNotCollide(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNop()
		NewNop()
	})
}
