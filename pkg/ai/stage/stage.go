// Package stage holds the pipeline stages. Every model response crosses a
// parse-or-fail gate before it reaches the next stage.
package stage

import (
	"unicode/utf8"

	"venture-ai-be/internal/tracer"

	"go.opentelemetry.io/otel/trace"
)

// Stage names used in error tags, spans, logs and metrics.
const (
	NameFetch        = "fetch"
	NameExtraction   = "extraction"
	NameVerification = "verification"
	NameSynthesis    = "synthesis"
	NameQuery        = "query"
	NameFollowup     = "followup"
)

func stageTracer() trace.Tracer {
	return tracer.Tracer("venture-ai-be/pkg/ai/stage")
}

// truncate keeps at most maxLen runes.
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen]) + "..."
}
