package service

import (
	"context"

	"venture-ai-be/internal/pkg/logger"
	"venture-ai-be/pkg/events"
)

// NewAuditHandler logs every analysis event seen on the bus.
func NewAuditHandler(log logger.ILogger) func(ctx context.Context, event events.Event) error {
	return func(ctx context.Context, event events.Event) error {
		details := map[string]interface{}{
			"event":       event.EventType(),
			"occurred_at": event.Timestamp(),
		}
		for k, v := range event.Payload() {
			details[k] = v
		}
		log.Info("AUDIT", "Analysis event", details)
		return nil
	}
}
