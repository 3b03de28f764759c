package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jwalitptl/clinic-dashboard/pkg/logger"
	"github.com/jwalitptl/clinic-dashboard/pkg/messaging"
)

type receivedEvent struct {
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

// EventLogger follows the dashboard events channel and writes every event
// to the log, giving operators a feed of bookings and status changes.
type EventLogger struct {
	broker  messaging.Broker
	channel string
	logger  *logger.Logger
}

func NewEventLogger(broker messaging.Broker, channel string, log *logger.Logger) *EventLogger {
	if log == nil {
		log = logger.Nop()
	}
	return &EventLogger{broker: broker, channel: channel, logger: log}
}

// Start blocks until ctx is done or the subscription closes.
func (w *EventLogger) Start(ctx context.Context) error {
	messages, err := w.broker.Subscribe(ctx, w.channel)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", w.channel, err)
	}
	w.logger.Info("following events", "channel", w.channel)

	for {
		select {
		case <-ctx.Done():
			return nil
		case b, ok := <-messages:
			if !ok {
				return nil
			}
			if err := w.handle(b); err != nil {
				w.logger.Warn("dropping malformed event", "error", err.Error())
			}
		}
	}
}

func (w *EventLogger) handle(b []byte) error {
	var ev receivedEvent
	if err := json.Unmarshal(b, &ev); err != nil {
		return err
	}
	if ev.Type == "" {
		return fmt.Errorf("event without type")
	}
	w.logger.Info("event",
		"type", ev.Type,
		"occurred_at", ev.OccurredAt.Format(time.RFC3339),
		"payload", string(ev.Payload),
	)
	return nil
}
