package services

import (
	"context"

	"auction-engine/internal/domain"
	"auction-engine/pkg/logger"
)

// EventRelay drains one bus subscription and hands each event to the
// configured sinks, keeping journal writes, the redis mirror and the
// websocket broadcast out of the engine's critical section. A sink error
// is logged and never fed back to the engine; observers recover through
// the snapshot resync path.
type EventRelay struct {
	sub   *Subscription
	sinks []domain.EventSink
	log   logger.Logger
}

func NewEventRelay(sub *Subscription, log logger.Logger, sinks ...domain.EventSink) *EventRelay {
	return &EventRelay{
		sub:   sub,
		sinks: sinks,
		log:   log,
	}
}

// Run blocks until the subscription closes or the context is cancelled.
func (r *EventRelay) Run(ctx context.Context) error {
	for {
		select {
		case event, ok := <-r.sub.Events():
			if !ok {
				r.log.Warn("Event relay subscription closed", "subscriber_id", r.sub.ID())
				return nil
			}
			for _, sink := range r.sinks {
				if err := sink.HandleEvent(ctx, event); err != nil {
					r.log.Error("Event sink failed", "topic", event.Topic,
						"seq", event.Seq, "error", err)
				}
			}

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
