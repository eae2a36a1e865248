package websocket

import (
	"context"

	"auction-engine/internal/domain"
)

// BroadcastSink forwards every engine event to all connected observers.
// Plugged into the event relay so broadcasting stays outside the engine's
// critical section.
type BroadcastSink struct {
	connManager *ConnectionManager
}

var _ domain.EventSink = (*BroadcastSink)(nil)

func NewBroadcastSink(connManager *ConnectionManager) *BroadcastSink {
	return &BroadcastSink{connManager: connManager}
}

func (s *BroadcastSink) HandleEvent(ctx context.Context, event *domain.Event) error {
	s.connManager.Broadcast(map[string]interface{}{
		"type":  "event",
		"event": event,
	})
	return nil
}
