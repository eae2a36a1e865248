package services

import (
	"sync"

	"auction-engine/internal/domain"
	"auction-engine/pkg/logger"
	"auction-engine/pkg/utils"
)

const defaultSubscriberBuffer = 256

// Subscription is one observer's ordered event stream. Events() is closed
// when the subscriber is unsubscribed or lapses; a lapsed subscriber must
// resync from a snapshot instead of assuming it saw every event.
type Subscription struct {
	id string
	ch chan *domain.Event
}

func (s *Subscription) ID() string {
	return s.id
}

func (s *Subscription) Events() <-chan *domain.Event {
	return s.ch
}

// EventBus fans engine events out to subscribers in publish order. Publish
// never blocks: a subscriber whose buffer is full is dropped and its
// channel closed, so slow observers cannot stall bid processing.
type EventBus struct {
	mu     sync.Mutex
	subs   map[string]*Subscription
	buffer int
	log    logger.Logger
}

func NewEventBus(log logger.Logger) *EventBus {
	return &EventBus{
		subs:   make(map[string]*Subscription),
		buffer: defaultSubscriberBuffer,
		log:    log,
	}
}

func (b *EventBus) Subscribe() *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &Subscription{
		id: utils.GenerateID("sub"),
		ch: make(chan *domain.Event, b.buffer),
	}
	b.subs[sub.id] = sub
	return sub
}

func (b *EventBus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sub, exists := b.subs[id]; exists {
		delete(b.subs, id)
		close(sub.ch)
	}
}

// Publish delivers the event to every subscriber without blocking. Called
// inside the engine's critical section, so channel send order matches
// mutation order for every subscriber.
func (b *EventBus) Publish(event *domain.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, sub := range b.subs {
		select {
		case sub.ch <- event:
		default:
			delete(b.subs, id)
			close(sub.ch)
			b.log.Warn("Subscriber lapsed, dropping", "subscriber_id", id, "event_seq", event.Seq)
		}
	}
}

func (b *EventBus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close drops every subscriber.
func (b *EventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, sub := range b.subs {
		delete(b.subs, id)
		close(sub.ch)
	}
}
