package domain

import "time"

type EventTopic string

const (
	TopicStatusChanged    EventTopic = "status-changed"
	TopicBidAccepted      EventTopic = "bid-accepted"
	TopicTimerReset       EventTopic = "timer-reset"
	TopicLotStarted       EventTopic = "lot-started"
	TopicLotSold          EventTopic = "lot-sold"
	TopicLotUnsold        EventTopic = "lot-unsold"
	TopicAuctionCompleted EventTopic = "auction-completed"
)

// Event is the full-fat payload published on every engine mutation. Every
// event carries enough state (status, current lot, highest bid, remaining
// time) for an observer to render without polling.
type Event struct {
	Seq              uint64            `json:"seq"`
	Topic            EventTopic        `json:"topic"`
	Status           string            `json:"status"`
	At               time.Time         `json:"at"`
	Lot              *Lot              `json:"lot,omitempty"`
	Bid              *Bid              `json:"bid,omitempty"`
	Resolution       *ResolutionRecord `json:"resolution,omitempty"`
	RemainingSeconds float64           `json:"remaining_seconds"`

	// History is populated on auction-completed only.
	History []ResolutionRecord `json:"history,omitempty"`
}
