package services

import (
	"context"

	"auction-engine/internal/domain"
)

// JournalSink persists accepted bids and lot resolutions through the bid
// journal. Write-behind audit only: the engine never reads this back.
type JournalSink struct {
	journal domain.BidJournal
}

var _ domain.EventSink = (*JournalSink)(nil)

func NewJournalSink(journal domain.BidJournal) *JournalSink {
	return &JournalSink{journal: journal}
}

func (s *JournalSink) HandleEvent(ctx context.Context, event *domain.Event) error {
	switch event.Topic {
	case domain.TopicBidAccepted:
		if event.Bid != nil {
			return s.journal.SaveBid(ctx, event.Bid)
		}
	case domain.TopicLotSold, domain.TopicLotUnsold:
		if event.Resolution != nil {
			return s.journal.SaveResolution(ctx, event.Resolution)
		}
	}
	return nil
}
