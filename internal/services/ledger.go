package services

import (
	"auction-engine/internal/domain"
)

// BidLedger is the append-only per-lot record of accepted bids. Insertion
// order is acceptance order; the last entry for a lot is always the current
// highest bid. The ledger carries no lock of its own: the engine owns it
// and serializes every access.
type BidLedger struct {
	bids map[string][]*domain.Bid
}

func NewBidLedger() *BidLedger {
	return &BidLedger{
		bids: make(map[string][]*domain.Bid),
	}
}

// Append records an accepted bid. The caller guarantees the amount is
// strictly above the lot's previous highest bid.
func (l *BidLedger) Append(bid *domain.Bid) {
	l.bids[bid.LotID] = append(l.bids[bid.LotID], bid)
}

// Highest returns the current highest bid for a lot, or nil if the lot has
// no bids yet.
func (l *BidLedger) Highest(lotID string) *domain.Bid {
	seq := l.bids[lotID]
	if len(seq) == 0 {
		return nil
	}
	return seq[len(seq)-1]
}

// History returns the accepted bids for a lot in acceptance order. The
// returned slice is a copy; ledger entries themselves are never mutated.
func (l *BidLedger) History(lotID string) []*domain.Bid {
	seq := l.bids[lotID]
	out := make([]*domain.Bid, len(seq))
	copy(out, seq)
	return out
}

// Clear drops all recorded bids. Used only by the administrative auction
// reset; there is no per-lot deletion.
func (l *BidLedger) Clear() {
	l.bids = make(map[string][]*domain.Bid)
}
