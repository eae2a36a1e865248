package services

import (
	"fmt"

	"auction-engine/internal/domain"
)

// LotQueue is the ordered sequence of lots awaiting auction plus the
// cursor of the current lot. The engine owns it and serializes access;
// mutation is only legal while the auction is waiting, which the engine
// enforces.
type LotQueue struct {
	lots   []*domain.Lot
	cursor int
}

func NewLotQueue() *LotQueue {
	return &LotQueue{}
}

func (q *LotQueue) Add(lot *domain.Lot) {
	q.lots = append(q.lots, lot)
}

func (q *LotQueue) Update(lot *domain.Lot) error {
	for i, existing := range q.lots {
		if existing.ID == lot.ID {
			q.lots[i] = lot
			return nil
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrUnknownLot, lot.ID)
}

func (q *LotQueue) Remove(lotID string) error {
	for i, existing := range q.lots {
		if existing.ID == lotID {
			q.lots = append(q.lots[:i], q.lots[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrUnknownLot, lotID)
}

// Current returns the lot at the cursor, or nil when the queue is empty or
// exhausted.
func (q *LotQueue) Current() *domain.Lot {
	if q.cursor < 0 || q.cursor >= len(q.lots) {
		return nil
	}
	return q.lots[q.cursor]
}

// Advance moves the cursor to the next lot and reports whether one exists.
func (q *LotQueue) Advance() bool {
	if q.cursor+1 >= len(q.lots) {
		return false
	}
	q.cursor++
	return true
}

func (q *LotQueue) Rewind() {
	q.cursor = 0
}

func (q *LotQueue) CursorIndex() int {
	return q.cursor
}

func (q *LotQueue) Len() int {
	return len(q.lots)
}

func (q *LotQueue) Lots() []*domain.Lot {
	out := make([]*domain.Lot, len(q.lots))
	copy(out, q.lots)
	return out
}
