package services

import (
	"fmt"
	"sync"
	"time"

	"auction-engine/internal/domain"
	"auction-engine/pkg/logger"
	"auction-engine/pkg/utils"
)

// Engine is the authoritative auction state machine. A single mutex
// serializes every mutation — bid acceptance, clock expiry, admin
// overrides — so the read-validate-append sequence is atomic and two
// concurrent bids can never both clear validation against a stale highest
// bid. Event publication happens inside the critical section but the bus
// never blocks, so slow observers cannot stall the engine.
type Engine struct {
	mu sync.Mutex

	status   domain.AuctionStatus
	queue    *LotQueue
	ledger   *BidLedger
	budgets  *BudgetRegistry
	clock    domain.Countdown
	bus      *EventBus
	policy   domain.IncrementPolicy
	settings domain.AuctionSettings
	history  []domain.ResolutionRecord

	bidSeq   uint64
	eventSeq uint64

	log logger.Logger
}

func NewEngine(
	settings domain.AuctionSettings,
	budgets *BudgetRegistry,
	bus *EventBus,
	policy domain.IncrementPolicy,
	log logger.Logger,
) *Engine {
	e := &Engine{
		status:   domain.StatusWaiting,
		queue:    NewLotQueue(),
		ledger:   NewBidLedger(),
		budgets:  budgets,
		bus:      bus,
		policy:   policy,
		settings: settings,
		log:      log,
	}
	e.clock = NewLotClock(e.handleExpiry)
	return e
}

// SetCountdown swaps the expiry source. Tests install a manual countdown
// and drive expiry deterministically.
func (e *Engine) SetCountdown(clock domain.Countdown) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clock = clock
}

// Start begins the auction at the first lot. Valid only from waiting with
// a non-empty lot queue.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != domain.StatusWaiting {
		return fmt.Errorf("%w: start from %s", domain.ErrInvalidTransition, e.status)
	}
	if e.queue.Len() == 0 {
		return fmt.Errorf("%w: start with empty lot queue", domain.ErrInvalidTransition)
	}

	e.queue.Rewind()
	e.status = domain.StatusInProgress
	e.clock.Start(e.settings.BidWindow)

	e.log.Info("Auction started", "lots", e.queue.Len(), "bid_window", e.settings.BidWindow)
	e.publishLocked(domain.TopicStatusChanged, nil)
	e.publishLocked(domain.TopicLotStarted, nil)
	return nil
}

// Pause stops the clock, preserving the remaining time. Accepted bids are
// never rolled back.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != domain.StatusInProgress {
		return fmt.Errorf("%w: pause from %s", domain.ErrInvalidTransition, e.status)
	}

	e.clock.Pause()
	e.status = domain.StatusPaused

	e.log.Info("Auction paused", "remaining", e.clock.Remaining())
	e.publishLocked(domain.TopicStatusChanged, nil)
	return nil
}

// Resume restarts the clock with the time that remained at pause.
func (e *Engine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != domain.StatusPaused {
		return fmt.Errorf("%w: resume from %s", domain.ErrInvalidTransition, e.status)
	}

	e.clock.Resume()
	e.status = domain.StatusInProgress

	e.log.Info("Auction resumed", "remaining", e.clock.Remaining())
	e.publishLocked(domain.TopicStatusChanged, nil)
	return nil
}

// SubmitBid validates and, on success, appends a bid for the current lot.
// Validation order, first failure wins: not accepting bids, stale lot, bid
// too low, insufficient budget. Every call yields acceptance or exactly one
// rejection reason; nothing is dropped silently.
func (e *Engine) SubmitBid(teamID, lotID string, amount int64) (*domain.Bid, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != domain.StatusInProgress {
		return nil, fmt.Errorf("%w: auction is %s", domain.ErrNotAcceptingBids, e.status)
	}

	current := e.queue.Current()
	if current == nil || current.ID != lotID {
		return nil, fmt.Errorf("%w: %s", domain.ErrStaleLot, lotID)
	}

	minimum := e.minimumBidLocked(current)
	if amount < minimum {
		return nil, fmt.Errorf("%w: minimum bid is %d", domain.ErrBidTooLow, minimum)
	}

	ok, err := e.budgets.ReserveCheck(teamID, amount)
	if err != nil {
		return nil, err
	}
	if !ok {
		remaining, _ := e.budgets.Remaining(teamID)
		return nil, fmt.Errorf("%w: bid %d exceeds remaining budget %d",
			domain.ErrInsufficientBudget, amount, remaining)
	}

	e.bidSeq++
	bid := &domain.Bid{
		ID:         utils.GenerateID("bid"),
		LotID:      current.ID,
		TeamID:     teamID,
		Amount:     amount,
		Sequence:   e.bidSeq,
		ReceivedAt: time.Now(),
	}

	e.ledger.Append(bid)
	e.clock.Reset(e.settings.BidWindow)

	e.log.Info("Bid accepted", "lot_id", current.ID, "team_id", teamID,
		"amount", amount, "sequence", bid.Sequence)
	e.publishLocked(domain.TopicBidAccepted, func(ev *domain.Event) {
		ev.Bid = bid
	})
	e.publishLocked(domain.TopicTimerReset, nil)
	return bid, nil
}

// SkipToNext forces immediate expiry-equivalent resolution of the current
// lot, bypassing the remaining time.
func (e *Engine) SkipToNext() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != domain.StatusInProgress {
		return fmt.Errorf("%w: skip from %s", domain.ErrInvalidTransition, e.status)
	}

	e.clock.Stop()
	return e.resolveCurrentLocked()
}

// ExtendTimer adds seconds to the active clock without touching bid state.
func (e *Engine) ExtendTimer(seconds int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if seconds <= 0 {
		return fmt.Errorf("%w: extension must be positive", domain.ErrInvalidTransition)
	}
	if e.status != domain.StatusInProgress && e.status != domain.StatusPaused {
		return fmt.Errorf("%w: extend from %s", domain.ErrInvalidTransition, e.status)
	}

	e.clock.Extend(time.Duration(seconds) * time.Second)

	e.log.Info("Timer extended", "seconds", seconds, "remaining", e.clock.Remaining())
	e.publishLocked(domain.TopicTimerReset, nil)
	return nil
}

// Reset returns the auction to waiting: cursor at the first lot, ledger and
// history cleared, committed spend released, clock stopped.
func (e *Engine) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.clock.Stop()
	e.queue.Rewind()
	e.ledger.Clear()
	e.history = nil
	e.budgets.ReleaseAll()
	e.status = domain.StatusWaiting

	e.log.Info("Auction reset")
	e.publishLocked(domain.TopicStatusChanged, nil)
	return nil
}

// AddLot appends a lot to the queue. Queue mutation is legal only while
// the auction is waiting.
func (e *Engine) AddLot(lot *domain.Lot) (*domain.Lot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != domain.StatusWaiting {
		return nil, fmt.Errorf("%w: add lot while %s", domain.ErrInvalidTransition, e.status)
	}

	if lot.ID == "" {
		lot.ID = utils.GenerateID("lot")
	}
	now := time.Now()
	if lot.CreatedAt.IsZero() {
		lot.CreatedAt = now
	}
	lot.UpdatedAt = now

	e.queue.Add(lot)
	e.log.Info("Lot added", "lot_id", lot.ID, "base_price", lot.BasePrice)
	return lot, nil
}

func (e *Engine) UpdateLot(lot *domain.Lot) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != domain.StatusWaiting {
		return fmt.Errorf("%w: update lot while %s", domain.ErrInvalidTransition, e.status)
	}

	lot.UpdatedAt = time.Now()
	return e.queue.Update(lot)
}

func (e *Engine) RemoveLot(lotID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != domain.StatusWaiting {
		return fmt.Errorf("%w: remove lot while %s", domain.ErrInvalidTransition, e.status)
	}

	return e.queue.Remove(lotID)
}

func (e *Engine) Lots() []*domain.Lot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.Lots()
}

func (e *Engine) Status() domain.AuctionStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

func (e *Engine) History() []domain.ResolutionRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.historyLocked()
}

// BidHistory returns the accepted bids for a lot in acceptance order.
func (e *Engine) BidHistory(lotID string) []*domain.Bid {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.History(lotID)
}

// Snapshot is the observer resync payload. It is built under the engine
// lock, so it is always consistent with the most recently published event.
func (e *Engine) Snapshot() *domain.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// handleExpiry is the clock's expiry signal. An expiry racing an in-flight
// bid is resolved by lock arrival order: the clock reports zero remaining
// once a cycle has fired, so if the bid got there first and re-armed the
// clock, the stale callback finds time on the clock and yields to the new
// window.
func (e *Engine) handleExpiry() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != domain.StatusInProgress {
		return
	}
	if e.clock.Remaining() > 0 {
		// Re-armed between this callback firing and reaching the lock.
		return
	}

	if err := e.resolveCurrentLocked(); err != nil {
		e.log.Error("Lot resolution failed", "error", err)
	}
}

func (e *Engine) resolveCurrentLocked() error {
	current := e.queue.Current()
	if current == nil {
		return fmt.Errorf("%w: no current lot to resolve", domain.ErrInvariantViolation)
	}

	record := domain.ResolutionRecord{
		LotID:      current.ID,
		ResolvedAt: time.Now(),
	}

	highest := e.ledger.Highest(current.ID)
	if highest == nil {
		e.history = append(e.history, record)
		e.log.Info("Lot unsold", "lot_id", current.ID)
		e.publishLocked(domain.TopicLotUnsold, func(ev *domain.Event) {
			ev.Resolution = &record
		})
	} else {
		// Budget was validated at bid time; a commit failure here is a
		// consistency bug, fatal to this lot's resolution.
		if err := e.budgets.Commit(highest.TeamID, highest.Amount); err != nil {
			return fmt.Errorf("%w: committing %d for team %s on lot %s: %v",
				domain.ErrInvariantViolation, highest.Amount, highest.TeamID, current.ID, err)
		}

		record.WinnerTeamID = highest.TeamID
		record.Amount = highest.Amount
		record.Sold = true
		e.history = append(e.history, record)

		e.log.Info("Lot sold", "lot_id", current.ID,
			"winner", highest.TeamID, "amount", highest.Amount)
		e.publishLocked(domain.TopicLotSold, func(ev *domain.Event) {
			ev.Resolution = &record
			ev.Bid = highest
		})
	}

	if e.queue.Advance() {
		e.clock.Start(e.settings.BidWindow)
		e.log.Info("Next lot up", "lot_id", e.queue.Current().ID,
			"index", e.queue.CursorIndex())
		e.publishLocked(domain.TopicLotStarted, nil)
		return nil
	}

	e.status = domain.StatusCompleted
	e.clock.Stop()
	e.log.Info("Auction completed", "lots_resolved", len(e.history))
	e.publishLocked(domain.TopicStatusChanged, nil)
	e.publishLocked(domain.TopicAuctionCompleted, func(ev *domain.Event) {
		ev.History = e.historyLocked()
	})
	return nil
}

// minimumBidLocked never returns less than 1: a lot may carry a zero base
// price, but bid amounts must stay positive.
func (e *Engine) minimumBidLocked(current *domain.Lot) int64 {
	highest := e.ledger.Highest(current.ID)
	if highest == nil {
		if current.BasePrice < 1 {
			return 1
		}
		return current.BasePrice
	}
	return highest.Amount + e.policy.MinIncrement(highest.Amount)
}

func (e *Engine) historyLocked() []domain.ResolutionRecord {
	out := make([]domain.ResolutionRecord, len(e.history))
	copy(out, e.history)
	return out
}

func (e *Engine) snapshotLocked() *domain.Snapshot {
	snapshot := &domain.Snapshot{
		Status:           e.status.String(),
		EventSeq:         e.eventSeq,
		RemainingSeconds: e.clock.Remaining().Seconds(),
		History:          e.historyLocked(),
	}

	if e.status == domain.StatusInProgress || e.status == domain.StatusPaused {
		if current := e.queue.Current(); current != nil {
			snapshot.CurrentLot = current
			snapshot.HighestBid = e.ledger.Highest(current.ID)
		}
	}
	return snapshot
}

func (e *Engine) publishLocked(topic domain.EventTopic, fill func(*domain.Event)) {
	e.eventSeq++
	event := &domain.Event{
		Seq:              e.eventSeq,
		Topic:            topic,
		Status:           e.status.String(),
		At:               time.Now(),
		RemainingSeconds: e.clock.Remaining().Seconds(),
	}

	if e.status == domain.StatusInProgress || e.status == domain.StatusPaused {
		event.Lot = e.queue.Current()
	}
	if fill != nil {
		fill(event)
	}

	e.bus.Publish(event)
}
