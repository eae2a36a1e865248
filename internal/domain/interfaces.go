package domain

import (
	"context"
	"time"
)

// Repository interfaces
type LotRepository interface {
	ListLots(ctx context.Context) ([]*Lot, error)
	CreateLot(ctx context.Context, lot *Lot) error
	UpdateLot(ctx context.Context, lot *Lot) error
	DeleteLot(ctx context.Context, lotID string) error
}

type TeamRepository interface {
	ListTeams(ctx context.Context) ([]*Team, error)
	CreateTeam(ctx context.Context, team *Team) error
}

// BidJournal is a write-behind audit trail of accepted bids and lot
// resolutions. It is never read back into engine state.
type BidJournal interface {
	SaveBid(ctx context.Context, bid *Bid) error
	SaveResolution(ctx context.Context, record *ResolutionRecord) error
}

type SchedulerRepository interface {
	CreateJob(ctx context.Context, job *ScheduledJob) error
	GetPendingJobs(ctx context.Context, before time.Time) ([]*ScheduledJob, error)
	UpdateJobStatus(ctx context.Context, jobID string, status JobStatus) error
	CancelPendingJobs(ctx context.Context) error
}

// IncrementPolicy decides how far a bid must clear the current highest bid.
// Implementations must return at least 1 so accepted amounts stay strictly
// increasing.
type IncrementPolicy interface {
	MinIncrement(currentAmount int64) int64
}

// Countdown is the per-lot timer. Exactly one expiry callback fires per
// Start/Reset cycle unless paused, stopped or reset first.
type Countdown interface {
	Start(d time.Duration)
	Reset(d time.Duration)
	Pause()
	Resume()
	Extend(d time.Duration)
	Stop()
	Remaining() time.Duration
}

// EventSink consumes published engine events outside the mutation critical
// section (journal, redis mirror, websocket broadcast).
type EventSink interface {
	HandleEvent(ctx context.Context, event *Event) error
}

// ObserverConnection is a single connected observer client.
type ObserverConnection interface {
	Send(message interface{}) error
	Close() error
	ClientID() string
	TeamID() string
}
