package domain

import (
	"time"
)

type AuctionStatus int

const (
	StatusWaiting AuctionStatus = iota
	StatusInProgress
	StatusPaused
	StatusCompleted
)

func (s AuctionStatus) String() string {
	switch s {
	case StatusWaiting:
		return "waiting"
	case StatusInProgress:
		return "in-progress"
	case StatusPaused:
		return "paused"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Lot is a single auctionable item. Display attributes are opaque to the
// engine; only BasePrice participates in bid validation.
type Lot struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role,omitempty"`
	Country   string    `json:"country,omitempty"`
	Age       int       `json:"age,omitempty"`
	BasePrice int64     `json:"base_price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Bid is immutable once accepted. Sequence is assigned by the engine at
// acceptance time; ordering never relies on client timestamps.
type Bid struct {
	ID         string    `json:"id"`
	LotID      string    `json:"lot_id"`
	TeamID     string    `json:"team_id"`
	Amount     int64     `json:"amount"`
	Sequence   uint64    `json:"sequence"`
	ReceivedAt time.Time `json:"received_at"`
}

type Team struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	TotalBudget    int64  `json:"total_budget"`
	CommittedSpend int64  `json:"committed_spend"`
}

func (t *Team) RemainingBudget() int64 {
	return t.TotalBudget - t.CommittedSpend
}

// ResolutionRecord is the outcome of one lot. WinnerTeamID and Amount are
// zero for unsold lots.
type ResolutionRecord struct {
	LotID        string    `json:"lot_id"`
	WinnerTeamID string    `json:"winner_team_id,omitempty"`
	Amount       int64     `json:"amount,omitempty"`
	Sold         bool      `json:"sold"`
	ResolvedAt   time.Time `json:"resolved_at"`
}

// Snapshot is the resync payload for (re)connecting observers. It is built
// under the same lock that publishes events, so it is never behind an event
// the observer has already seen.
type Snapshot struct {
	Status           string             `json:"status"`
	EventSeq         uint64             `json:"event_seq"`
	CurrentLot       *Lot               `json:"current_lot,omitempty"`
	HighestBid       *Bid               `json:"highest_bid,omitempty"`
	RemainingSeconds float64            `json:"remaining_seconds"`
	History          []ResolutionRecord `json:"history"`
}

// AuctionSettings carries the operator-configured auction parameters.
type AuctionSettings struct {
	BidWindow      time.Duration
	MinIncrement   int64
	StartingBudget int64
	MaxTeams       int
}

type ScheduledJob struct {
	ID        string
	JobType   JobType
	RunAt     time.Time
	Status    JobStatus
	CreatedAt time.Time
}

type JobType string

const (
	JobStartAuction JobType = "start_auction"
)

type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobExecuted  JobStatus = "executed"
	JobCancelled JobStatus = "cancelled"
)
