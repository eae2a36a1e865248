package mysql

import (
	"context"
	"database/sql"
	"time"

	"auction-engine/internal/domain"
)

// MySQLBidJournal is the write-behind audit trail for accepted bids and
// lot resolutions. Nothing here is read back into engine state.
type MySQLBidJournal struct {
	db *sql.DB
}

var _ domain.BidJournal = (*MySQLBidJournal)(nil)

func NewMySQLBidJournal(db *sql.DB) *MySQLBidJournal {
	return &MySQLBidJournal{db: db}
}

func (r *MySQLBidJournal) SaveBid(ctx context.Context, bid *domain.Bid) error {
	query := `
        INSERT INTO bid_events (id, lot_id, team_id, amount, sequence, received_at, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		bid.ID, bid.LotID, bid.TeamID, bid.Amount,
		bid.Sequence, bid.ReceivedAt, time.Now())
	return err
}

func (r *MySQLBidJournal) SaveResolution(ctx context.Context, record *domain.ResolutionRecord) error {
	query := `
        INSERT INTO lot_resolutions (lot_id, winner_team_id, amount, sold, resolved_at, created_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `
	winner := sql.NullString{String: record.WinnerTeamID, Valid: record.WinnerTeamID != ""}
	_, err := r.db.ExecContext(ctx, query,
		record.LotID, winner, record.Amount, record.Sold,
		record.ResolvedAt, time.Now())
	return err
}
