package websocket

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"auction-engine/internal/domain"
	"auction-engine/pkg/logger"
	"auction-engine/pkg/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // origin checks are handled by the CORS middleware
	},
}

// AuctionEngine is the slice of the engine the observer handler needs.
type AuctionEngine interface {
	Snapshot() *domain.Snapshot
	SubmitBid(teamID, lotID string, amount int64) (*domain.Bid, error)
}

// ObserverHandler upgrades observer connections, pushes the resync
// snapshot and serves inbound messages (place_bid, resync, ping).
type ObserverHandler struct {
	engine      AuctionEngine
	connManager *ConnectionManager
	log         logger.Logger
}

func NewObserverHandler(engine AuctionEngine, connManager *ConnectionManager,
	log logger.Logger) *ObserverHandler {
	return &ObserverHandler{
		engine:      engine,
		connManager: connManager,
		log:         log,
	}
}

type inboundMessage struct {
	Type   string `json:"type"`
	LotID  string `json:"lot_id,omitempty"`
	Amount int64  `json:"amount,omitempty"`
}

func (h *ObserverHandler) HandleConnection(c echo.Context) error {
	teamID := c.QueryParam("team_id")

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection", "error", err)
		return err
	}

	observer := newObserverConn(conn, teamID)
	h.connManager.Register(observer)

	// Resync contract: a fresh snapshot precedes the event stream.
	if err := observer.Send(snapshotMessage(h.engine.Snapshot())); err != nil {
		h.log.Error("Failed to send snapshot", "client_id", observer.ClientID(), "error", err)
		h.connManager.Unregister(observer)
		return observer.Close()
	}

	go h.readLoop(observer)
	return nil
}

func (h *ObserverHandler) readLoop(observer *observerConn) {
	defer func() {
		h.connManager.Unregister(observer)
		observer.Close()
	}()

	for {
		var msg inboundMessage
		if err := observer.conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug("Observer read failed", "client_id", observer.ClientID(), "error", err)
			}
			return
		}

		switch msg.Type {
		case "place_bid":
			h.handleBid(observer, msg)
		case "resync":
			if err := observer.Send(snapshotMessage(h.engine.Snapshot())); err != nil {
				return
			}
		case "ping":
			observer.Send(map[string]string{"type": "pong"})
		}
	}
}

func (h *ObserverHandler) handleBid(observer *observerConn, msg inboundMessage) {
	if observer.TeamID() == "" {
		observer.Send(map[string]string{
			"type":   "bid_rejected",
			"reason": "not_a_registered_bidder",
		})
		return
	}

	bid, err := h.engine.SubmitBid(observer.TeamID(), msg.LotID, msg.Amount)
	if err != nil {
		observer.Send(map[string]interface{}{
			"type":   "bid_rejected",
			"reason": rejectionReason(err),
			"detail": err.Error(),
		})
		return
	}

	observer.Send(map[string]interface{}{
		"type": "bid_confirmed",
		"bid":  bid,
	})
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotAcceptingBids):
		return "not_accepting_bids"
	case errors.Is(err, domain.ErrStaleLot):
		return "stale_lot"
	case errors.Is(err, domain.ErrBidTooLow):
		return "bid_too_low"
	case errors.Is(err, domain.ErrInsufficientBudget):
		return "insufficient_budget"
	case errors.Is(err, domain.ErrUnknownTeam):
		return "unknown_team"
	default:
		return "internal_error"
	}
}

func snapshotMessage(snapshot *domain.Snapshot) map[string]interface{} {
	return map[string]interface{}{
		"type":     "snapshot",
		"snapshot": snapshot,
	}
}

type observerConn struct {
	conn     *websocket.Conn
	writeMu  sync.Mutex
	clientID string
	teamID   string
}

var _ domain.ObserverConnection = (*observerConn)(nil)

func newObserverConn(conn *websocket.Conn, teamID string) *observerConn {
	return &observerConn{
		conn:     conn,
		clientID: utils.GenerateID("conn"),
		teamID:   teamID,
	}
}

// Send is safe for concurrent use; gorilla connections allow one writer at
// a time.
func (o *observerConn) Send(message interface{}) error {
	o.writeMu.Lock()
	defer o.writeMu.Unlock()
	return o.conn.WriteJSON(message)
}

func (o *observerConn) Close() error {
	return o.conn.Close()
}

func (o *observerConn) ClientID() string {
	return o.clientID
}

func (o *observerConn) TeamID() string {
	return o.teamID
}
