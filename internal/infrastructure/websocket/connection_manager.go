package websocket

import (
	"sync"

	"auction-engine/internal/domain"
	"auction-engine/pkg/logger"
)

// ConnectionManager tracks connected observers for the single running
// auction, keyed by connection ID and indexed by team for targeted
// rejection notices.
type ConnectionManager struct {
	mu     sync.RWMutex
	conns  map[string]domain.ObserverConnection   // connID -> connection
	byTeam map[string][]domain.ObserverConnection // teamID -> connections
	log    logger.Logger
}

func NewConnectionManager(log logger.Logger) *ConnectionManager {
	return &ConnectionManager{
		conns:  make(map[string]domain.ObserverConnection),
		byTeam: make(map[string][]domain.ObserverConnection),
		log:    log,
	}
}

func (cm *ConnectionManager) Register(conn domain.ObserverConnection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	cm.conns[conn.ClientID()] = conn
	if teamID := conn.TeamID(); teamID != "" {
		cm.byTeam[teamID] = append(cm.byTeam[teamID], conn)
	}

	cm.log.Info("Observer connected", "client_id", conn.ClientID(), "team_id", conn.TeamID())
}

func (cm *ConnectionManager) Unregister(conn domain.ObserverConnection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	delete(cm.conns, conn.ClientID())

	teamID := conn.TeamID()
	if teamID == "" {
		return
	}

	var remaining []domain.ObserverConnection
	for _, existing := range cm.byTeam[teamID] {
		if existing.ClientID() != conn.ClientID() {
			remaining = append(remaining, existing)
		}
	}
	if len(remaining) == 0 {
		delete(cm.byTeam, teamID)
	} else {
		cm.byTeam[teamID] = remaining
	}

	cm.log.Info("Observer disconnected", "client_id", conn.ClientID(), "team_id", teamID)
}

func (cm *ConnectionManager) connections() []domain.ObserverConnection {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	out := make([]domain.ObserverConnection, 0, len(cm.conns))
	for _, conn := range cm.conns {
		out = append(out, conn)
	}
	return out
}

// Broadcast sends a message to every connected observer. A failed send is
// logged and skipped; the connection's own read loop notices the broken
// pipe and unregisters it.
func (cm *ConnectionManager) Broadcast(message interface{}) {
	for _, conn := range cm.connections() {
		if err := conn.Send(message); err != nil {
			cm.log.Error("Failed to send to observer", "client_id", conn.ClientID(), "error", err)
		}
	}
}

// NotifyTeam sends a message to every connection belonging to one team.
func (cm *ConnectionManager) NotifyTeam(teamID string, message interface{}) {
	cm.mu.RLock()
	conns := make([]domain.ObserverConnection, len(cm.byTeam[teamID]))
	copy(conns, cm.byTeam[teamID])
	cm.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.Send(message); err != nil {
			cm.log.Error("Failed to notify team", "team_id", teamID,
				"client_id", conn.ClientID(), "error", err)
		}
	}
}

func (cm *ConnectionManager) Count() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.conns)
}

// CloseAll closes and drops every connection.
func (cm *ConnectionManager) CloseAll() {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	for id, conn := range cm.conns {
		if err := conn.Close(); err != nil {
			cm.log.Error("Failed to close connection", "client_id", id, "error", err)
		}
		delete(cm.conns, id)
	}
	cm.byTeam = make(map[string][]domain.ObserverConnection)
}
