package websocket

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"auction-engine/pkg/logger"
)

type fakeConn struct {
	clientID string
	teamID   string
	sent     []interface{}
	sendErr  error
	closed   bool
}

func (c *fakeConn) Send(message interface{}) error {
	if c.sendErr != nil {
		return c.sendErr
	}
	c.sent = append(c.sent, message)
	return nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func (c *fakeConn) ClientID() string { return c.clientID }
func (c *fakeConn) TeamID() string   { return c.teamID }

func TestBroadcastReachesAllObservers(t *testing.T) {
	cm := NewConnectionManager(logger.NewNop())
	first := &fakeConn{clientID: "c1", teamID: "team-a"}
	second := &fakeConn{clientID: "c2"}
	cm.Register(first)
	cm.Register(second)

	cm.Broadcast("hello")

	assert.Equal(t, []interface{}{"hello"}, first.sent)
	assert.Equal(t, []interface{}{"hello"}, second.sent)
}

func TestBroadcastSkipsFailedSends(t *testing.T) {
	cm := NewConnectionManager(logger.NewNop())
	broken := &fakeConn{clientID: "c1", sendErr: errors.New("broken pipe")}
	healthy := &fakeConn{clientID: "c2"}
	cm.Register(broken)
	cm.Register(healthy)

	cm.Broadcast("event")

	assert.Empty(t, broken.sent)
	assert.Len(t, healthy.sent, 1)
}

func TestNotifyTeamTargetsOnlyThatTeam(t *testing.T) {
	cm := NewConnectionManager(logger.NewNop())
	teamA1 := &fakeConn{clientID: "c1", teamID: "team-a"}
	teamA2 := &fakeConn{clientID: "c2", teamID: "team-a"}
	teamB := &fakeConn{clientID: "c3", teamID: "team-b"}
	spectator := &fakeConn{clientID: "c4"}
	for _, conn := range []*fakeConn{teamA1, teamA2, teamB, spectator} {
		cm.Register(conn)
	}

	cm.NotifyTeam("team-a", "rejected")

	assert.Len(t, teamA1.sent, 1)
	assert.Len(t, teamA2.sent, 1)
	assert.Empty(t, teamB.sent)
	assert.Empty(t, spectator.sent)
}

func TestUnregisterRemovesFromTeamIndex(t *testing.T) {
	cm := NewConnectionManager(logger.NewNop())
	first := &fakeConn{clientID: "c1", teamID: "team-a"}
	second := &fakeConn{clientID: "c2", teamID: "team-a"}
	cm.Register(first)
	cm.Register(second)

	cm.Unregister(first)

	assert.Equal(t, 1, cm.Count())
	cm.NotifyTeam("team-a", "msg")
	assert.Empty(t, first.sent)
	assert.Len(t, second.sent, 1)
}

func TestCloseAllClosesAndDropsEverything(t *testing.T) {
	cm := NewConnectionManager(logger.NewNop())
	first := &fakeConn{clientID: "c1", teamID: "team-a"}
	second := &fakeConn{clientID: "c2"}
	cm.Register(first)
	cm.Register(second)

	cm.CloseAll()

	assert.True(t, first.closed)
	assert.True(t, second.closed)
	assert.Equal(t, 0, cm.Count())

	cm.NotifyTeam("team-a", "msg")
	assert.Empty(t, first.sent)
}
