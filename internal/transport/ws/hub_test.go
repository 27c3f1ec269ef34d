package ws

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/seabattle-go/internal/model"
	"github.com/mcoot/seabattle-go/internal/testutil"
)

type HubSuite struct {
	suite.Suite
	hub *Hub
}

func TestHubSuite(t *testing.T) {
	suite.Run(t, new(HubSuite))
}

func (s *HubSuite) SetupTest() {
	s.hub = NewHub(testutil.NopLogger())
}

func (s *HubSuite) connect(buffer int) *Client {
	c := newClient(nil, buffer)
	s.hub.Register(c)
	return c
}

func turnEvent(player model.PlayerID) model.Event {
	return model.Event{Type: model.EventTurn, Payload: model.TurnPayload{CurrentPlayer: player}}
}

func drain(c *Client) []Message {
	var msgs []Message
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return msgs
			}
			msgs = append(msgs, msg)
		default:
			return msgs
		}
	}
}

func (s *HubSuite) TestSendToPlayerReachesBoundClient() {
	alice := s.connect(4)
	other := s.connect(4)
	s.hub.Bind(alice, "alice")

	s.hub.SendToPlayer("alice", turnEvent("alice"))

	msgs := drain(alice)
	s.Require().Len(msgs, 1)
	s.Equal(TypeTurn, msgs[0].Type)
	s.Empty(drain(other))
}

func (s *HubSuite) TestSendToUnknownPlayerIsSkipped() {
	c := s.connect(4)
	s.hub.SendToPlayer("ghost", turnEvent("ghost"))
	s.Empty(drain(c))
}

func (s *HubSuite) TestSendToAllIncludesUnboundClients() {
	a := s.connect(4)
	b := s.connect(4)
	s.hub.Bind(a, "alice")

	s.hub.SendToAll(model.Event{Type: model.EventWinnersUpdated, Payload: model.WinnersPayload{}})

	s.Len(drain(a), 1)
	s.Len(drain(b), 1)
}

func (s *HubSuite) TestFullBufferDropsInsteadOfBlocking() {
	c := s.connect(1)
	s.hub.Bind(c, "alice")

	s.hub.SendToPlayer("alice", turnEvent("alice"))
	s.hub.SendToPlayer("alice", turnEvent("bob"))

	msgs := drain(c)
	s.Require().Len(msgs, 1)
	s.JSONEq(`{"currentPlayer":"alice"}`, msgs[0].Data)
}

func (s *HubSuite) TestRebindMovesPlayerToNewConnection() {
	first := s.connect(4)
	second := s.connect(4)
	s.hub.Bind(first, "alice")
	s.hub.Bind(second, "alice")

	_, bound := s.hub.PlayerOf(first)
	s.False(bound)

	s.hub.SendToPlayer("alice", turnEvent("alice"))
	s.Empty(drain(first))
	s.Len(drain(second), 1)

	// The stale connection closing does not release the player
	_, released := s.hub.Unregister(first)
	s.False(released)

	playerID, released := s.hub.Unregister(second)
	s.True(released)
	s.Equal(model.PlayerID("alice"), playerID)
}

func (s *HubSuite) TestRebindToAnotherPlayerReturnsDisplaced() {
	c := s.connect(4)
	s.Empty(s.hub.Bind(c, "alice"))
	s.Empty(s.hub.Bind(c, "alice"))

	s.Equal(model.PlayerID("alice"), s.hub.Bind(c, "bob"))

	playerID, bound := s.hub.PlayerOf(c)
	s.True(bound)
	s.Equal(model.PlayerID("bob"), playerID)

	s.hub.SendToPlayer("alice", turnEvent("alice"))
	s.Empty(drain(c))
}

func (s *HubSuite) TestRebindAfterTakeoverDisplacesNobody() {
	first := s.connect(4)
	second := s.connect(4)
	s.hub.Bind(first, "alice")
	s.hub.Bind(second, "alice")

	// alice now lives on second, so first switching players releases nothing
	s.Empty(s.hub.Bind(first, "bob"))
}

func (s *HubSuite) TestUnregisterClosesQueue() {
	c := s.connect(4)
	s.Equal(1, s.hub.ClientCount())

	_, released := s.hub.Unregister(c)
	s.False(released)
	s.Equal(0, s.hub.ClientCount())

	_, open := <-c.send
	s.False(open)

	// Sending to a gone client is a no-op
	s.hub.Send(c, Message{Type: TypeTurn})
	_, released = s.hub.Unregister(c)
	s.False(released)
}

func (s *HubSuite) TestCloseDisconnectsEveryone() {
	a := s.connect(4)
	b := s.connect(4)
	s.hub.Bind(a, "alice")

	s.hub.Close()

	s.Equal(0, s.hub.ClientCount())
	_, open := <-a.send
	s.False(open)
	_, open = <-b.send
	s.False(open)

	// Nothing is routed to closed queues
	s.NotPanics(func() { s.hub.SendToPlayer("alice", turnEvent("alice")) })
}
