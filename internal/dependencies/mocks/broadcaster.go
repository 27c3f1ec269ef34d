package mocks

import (
	"sync"

	"github.com/mcoot/seabattle-go/internal/dependencies/broadcast"
	"github.com/mcoot/seabattle-go/internal/model"
)

// MockBroadcaster records every event it is asked to deliver
type MockBroadcaster struct {
	mu       sync.Mutex
	direct   map[model.PlayerID][]model.Event
	everyone []model.Event
}

var _ broadcast.Broadcaster = (*MockBroadcaster)(nil)

// NewMockBroadcaster creates an empty MockBroadcaster
func NewMockBroadcaster() *MockBroadcaster {
	return &MockBroadcaster{direct: make(map[model.PlayerID][]model.Event)}
}

func (b *MockBroadcaster) SendToPlayer(playerID model.PlayerID, event model.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.direct[playerID] = append(b.direct[playerID], event)
}

func (b *MockBroadcaster) SendToAll(event model.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.everyone = append(b.everyone, event)
}

// EventsFor returns the events sent directly to a player, in order
func (b *MockBroadcaster) EventsFor(playerID model.PlayerID) []model.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Event(nil), b.direct[playerID]...)
}

// TypesFor returns the types of the events sent directly to a player, in order
func (b *MockBroadcaster) TypesFor(playerID model.PlayerID) []model.EventType {
	events := b.EventsFor(playerID)
	types := make([]model.EventType, len(events))
	for i, e := range events {
		types[i] = e.Type
	}
	return types
}

// OfType returns the direct events of one type sent to a player
func (b *MockBroadcaster) OfType(playerID model.PlayerID, eventType model.EventType) []model.Event {
	var out []model.Event
	for _, e := range b.EventsFor(playerID) {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// Broadcasts returns the events sent to every connection, in order
func (b *MockBroadcaster) Broadcasts() []model.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Event(nil), b.everyone...)
}

// Reset clears all recorded events
func (b *MockBroadcaster) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.direct = make(map[model.PlayerID][]model.Event)
	b.everyone = nil
}
