package broadcast

import (
	"context"

	"github.com/mcoot/seabattle-go/internal/model"
)

// Broadcaster delivers engine events to connected participants.
// Implementations must not block: slow or disconnected players are skipped.
type Broadcaster interface {
	SendToPlayer(playerID model.PlayerID, event model.Event)
	SendToAll(event model.Event)
}

// Nop discards every event
type Nop struct{}

var _ Broadcaster = Nop{}

func (Nop) SendToPlayer(model.PlayerID, model.Event) {}
func (Nop) SendToAll(model.Event)                    {}

// Fanout delivers every event to each of its broadcasters in order
type Fanout []Broadcaster

var _ Broadcaster = Fanout(nil)

func (f Fanout) SendToPlayer(playerID model.PlayerID, event model.Event) {
	for _, b := range f {
		b.SendToPlayer(playerID, event)
	}
}

func (f Fanout) SendToAll(event model.Event) {
	for _, b := range f {
		b.SendToAll(event)
	}
}

type requestIDKey struct{}

// WithRequestID attaches a transport correlation id to the context
func WithRequestID(ctx context.Context, id int) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the correlation id attached to ctx, or 0
func RequestID(ctx context.Context) int {
	id, _ := ctx.Value(requestIDKey{}).(int)
	return id
}
