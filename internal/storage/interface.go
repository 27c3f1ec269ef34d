package storage

import (
	"context"

	"github.com/mcoot/seabattle-go/internal/model"
)

// Storage is the registry of players, waiting rooms and active matches.
// Implementations return copies: mutating a returned record has no effect until it is saved.
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	GetPlayerByName(ctx context.Context, name string) (*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error
	ListPlayers(ctx context.Context) ([]*model.Player, error)

	// Room operations
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error)
	DeleteRoom(ctx context.Context, id model.RoomID) error
	// ListRooms returns rooms ordered by creation time
	ListRooms(ctx context.Context) ([]*model.Room, error)

	// Match operations
	SaveMatch(ctx context.Context, match *model.Match) error
	GetMatch(ctx context.Context, id model.MatchID) (*model.Match, error)
	DeleteMatch(ctx context.Context, id model.MatchID) error
	ListMatches(ctx context.Context) ([]*model.Match, error)
}
