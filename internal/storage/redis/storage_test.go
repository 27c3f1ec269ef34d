package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/seabattle-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.BotPlayerTTL = time.Hour
	cfg.RoomTTL = time.Hour
	cfg.MatchTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := &model.Player{
		ID:           "player-1",
		Name:         "Alice",
		PasswordHash: "hash",
		Wins:         3,
		CreatedAt:    time.Now(),
	}

	err := s.storage.SavePlayer(s.ctx, player)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(player.ID, retrieved.ID)
	s.Equal("Alice", retrieved.Name)
	s.Equal("hash", retrieved.PasswordHash)
	s.Equal(3, retrieved.Wins)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestGetPlayerByName() {
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "player-1", Name: "Alice"})

	retrieved, err := s.storage.GetPlayerByName(s.ctx, "Alice")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("player-1"), retrieved.ID)

	_, err = s.storage.GetPlayerByName(s.ctx, "Bob")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestDeletePlayer() {
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "player-1", Name: "Alice"})

	err := s.storage.DeletePlayer(s.ctx, "player-1")
	s.Require().NoError(err)

	_, err = s.storage.GetPlayer(s.ctx, "player-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
	_, err = s.storage.GetPlayerByName(s.ctx, "Alice")
	s.ErrorIs(err, model.ErrPlayerNotFound)

	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Empty(players)
}

func (s *StorageSuite) TestDeleteMissingPlayerIsNoop() {
	s.NoError(s.storage.DeletePlayer(s.ctx, "nonexistent"))
}

func (s *StorageSuite) TestPlayerTTL() {
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "human", Name: "Alice"})
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "bot", Name: "Bot", IsBot: true})

	s.Equal(time.Duration(0), s.mini.TTL(playerKey("human")))
	s.Equal(time.Hour, s.mini.TTL(playerKey("bot")))
}

func (s *StorageSuite) TestListPlayersPrunesExpired() {
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "human", Name: "Alice"})
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "bot", Name: "Bot", IsBot: true})

	s.mini.FastForward(2 * time.Hour)

	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 1)
	s.Equal(model.PlayerID("human"), players[0].ID)

	members, err := s.mini.Members(playersIndexKey())
	s.Require().NoError(err)
	s.Equal([]string{playerKey("human")}, members)
}

// Room tests

func (s *StorageSuite) TestSaveAndGetRoom() {
	room := &model.Room{
		ID:        "room-1",
		MatchID:   "match-1",
		Occupants: []model.RoomOccupant{{PlayerID: "player-1", Name: "Alice"}},
		CreatedAt: time.Now(),
	}
	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	retrieved, err := s.storage.GetRoom(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(model.MatchID("match-1"), retrieved.MatchID)
	s.Require().Len(retrieved.Occupants, 1)
	s.Equal("Alice", retrieved.Occupants[0].Name)
	s.Equal(time.Hour, s.mini.TTL(roomKey("room-1")))
}

func (s *StorageSuite) TestGetRoomNotFound() {
	_, err := s.storage.GetRoom(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestListRoomsOrderedByCreation() {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	_ = s.storage.SaveRoom(s.ctx, &model.Room{ID: "room-b", CreatedAt: base.Add(time.Minute)})
	_ = s.storage.SaveRoom(s.ctx, &model.Room{ID: "room-a", CreatedAt: base.Add(2 * time.Minute)})
	_ = s.storage.SaveRoom(s.ctx, &model.Room{ID: "room-c", CreatedAt: base})

	rooms, err := s.storage.ListRooms(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(rooms, 3)
	s.Equal(model.RoomID("room-c"), rooms[0].ID)
	s.Equal(model.RoomID("room-b"), rooms[1].ID)
	s.Equal(model.RoomID("room-a"), rooms[2].ID)
}

func (s *StorageSuite) TestDeleteRoom() {
	_ = s.storage.SaveRoom(s.ctx, &model.Room{ID: "room-1"})
	s.Require().NoError(s.storage.DeleteRoom(s.ctx, "room-1"))

	_, err := s.storage.GetRoom(s.ctx, "room-1")
	s.ErrorIs(err, model.ErrRoomNotFound)

	rooms, err := s.storage.ListRooms(s.ctx)
	s.Require().NoError(err)
	s.Empty(rooms)
}

// Match tests

func (s *StorageSuite) TestSaveAndGetMatchRoundTripsBoards() {
	board := model.NewBoard(model.BoardSize)
	board.Set(model.Position{X: 3, Y: 7}, model.CellSunk)
	match := &model.Match{
		ID:          "match-1",
		State:       model.MatchStateInProgress,
		CurrentTurn: "player-1",
		Slots: []model.MatchSlot{
			{
				PlayerID:    "player-1",
				Ships:       []model.Ship{{Origin: model.Position{X: 1, Y: 2}, Orientation: model.Vertical, Length: 3, Class: model.ShipLarge}},
				Board:       board,
				FleetPlaced: true,
			},
			{PlayerID: "player-2"},
		},
	}
	s.Require().NoError(s.storage.SaveMatch(s.ctx, match))

	retrieved, err := s.storage.GetMatch(s.ctx, "match-1")
	s.Require().NoError(err)
	s.Equal(model.MatchStateInProgress, retrieved.State)
	s.Equal(model.PlayerID("player-1"), retrieved.CurrentTurn)
	s.Require().Len(retrieved.Slots, 2)
	s.Equal(match.Slots[0].Ships, retrieved.Slots[0].Ships)
	s.Equal(model.CellSunk, retrieved.Slots[0].Board.Get(model.Position{X: 3, Y: 7}))
	s.Nil(retrieved.Slots[1].Board)
}

func (s *StorageSuite) TestGetMatchNotFound() {
	_, err := s.storage.GetMatch(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrMatchNotFound)
}

func (s *StorageSuite) TestListAndDeleteMatches() {
	_ = s.storage.SaveMatch(s.ctx, &model.Match{ID: "match-1"})
	_ = s.storage.SaveMatch(s.ctx, &model.Match{ID: "match-2"})

	matches, err := s.storage.ListMatches(s.ctx)
	s.Require().NoError(err)
	s.Len(matches, 2)

	s.Require().NoError(s.storage.DeleteMatch(s.ctx, "match-1"))

	matches, err = s.storage.ListMatches(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(matches, 1)
	s.Equal(model.MatchID("match-2"), matches[0].ID)
}
