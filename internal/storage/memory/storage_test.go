package memory

import (
	"context"
	"testing"
	"time"

	"github.com/mcoot/seabattle-go/internal/model"
	"github.com/stretchr/testify/suite"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := &model.Player{
		ID:        "player-1",
		Name:      "Alice",
		Wins:      2,
		CreatedAt: time.Now(),
	}

	err := s.storage.SavePlayer(s.ctx, player)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(player.ID, retrieved.ID)
	s.Equal("Alice", retrieved.Name)
	s.Equal(2, retrieved.Wins)
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

func (s *StorageSuite) TestDeletePlayerRemovesNameIndex() {
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "player-1", Name: "Alice"})

	err := s.storage.DeletePlayer(s.ctx, "player-1")
	s.Require().NoError(err)

	_, err = s.storage.GetPlayer(s.ctx, "player-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
	_, err = s.storage.GetPlayerByName(s.ctx, "Alice")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestReturnedPlayerIsACopy() {
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "player-1", Name: "Alice"})

	p, _ := s.storage.GetPlayer(s.ctx, "player-1")
	p.Wins = 99

	again, _ := s.storage.GetPlayer(s.ctx, "player-1")
	s.Equal(0, again.Wins)
}

func (s *StorageSuite) TestListPlayers() {
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "player-1", Name: "Alice"})
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "player-2", Name: "Bob"})

	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Len(players, 2)
}

// Room tests

func (s *StorageSuite) TestSaveAndGetRoom() {
	room := &model.Room{
		ID:        "room-1",
		MatchID:   "match-1",
		Occupants: []model.RoomOccupant{{PlayerID: "player-1", Name: "Alice"}},
	}
	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	retrieved, err := s.storage.GetRoom(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(model.MatchID("match-1"), retrieved.MatchID)
	s.True(retrieved.IsOpen())

	retrieved.Occupants = append(retrieved.Occupants, model.RoomOccupant{PlayerID: "player-2"})
	again, _ := s.storage.GetRoom(s.ctx, "room-1")
	s.Len(again.Occupants, 1)
}

func (s *StorageSuite) TestDeleteRoom() {
	_ = s.storage.SaveRoom(s.ctx, &model.Room{ID: "room-1"})
	s.Require().NoError(s.storage.DeleteRoom(s.ctx, "room-1"))

	_, err := s.storage.GetRoom(s.ctx, "room-1")
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

// Match tests

func (s *StorageSuite) TestSaveAndGetMatch() {
	match := &model.Match{
		ID:    "match-1",
		State: model.MatchStateAwaitingShips,
		Slots: []model.MatchSlot{{PlayerID: "player-1", Name: "Alice"}},
	}
	s.Require().NoError(s.storage.SaveMatch(s.ctx, match))

	retrieved, err := s.storage.GetMatch(s.ctx, "match-1")
	s.Require().NoError(err)
	s.Equal(model.MatchStateAwaitingShips, retrieved.State)
	s.Len(retrieved.Slots, 1)
}

func (s *StorageSuite) TestMatchBoardIsNotAliased() {
	board := model.NewBoard(model.BoardSize)
	match := &model.Match{
		ID:    "match-1",
		Slots: []model.MatchSlot{{PlayerID: "player-1", Board: board, FleetPlaced: true}},
	}
	_ = s.storage.SaveMatch(s.ctx, match)

	board.Set(model.Position{X: 1, Y: 1}, model.CellHit)

	retrieved, _ := s.storage.GetMatch(s.ctx, "match-1")
	s.Equal(model.CellUnknown, retrieved.Slots[0].Board.Get(model.Position{X: 1, Y: 1}))
}

func (s *StorageSuite) TestDeleteMatch() {
	_ = s.storage.SaveMatch(s.ctx, &model.Match{ID: "match-1"})
	s.Require().NoError(s.storage.DeleteMatch(s.ctx, "match-1"))

	_, err := s.storage.GetMatch(s.ctx, "match-1")
	s.ErrorIs(err, model.ErrMatchNotFound)

	matches, err := s.storage.ListMatches(s.ctx)
	s.Require().NoError(err)
	s.Empty(matches)
}
