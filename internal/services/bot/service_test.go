package bot_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/seabattle-go/internal/dependencies/mocks"
	"github.com/mcoot/seabattle-go/internal/model"
	"github.com/mcoot/seabattle-go/internal/services/bot"
	"github.com/mcoot/seabattle-go/internal/services/fleet"
	"github.com/mcoot/seabattle-go/internal/services/game"
	"github.com/mcoot/seabattle-go/internal/services/leaderboard"
	"github.com/mcoot/seabattle-go/internal/services/lobby"
	"github.com/mcoot/seabattle-go/internal/storage/memory"
	"github.com/mcoot/seabattle-go/internal/testutil"
)

// fixedStrategy always places the same fleet
type fixedStrategy struct {
	ships []model.Ship
	err   error
}

func (f fixedStrategy) PlaceShips(*fleet.Service) ([]model.Ship, error) {
	return f.ships, f.err
}

type ServiceSuite struct {
	suite.Suite
	store       *memory.Storage
	broadcaster *mocks.MockBroadcaster
	mockClock   *mocks.MockClock
	mockRandom  *mocks.MockRandom

	gameController  *game.Controller
	lobbyController *lobby.Controller
	botService      *bot.Service

	ctx context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = memory.New()
	s.broadcaster = mocks.NewMockBroadcaster()
	s.mockClock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.mockRandom = mocks.NewMockRandom()
	s.ctx = context.Background()

	s.botService = s.newService(fixedStrategy{ships: testutil.StandardFleet()})
	_ = s.store.SavePlayer(s.ctx, &model.Player{ID: "human", Name: "Human"})
}

func (s *ServiceSuite) newService(strategy bot.Strategy) *bot.Service {
	logger := testutil.NopLogger()
	fleetService := fleet.New(fleet.DefaultRules())
	board := leaderboard.New(s.store, s.broadcaster, s.mockClock, logger)
	s.gameController = game.NewController(s.store, fleetService, board, s.broadcaster, s.mockClock, s.mockRandom, logger)
	s.lobbyController = lobby.NewController(s.store, s.gameController, s.broadcaster, s.mockClock, s.mockRandom, logger)

	service := bot.NewService(
		s.store,
		s.lobbyController,
		s.gameController,
		fleetService,
		map[string]bot.Strategy{model.BotStrategyRandom: strategy},
		bot.DefaultConfig(),
		s.mockClock,
		s.mockRandom,
		logger,
	)
	s.gameController.AddObserver(service)
	return service
}

// startPlaying opens a bot match and places the human's fleet so play begins
func (s *ServiceSuite) startPlaying() *model.Match {
	s.mockRandom.QueueString("abcdefghijklmnop", "MATCH1")
	match, err := s.botService.StartBotMatch(s.ctx, "human")
	s.Require().NoError(err)

	match, err = s.gameController.PlaceFleet(s.ctx, match.ID, "human", testutil.StandardFleet())
	s.Require().NoError(err)
	s.Require().Equal(model.MatchStateInProgress, match.State)
	return match
}

func (s *ServiceSuite) TestCreateBotPlayer() {
	s.mockRandom.QueueString("abcdefghijklmnop")

	player, err := s.botService.CreateBotPlayer(s.ctx, model.BotStrategyRandom)
	s.Require().NoError(err)

	s.Equal(model.PlayerID("bot-abcdefghijklmnop"), player.ID)
	s.Equal("Bot_abcdefghijklmnop", player.Name)
	s.True(player.IsBot)

	retrieved, err := s.store.GetPlayer(s.ctx, player.ID)
	s.Require().NoError(err)
	s.True(retrieved.IsBot)
}

func (s *ServiceSuite) TestCreateBotPlayer_SkipsTakenID() {
	_ = s.store.SavePlayer(s.ctx, &model.Player{ID: "bot-taken", Name: "Bot_taken", IsBot: true})
	s.mockRandom.QueueString("taken", "fresh")

	player, err := s.botService.CreateBotPlayer(s.ctx, model.BotStrategyRandom)
	s.Require().NoError(err)
	s.Equal(model.PlayerID("bot-fresh"), player.ID)
}

func (s *ServiceSuite) TestStartBotMatch() {
	s.mockRandom.QueueString("abcdefghijklmnop", "MATCH1")

	match, err := s.botService.StartBotMatch(s.ctx, "human")
	s.Require().NoError(err)

	s.Equal(model.MatchID("MATCH1"), match.ID)
	s.True(match.IsBotMatch)
	s.Equal(model.MatchStateAwaitingShips, match.State)
	s.Equal(model.PlayerID("human"), match.Slots[0].PlayerID)

	botSlot := match.Slots[1]
	s.True(botSlot.IsBot)
	s.True(botSlot.FleetPlaced)
	s.Len(botSlot.Ships, 10)
	s.False(match.Slots[0].FleetPlaced)

	s.Len(s.broadcaster.OfType("human", model.EventMatchCreated), 1)
}

func (s *ServiceSuite) TestStartBotMatch_UnknownPlayer() {
	_, err := s.botService.StartBotMatch(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ServiceSuite) TestStartBotMatch_PlacementExhausted() {
	service := s.newService(fixedStrategy{err: model.ErrFleetPlacementExhausted})

	_, err := service.StartBotMatch(s.ctx, "human")
	s.ErrorIs(err, model.ErrFleetPlacementExhausted)

	matches, _ := s.store.ListMatches(s.ctx)
	s.Empty(matches)
}

func (s *ServiceSuite) TestStartBotMatch_AlreadySeatedRemovesBot() {
	s.mockRandom.QueueString("ROOM01", "MATCH1", "abcdefghijklmnop")
	_, err := s.lobbyController.CreateRoom(s.ctx, "human")
	s.Require().NoError(err)

	_, err = s.botService.StartBotMatch(s.ctx, "human")
	s.ErrorIs(err, model.ErrAlreadySeated)

	_, err = s.store.GetPlayer(s.ctx, "bot-abcdefghijklmnop")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ServiceSuite) TestStartBotMatch_InvalidBotFleetIsForfeited() {
	service := s.newService(fixedStrategy{ships: testutil.SingleCellFleet(0, 0)})
	s.mockRandom.QueueString("abcdefghijklmnop", "MATCH1")

	_, err := service.StartBotMatch(s.ctx, "human")
	s.ErrorIs(err, model.ErrFleetComposition)

	_, err = s.gameController.GetMatch(s.ctx, "MATCH1")
	s.ErrorIs(err, model.ErrMatchNotFound)
	_, err = s.store.GetPlayer(s.ctx, "bot-abcdefghijklmnop")
	s.ErrorIs(err, model.ErrPlayerNotFound)

	human, _ := s.store.GetPlayer(s.ctx, "human")
	s.Equal(0, human.Wins)
}

func (s *ServiceSuite) TestHumanOpensBotMatch() {
	match := s.startPlaying()

	s.Equal(model.PlayerID("human"), match.CurrentTurn)
	s.False(s.botService.HasPendingTurn(match.ID))
	s.Equal(0, s.mockClock.PendingTimers())
}

func (s *ServiceSuite) TestBotAttacksAfterDelayWhenHumanMisses() {
	match := s.startPlaying()
	botID := match.Slots[1].PlayerID

	// Row 9 is empty in the standard layout
	result, err := s.gameController.Attack(s.ctx, match.ID, "human", model.Position{X: 9, Y: 9})
	s.Require().NoError(err)
	s.Equal(model.OutcomeMiss, result.Outcome)
	s.True(s.botService.HasPendingTurn(match.ID))

	// Nothing happens before the delay elapses
	s.mockClock.Advance(500 * time.Millisecond)
	current, _ := s.gameController.GetMatch(s.ctx, match.ID)
	s.False(current.Slot(botID).Board.IsRecorded(model.Position{X: 0, Y: 0}))

	// The mock picks the first unrecorded cell, which holds the human's huge ship
	s.mockClock.Advance(500 * time.Millisecond)
	current, _ = s.gameController.GetMatch(s.ctx, match.ID)
	s.Equal(model.CellHit, current.Slot(botID).Board.Get(model.Position{X: 0, Y: 0}))
	s.Equal(botID, current.CurrentTurn)

	// A hit keeps the turn, so another attack is queued
	s.True(s.botService.HasPendingTurn(match.ID))
	s.mockClock.Advance(time.Second)
	current, _ = s.gameController.GetMatch(s.ctx, match.ID)
	s.Equal(model.CellHit, current.Slot(botID).Board.Get(model.Position{X: 1, Y: 0}))
}

func (s *ServiceSuite) TestBotAttackEventsReachHuman() {
	match := s.startPlaying()
	_, _ = s.gameController.Attack(s.ctx, match.ID, "human", model.Position{X: 9, Y: 9})
	s.broadcaster.Reset()

	s.mockClock.Advance(time.Second)

	attacks := s.broadcaster.OfType("human", model.EventAttackResult)
	s.Require().Len(attacks, 1)
	payload := attacks[0].Payload.(model.AttackResultPayload)
	s.Equal(match.Slots[1].PlayerID, payload.CurrentPlayer)
	s.Equal(model.OutcomeHit, payload.Outcome)
	s.Zero(attacks[0].RequestID)
}

func (s *ServiceSuite) TestBotPassesTurnBackOnMiss() {
	match := s.startPlaying()
	botID := match.Slots[1].PlayerID

	// Pre-record the huge ship's row so the bot's first pick is the empty cell (4,0)
	current, _ := s.store.GetMatch(s.ctx, match.ID)
	for x := 0; x < 4; x++ {
		current.Slot(botID).Board.Set(model.Position{X: x, Y: 0}, model.CellSunk)
	}
	_ = s.store.SaveMatch(s.ctx, current)

	_, _ = s.gameController.Attack(s.ctx, match.ID, "human", model.Position{X: 9, Y: 9})
	s.mockClock.Advance(time.Second)

	current, _ = s.gameController.GetMatch(s.ctx, match.ID)
	s.Equal(model.CellMiss, current.Slot(botID).Board.Get(model.Position{X: 4, Y: 0}))
	s.Equal(model.PlayerID("human"), current.CurrentTurn)
	s.False(s.botService.HasPendingTurn(match.ID))
}

func (s *ServiceSuite) TestForfeitCancelsPendingTurnAndRemovesBot() {
	match := s.startPlaying()
	botID := match.Slots[1].PlayerID
	_, _ = s.gameController.Attack(s.ctx, match.ID, "human", model.Position{X: 9, Y: 9})
	s.Require().True(s.botService.HasPendingTurn(match.ID))

	s.Require().NoError(s.lobbyController.Leave(s.ctx, "human"))

	s.False(s.botService.HasPendingTurn(match.ID))
	s.Equal(0, s.mockClock.PendingTimers())
	_, err := s.store.GetPlayer(s.ctx, botID)
	s.ErrorIs(err, model.ErrPlayerNotFound)

	// Firing the clock past the old deadline is harmless
	s.broadcaster.Reset()
	s.mockClock.Advance(time.Minute)
	s.Empty(s.broadcaster.OfType("human", model.EventAttackResult))
}

func (s *ServiceSuite) TestBotWinIsNotCounted() {
	match := s.startPlaying()
	botID := match.Slots[1].PlayerID

	_, _ = s.gameController.Attack(s.ctx, match.ID, "human", model.Position{X: 9, Y: 9})
	for i := 0; i < 200; i++ {
		current, err := s.gameController.GetMatch(s.ctx, match.ID)
		if err != nil {
			break
		}
		if current.CurrentTurn == "human" {
			// Keep handing the turn back with misses on the empty bottom rows
			pos := s.nextEmptyTarget(current)
			_, err := s.gameController.Attack(s.ctx, match.ID, "human", pos)
			s.Require().NoError(err)
			continue
		}
		s.mockClock.Advance(time.Second)
	}

	_, err := s.gameController.GetMatch(s.ctx, match.ID)
	s.ErrorIs(err, model.ErrMatchNotFound)

	finish := s.broadcaster.OfType("human", model.EventFinish)
	s.Require().Len(finish, 1)
	s.Equal(botID, finish[0].Payload.(model.FinishPayload).Winner)

	human, _ := s.store.GetPlayer(s.ctx, "human")
	s.Equal(0, human.Wins)
	_, err = s.store.GetPlayer(s.ctx, botID)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// nextEmptyTarget returns an unrecorded cell in rows 5-9, which the standard layout leaves empty
func (s *ServiceSuite) nextEmptyTarget(match *model.Match) model.Position {
	board := match.Slot("human").Board
	for y := 5; y < model.BoardSize; y++ {
		for x := 0; x < model.BoardSize; x++ {
			pos := model.Position{X: x, Y: y}
			if !board.IsRecorded(pos) {
				return pos
			}
		}
	}
	s.FailNow("no empty target left")
	return model.Position{}
}

func (s *ServiceSuite) TestTakeTurnIgnoresOtherPlayersTurn() {
	match := s.startPlaying()

	result, err := s.botService.TakeTurn(s.ctx, match.ID, match.Slots[1].PlayerID)
	s.NoError(err)
	s.Nil(result)
}

func (s *ServiceSuite) TestTakeTurnIgnoresMissingMatch() {
	result, err := s.botService.TakeTurn(s.ctx, "GONE", "bot-x")
	s.NoError(err)
	s.Nil(result)
}

func (s *ServiceSuite) TestShutdownCancelsPendingTurns() {
	match := s.startPlaying()
	_, _ = s.gameController.Attack(s.ctx, match.ID, "human", model.Position{X: 9, Y: 9})

	s.botService.Shutdown()

	s.False(s.botService.HasPendingTurn(match.ID))
	s.Equal(0, s.mockClock.PendingTimers())
}
