package leaderboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/seabattle-go/internal/dependencies/broadcast"
	"github.com/mcoot/seabattle-go/internal/dependencies/mocks"
	"github.com/mcoot/seabattle-go/internal/model"
	"github.com/mcoot/seabattle-go/internal/storage/memory"
	"github.com/mcoot/seabattle-go/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage     *memory.Storage
	broadcaster *mocks.MockBroadcaster
	service     *Service
	ctx         context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.broadcaster = mocks.NewMockBroadcaster()
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.broadcaster, clk, testutil.NopLogger())
	s.ctx = context.Background()

	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "p1", Name: "Carol", Wins: 1})
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "p2", Name: "Alice", Wins: 3})
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "p3", Name: "Bob", Wins: 1})
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "bot", Name: "Bot", Wins: 9, IsBot: true})
}

func (s *ServiceSuite) TestWinnersSortedAndExcludesBots() {
	winners, err := s.service.Winners(s.ctx)
	s.Require().NoError(err)

	s.Equal([]model.Winner{
		{Name: "Alice", Wins: 3},
		{Name: "Bob", Wins: 1},
		{Name: "Carol", Wins: 1},
	}, winners)
}

func (s *ServiceSuite) TestPublishBroadcastsToAll() {
	ctx := broadcast.WithRequestID(s.ctx, 7)
	s.Require().NoError(s.service.Publish(ctx))

	events := s.broadcaster.Broadcasts()
	s.Require().Len(events, 1)
	s.Equal(model.EventWinnersUpdated, events[0].Type)
	s.Equal(7, events[0].RequestID)

	payload, ok := events[0].Payload.(model.WinnersPayload)
	s.Require().True(ok)
	s.Len(payload.Winners, 3)
}
