package leaderboard

import (
	"context"
	"log/slog"
	"sort"

	"github.com/mcoot/seabattle-go/internal/dependencies/broadcast"
	"github.com/mcoot/seabattle-go/internal/dependencies/clock"
	"github.com/mcoot/seabattle-go/internal/model"
	"github.com/mcoot/seabattle-go/internal/storage"
)

// Service computes and publishes the winners table
type Service struct {
	storage     storage.Storage
	broadcaster broadcast.Broadcaster
	clock       clock.Clock
	logger      *slog.Logger
}

// New creates a new leaderboard Service
func New(storage storage.Storage, broadcaster broadcast.Broadcaster, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage:     storage,
		broadcaster: broadcaster,
		clock:       clock,
		logger:      logger.With(slog.String("component", "leaderboard")),
	}
}

// Winners returns every human player ordered by wins (descending), then name
func (s *Service) Winners(ctx context.Context) ([]model.Winner, error) {
	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}

	winners := make([]model.Winner, 0, len(players))
	for _, p := range players {
		if p.IsBot {
			continue
		}
		winners = append(winners, model.Winner{Name: p.Name, Wins: p.Wins})
	}

	sort.Slice(winners, func(i, j int) bool {
		if winners[i].Wins != winners[j].Wins {
			return winners[i].Wins > winners[j].Wins
		}
		return winners[i].Name < winners[j].Name
	})
	return winners, nil
}

// Publish broadcasts the current winners table to every connection
func (s *Service) Publish(ctx context.Context) error {
	winners, err := s.Winners(ctx)
	if err != nil {
		s.logger.Error("failed to compute winners", slog.String("error", err.Error()))
		return err
	}

	s.broadcaster.SendToAll(model.Event{
		Type:      model.EventWinnersUpdated,
		Timestamp: s.clock.Now(),
		RequestID: broadcast.RequestID(ctx),
		Payload:   model.WinnersPayload{Winners: winners},
	})
	return nil
}
