package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/seabattle-go/internal/dependencies/clock"
	"github.com/mcoot/seabattle-go/internal/dependencies/random"
	"github.com/mcoot/seabattle-go/internal/model"
	"github.com/mcoot/seabattle-go/internal/services/fleet"
	"github.com/mcoot/seabattle-go/internal/services/game"
	"github.com/mcoot/seabattle-go/internal/services/lobby"
	"github.com/mcoot/seabattle-go/internal/storage"
)

const (
	// PlayerIDAlphabet is the character set for generating bot player IDs
	PlayerIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	// PlayerIDLength is the length of generated bot player IDs
	PlayerIDLength = 16
	// maxIDAttempts bounds the search for an unused bot id
	maxIDAttempts = 10
)

// Config holds bot behaviour settings
type Config struct {
	// AttackDelay is how long the bot waits before each attack
	AttackDelay time.Duration
	// Strategy names the entry in the strategy map used for new bots
	Strategy string
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() Config {
	return Config{
		AttackDelay: time.Second,
		Strategy:    model.BotStrategyRandom,
	}
}

// Service synthesizes bot opponents and plays their turns
type Service struct {
	storage         storage.Storage
	lobbyController *lobby.Controller
	gameController  *game.Controller
	fleetService    *fleet.Service
	strategies      map[string]Strategy
	config          Config
	clock           clock.Clock
	random          random.Random
	logger          *slog.Logger
	scheduler       *scheduler
}

// Service receives turn and end-of-match notifications from the game controller
var _ game.Observer = (*Service)(nil)

// NewService creates a new bot Service
func NewService(
	store storage.Storage,
	lobbyController *lobby.Controller,
	gameController *game.Controller,
	fleetService *fleet.Service,
	strategies map[string]Strategy,
	cfg Config,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:         store,
		lobbyController: lobbyController,
		gameController:  gameController,
		fleetService:    fleetService,
		strategies:      strategies,
		config:          cfg,
		clock:           clk,
		random:          rnd,
		logger:          logger.With(slog.String("component", "bot-service")),
		scheduler:       newScheduler(clk),
	}
}

// StartBotMatch seats the player against a freshly created bot whose fleet is
// already placed. The match starts as soon as the player places their fleet.
func (s *Service) StartBotMatch(ctx context.Context, playerID model.PlayerID) (*model.Match, error) {
	strategy, ok := s.strategies[s.config.Strategy]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrUnknownBotStrategy, s.config.Strategy)
	}

	if _, err := s.storage.GetPlayer(ctx, playerID); err != nil {
		return nil, err
	}

	ships, err := strategy.PlaceShips(s.fleetService)
	if err != nil {
		return nil, fmt.Errorf("bot fleet: %w", err)
	}

	bot, err := s.CreateBotPlayer(ctx, s.config.Strategy)
	if err != nil {
		return nil, err
	}

	match, err := s.lobbyController.SeatBotMatch(ctx, playerID, bot)
	if err != nil {
		s.removeBot(ctx, bot.ID)
		return nil, err
	}

	match, err = s.gameController.PlaceFleet(ctx, match.ID, bot.ID, ships)
	if err != nil {
		_ = s.gameController.Forfeit(ctx, match.ID, bot.ID)
		s.removeBot(ctx, bot.ID)
		return nil, err
	}

	s.logger.Info("bot match started",
		slog.String("match_id", string(match.ID)),
		slog.String("player_id", string(playerID)),
		slog.String("bot_id", string(bot.ID)),
	)
	return match, nil
}

// CreateBotPlayer creates a new bot player and saves it to storage
func (s *Service) CreateBotPlayer(ctx context.Context, strategy string) (*model.Player, error) {
	token, err := s.generateToken(ctx)
	if err != nil {
		return nil, err
	}

	player := &model.Player{
		ID:          model.PlayerID("bot-" + token),
		Name:        "Bot_" + token,
		IsBot:       true,
		BotStrategy: strategy,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}
	return player, nil
}

// TakeTurn fires the bot's attack at a random unrecorded cell. A match that
// has ended or moved on to the other player is ignored.
func (s *Service) TakeTurn(ctx context.Context, matchID model.MatchID, botID model.PlayerID) (*game.AttackResult, error) {
	result, err := s.gameController.RandomAttack(ctx, matchID, botID)
	switch {
	case errors.Is(err, model.ErrMatchNotFound),
		errors.Is(err, model.ErrMatchNotInProgress),
		errors.Is(err, model.ErrNotPlayerTurn):
		s.logger.Debug("bot turn skipped",
			slog.String("match_id", string(matchID)),
			slog.String("bot_id", string(botID)),
			slog.String("reason", err.Error()),
		)
		return nil, nil
	case err != nil:
		return nil, err
	}

	s.logger.Debug("bot attacked",
		slog.String("match_id", string(matchID)),
		slog.String("bot_id", string(botID)),
		slog.Int("x", result.Position.X),
		slog.Int("y", result.Position.Y),
		slog.String("outcome", string(result.Outcome)),
	)
	return result, nil
}

// TurnChanged schedules the bot's next attack when the turn passes to, or
// stays with, a bot
func (s *Service) TurnChanged(matchID model.MatchID, playerID model.PlayerID) {
	player, err := s.storage.GetPlayer(context.Background(), playerID)
	if err != nil || !player.IsBot {
		return
	}

	s.scheduler.schedule(matchID, s.config.AttackDelay, func() {
		if _, err := s.TakeTurn(context.Background(), matchID, playerID); err != nil {
			s.logger.Error("bot turn failed",
				slog.String("match_id", string(matchID)),
				slog.String("bot_id", string(playerID)),
				slog.String("error", err.Error()),
			)
		}
	})
}

// MatchEnded cancels any pending bot move and removes the match's bot identities
func (s *Service) MatchEnded(match *model.Match) {
	if s.scheduler.cancel(match.ID) {
		s.logger.Debug("pending bot turn cancelled", slog.String("match_id", string(match.ID)))
	}
	for _, slot := range match.Slots {
		if slot.IsBot {
			s.removeBot(context.Background(), slot.PlayerID)
		}
	}
}

// HasPendingTurn returns true if a bot attack is scheduled for the match
func (s *Service) HasPendingTurn(matchID model.MatchID) bool {
	return s.scheduler.pending(matchID)
}

// Shutdown cancels every pending bot move
func (s *Service) Shutdown() {
	s.scheduler.stop()
}

func (s *Service) removeBot(ctx context.Context, botID model.PlayerID) {
	if err := s.storage.DeletePlayer(ctx, botID); err != nil && !errors.Is(err, model.ErrPlayerNotFound) {
		s.logger.Warn("failed to delete bot player",
			slog.String("bot_id", string(botID)),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Service) generateToken(ctx context.Context) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		token := s.random.String(PlayerIDLength, PlayerIDAlphabet)
		if token == "" {
			continue
		}
		_, err := s.storage.GetPlayer(ctx, model.PlayerID("bot-"+token))
		if errors.Is(err, model.ErrPlayerNotFound) {
			return token, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", errors.New("could not allocate an unused bot id")
}
