package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/seabattle-go/internal/dependencies/broadcast"
	"github.com/mcoot/seabattle-go/internal/dependencies/clock"
	"github.com/mcoot/seabattle-go/internal/dependencies/random"
	"github.com/mcoot/seabattle-go/internal/model"
	"github.com/mcoot/seabattle-go/internal/services/auth"
	"github.com/mcoot/seabattle-go/internal/services/bot"
	"github.com/mcoot/seabattle-go/internal/services/fleet"
	"github.com/mcoot/seabattle-go/internal/services/game"
	"github.com/mcoot/seabattle-go/internal/services/leaderboard"
	"github.com/mcoot/seabattle-go/internal/services/lobby"
	"github.com/mcoot/seabattle-go/internal/storage"
	"github.com/mcoot/seabattle-go/internal/storage/memory"
	redisstorage "github.com/mcoot/seabattle-go/internal/storage/redis"
	"github.com/mcoot/seabattle-go/internal/transport/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock       clock.Clock
	Random      random.Random
	Broadcaster broadcast.Broadcaster

	// Services
	FleetService    *fleet.Service
	Leaderboard     *leaderboard.Service
	GameController  *game.Controller
	LobbyController *lobby.Controller
	AuthService     *auth.Service
	BotService      *bot.Service

	// Transport
	Hub       *ws.Hub
	WSHandler *ws.Handler
	WSServer  *ws.Server
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// FleetRules overrides the placement rules (optional)
	// If nil, defaults to fleet.DefaultRules()
	FleetRules *fleet.Rules
	// BotConfig holds bot behaviour settings (optional)
	// If zero value, defaults to bot.DefaultConfig()
	BotConfig bot.Config
	// WSConfig holds websocket connection settings (optional)
	// If zero value, defaults to ws.DefaultConfig()
	WSConfig ws.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// withDefaults fills in every optional field left at its zero value
func (cfg Config) withDefaults() Config {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if cfg.AuthConfig.BcryptCost == 0 {
		cfg.AuthConfig = auth.DefaultConfig()
	}
	if cfg.FleetRules == nil {
		rules := fleet.DefaultRules()
		cfg.FleetRules = &rules
	}
	defaults := bot.DefaultConfig()
	if cfg.BotConfig.AttackDelay == 0 {
		cfg.BotConfig.AttackDelay = defaults.AttackDelay
	}
	if cfg.BotConfig.Strategy == "" {
		cfg.BotConfig.Strategy = defaults.Strategy
	}
	if cfg.WSConfig == (ws.Config{}) {
		cfg.WSConfig = ws.DefaultConfig()
	}
	return cfg
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	cfg = cfg.withDefaults()

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, nil, cfg), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing).
// Engine events go to the websocket hub and to extra, if set.
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, extra broadcast.Broadcaster, cfg Config) *App {
	logger := cfg.Logger

	hub := ws.NewHub(logger)
	var broadcaster broadcast.Broadcaster = hub
	if extra != nil {
		broadcaster = broadcast.Fanout{hub, extra}
	}

	// Create services
	fleetService := fleet.New(*cfg.FleetRules)
	board := leaderboard.New(store, broadcaster, clk, logger)
	gameController := game.NewController(store, fleetService, board, broadcaster, clk, rnd, logger)
	lobbyController := lobby.NewController(store, gameController, broadcaster, clk, rnd, logger)
	authService := auth.New(store, clk, cfg.AuthConfig, logger)

	strategies := map[string]bot.Strategy{
		model.BotStrategyRandom: bot.NewRandomStrategy(rnd),
	}
	botService := bot.NewService(store, lobbyController, gameController, fleetService, strategies, cfg.BotConfig, clk, rnd, logger)
	gameController.AddObserver(botService)

	// Create transport
	wsHandler := ws.NewHandler(hub, authService, lobbyController, gameController, botService, board, logger)
	wsServer := ws.NewServer(hub, wsHandler, cfg.WSConfig, logger)

	return &App{
		Storage:         store,
		Clock:           clk,
		Random:          rnd,
		Broadcaster:     broadcaster,
		FleetService:    fleetService,
		Leaderboard:     board,
		GameController:  gameController,
		LobbyController: lobbyController,
		AuthService:     authService,
		BotService:      botService,
		Hub:             hub,
		WSHandler:       wsHandler,
		WSServer:        wsServer,
	}
}

// Close cancels pending bot moves, disconnects clients and releases storage
func (a *App) Close() error {
	a.BotService.Shutdown()
	a.Hub.Close()
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
