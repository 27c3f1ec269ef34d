package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/mcoot/seabattle-go/internal/api"
	"github.com/mcoot/seabattle-go/internal/factory"
	"github.com/mcoot/seabattle-go/internal/services/fleet"
	redisstorage "github.com/mcoot/seabattle-go/internal/storage/redis"
)

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Build factory config from environment
	cfg := factory.Config{
		Logger:      logger,
		StorageType: os.Getenv("STORAGE_TYPE"),
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg
	}

	// STRICT_PLACEMENT=false allows ships to touch
	if v := os.Getenv("STRICT_PLACEMENT"); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			logger.Error("invalid STRICT_PLACEMENT", slog.String("value", v))
			os.Exit(1)
		}
		rules := fleet.DefaultRules()
		rules.ForbidAdjacent = strict
		cfg.FleetRules = &rules
	}

	if v := os.Getenv("BOT_ATTACK_DELAY"); v != "" {
		delay, err := time.ParseDuration(v)
		if err != nil || delay <= 0 {
			logger.Error("invalid BOT_ATTACK_DELAY", slog.String("value", v))
			os.Exit(1)
		}
		cfg.BotConfig.AttackDelay = delay
	}

	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close application", slog.String("error", err.Error()))
		}
	}()

	router := api.NewRouter(api.RouterConfig{
		Logger:          logger,
		WSServer:        app.WSServer,
		LobbyController: app.LobbyController,
		GameController:  app.GameController,
		Leaderboard:     app.Leaderboard,
	})

	serverConfig := api.DefaultServerConfig()
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			logger.Error("invalid PORT", slog.String("value", v))
			os.Exit(1)
		}
		serverConfig.Port = port
	}
	server := api.NewServer(router, serverConfig, logger)
	server.OnShutdown(app.Hub.Close)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			return
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
		}
	}

	logger.Info("server stopped")
}
