package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/seabattle-go/internal/api/handler"
	"github.com/mcoot/seabattle-go/internal/api/middleware"
	"github.com/mcoot/seabattle-go/internal/api/response"
	"github.com/mcoot/seabattle-go/internal/services/game"
	"github.com/mcoot/seabattle-go/internal/services/leaderboard"
	"github.com/mcoot/seabattle-go/internal/services/lobby"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	WSServer        http.Handler // Optional, mounted at /ws
	LobbyController *lobby.Controller
	GameController  *game.Controller
	Leaderboard     *leaderboard.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	roomHandler := handler.NewRoomHandler(cfg.LobbyController)
	matchHandler := handler.NewMatchHandler(cfg.GameController)
	winnersHandler := handler.NewWinnersHandler(cfg.Leaderboard)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	if cfg.WSServer != nil {
		r.Handle("/ws", loggingMiddleware(cfg.WSServer)).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/rooms", roomHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{id}", roomHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/matches/{id}", matchHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/winners", winnersHandler.List).Methods(http.MethodGet)

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
