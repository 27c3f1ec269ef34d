package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/seabattle-go/internal/api/response"
	"github.com/mcoot/seabattle-go/internal/model"
	"github.com/mcoot/seabattle-go/internal/services/game"
)

// MatchHandler exposes read-only match summaries
type MatchHandler struct {
	gameController *game.Controller
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(gameController *game.Controller) *MatchHandler {
	return &MatchHandler{gameController: gameController}
}

// Get handles GET /api/v1/matches/{id}
func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.MatchID(mux.Vars(r)["id"])

	match, err := h.gameController.GetMatch(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchFromModel(match))
}
