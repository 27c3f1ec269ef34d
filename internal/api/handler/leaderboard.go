package handler

import (
	"net/http"

	"github.com/mcoot/seabattle-go/internal/api/response"
	"github.com/mcoot/seabattle-go/internal/services/leaderboard"
)

// WinnersHandler serves the leaderboard
type WinnersHandler struct {
	leaderboard *leaderboard.Service
}

// NewWinnersHandler creates a new winners handler
func NewWinnersHandler(board *leaderboard.Service) *WinnersHandler {
	return &WinnersHandler{leaderboard: board}
}

// List handles GET /api/v1/winners
func (h *WinnersHandler) List(w http.ResponseWriter, r *http.Request) {
	winners, err := h.leaderboard.Winners(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.WinnersFromModel(winners))
}
