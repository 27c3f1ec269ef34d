package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/seabattle-go/internal/api/response"
	"github.com/mcoot/seabattle-go/internal/model"
	"github.com/mcoot/seabattle-go/internal/services/lobby"
)

// RoomHandler serves the matchmaking directory
type RoomHandler struct {
	lobbyController *lobby.Controller
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(lobbyController *lobby.Controller) *RoomHandler {
	return &RoomHandler{lobbyController: lobbyController}
}

// List handles GET /api/v1/rooms
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	rooms := []response.Room{}
	for room := range h.lobbyController.ListOpenRooms(r.Context()) {
		rooms = append(rooms, response.RoomFromModel(&room))
	}
	response.JSON(w, http.StatusOK, response.RoomList{Rooms: rooms})
}

// Get handles GET /api/v1/rooms/{id}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.RoomID(mux.Vars(r)["id"])

	room, err := h.lobbyController.GetRoom(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(room))
}
